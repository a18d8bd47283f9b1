package main

import "math/rand"

const (
	StatMax = 100.0

	// Per-tick decay while the match is active
	FoodDecayPerTick   = 0.1
	ImmuneDecayPerTick = 0.05
	StarveDecayPerTick = 0.2
	StarveThreshold    = 20.0

	// Movement validation: the furthest a single move intent may travel.
	// Swift Boots raise this through the speed modifier.
	BaseMoveStep = 25.0
)

// District is the cosmetic origin label assigned at match start
type District struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// Districts mirrors the twelve canonical districts
var Districts = []District{
	{1, "District 1", "Luxury goods"},
	{2, "District 2", "Masonry & weapons"},
	{3, "District 3", "Technology"},
	{4, "District 4", "Fishing"},
	{5, "District 5", "Power"},
	{6, "District 6", "Transportation"},
	{7, "District 7", "Lumber"},
	{8, "District 8", "Textiles"},
	{9, "District 9", "Grain"},
	{10, "District 10", "Livestock"},
	{11, "District 11", "Agriculture"},
	{12, "District 12", "Mining"},
}

// Abilities is the pool of combat-relevant tags
var Abilities = []string{
	"Archery", "Sword Fighting", "Stealth", "Strength", "Speed",
	"Swimming", "Climbing", "Tracking", "Medicine", "Survival",
	"Hand-to-Hand Combat", "Camouflage", "Knives", "Spears",
}

// Player is one connection's entity. Created minimal on join, enriched with
// district/ability/starting position when the match starts.
type Player struct {
	ID       string
	Name     string
	AnimalID string
	Image    string

	District District
	Ability  string
	StartX   float64
	StartY   float64

	X, Y      float64
	Health    float64
	Food      float64
	Immune    float64
	Alive     bool
	Inventory []*Item
	Weapon    *Item

	Defense int     // cumulative damage reduction from specials
	Speed   float64 // cumulative move-step bonus from specials

	Kills     int
	Placement int // 1 = winner, set when eliminated or at game over
}

// NewPlayer creates the minimal pre-match record
func NewPlayer(id, name, animalID, image string) *Player {
	return &Player{ID: id, Name: name, AnimalID: animalID, Image: image}
}

// AssignAttributes enriches the player for match start. The starting
// position index must be unique per player; callers hand out shuffled
// ring slots so positions are pairwise distinct.
func (p *Player) AssignAttributes(start Point) {
	p.District = Districts[rand.Intn(len(Districts))]
	p.Ability = Abilities[rand.Intn(len(Abilities))]
	p.StartX = start.X
	p.StartY = start.Y
	p.X = start.X
	p.Y = start.Y
	p.Health = StatMax
	p.Food = StatMax
	p.Immune = StatMax
	p.Alive = true
	p.Inventory = nil
	p.Weapon = nil
	p.Defense = 0
	p.Speed = 0
	p.Kills = 0
	p.Placement = 0
}

// DecayStats applies one tick of resource decay. Returns true if the decay
// brought health to zero.
func (p *Player) DecayStats() bool {
	if !p.Alive {
		return false
	}
	p.Food = Clamp(p.Food-FoodDecayPerTick, 0, StatMax)
	p.Immune = Clamp(p.Immune-ImmuneDecayPerTick, 0, StatMax)
	if p.Food < StarveThreshold {
		p.Health = Clamp(p.Health-StarveDecayPerTick, 0, StatMax)
	}
	return p.Health <= 0
}

// TakeDamage subtracts damage from health (clamped at zero) and returns
// true if the player died from it
func (p *Player) TakeDamage(dmg int) bool {
	if !p.Alive {
		return false
	}
	p.Health = Clamp(p.Health-float64(dmg), 0, StatMax)
	return p.Health <= 0
}

// MaxMoveStep is the furthest a single move intent may carry the player
func (p *Player) MaxMoveStep() float64 {
	return BaseMoveStep + p.Speed
}

// HoldsItem returns the inventory index of the item, or -1
func (p *Player) HoldsItem(itemID string) int {
	for i, it := range p.Inventory {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

// RemoveItem drops the inventory entry at index i, preserving order
func (p *Player) RemoveItem(i int) {
	p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
}

// ToState converts to protocol state
func (p *Player) ToState() PlayerState {
	weapon := ""
	if p.Weapon != nil {
		weapon = p.Weapon.Name
	}
	return PlayerState{
		ID:       p.ID,
		Name:     p.Name,
		District: p.District.Name,
		Ability:  p.Ability,
		X:        round1(p.X),
		Y:        round1(p.Y),
		Health:   round1(p.Health),
		Food:     round1(p.Food),
		Immune:   round1(p.Immune),
		Alive:    p.Alive,
		Weapon:   weapon,
		Kills:    p.Kills,
		AnimalID: p.AnimalID,
	}
}

// ToSelfState is the full own-state payload for gameState.currentPlayer
func (p *Player) ToSelfState() SelfState {
	inv := p.Inventory
	if inv == nil {
		inv = []*Item{}
	}
	return SelfState{
		PlayerState: p.ToState(),
		Inventory:   inv,
		Defense:     p.Defense,
		Speed:       p.Speed,
		StartX:      p.StartX,
		StartY:      p.StartY,
	}
}
