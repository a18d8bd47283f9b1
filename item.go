package main

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"
)

const (
	PickupRadius = 35.0

	// Concentric spawn rings around the cornucopia. Weapons are the
	// contested center loot, specials sit just inside the start ring.
	weaponRingRadius   = 30.0
	resourceRingRadius = 80.0
	specialRingRadius  = 130.0
	ringJitter         = 15.0

	weaponSpawnCount   = 3
	resourceSpawnCount = 6
	specialSpawnCount  = 3
)

// Item categories
const (
	CategoryWeapon   = "weapon"
	CategoryResource = "resource"
	CategoryRandom   = "random"
)

// EffectKind enumerates what a consumable does when used
type EffectKind int

const (
	EffectNone    EffectKind = 0
	EffectHealth  EffectKind = 1
	EffectFood    EffectKind = 2
	EffectImmune  EffectKind = 3
	EffectDefense EffectKind = 4
	EffectSpeed   EffectKind = 5
)

var effectNames = map[EffectKind]string{
	EffectHealth:  "health",
	EffectFood:    "food",
	EffectImmune:  "immune",
	EffectDefense: "defense",
	EffectSpeed:   "speed",
}

// Effect is the typed stat effect of a resource or special item
type Effect struct {
	Kind   EffectKind `json:"kind"`
	Stat   string     `json:"stat"`
	Amount float64    `json:"amount"`
}

// Item is a contestable world object: weapon, resource or special
type Item struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Name     string  `json:"name"`
	Damage   int     `json:"damage,omitempty"` // weapons only
	Effect   *Effect `json:"effect,omitempty"` // resources and specials
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Taken    bool    `json:"taken"`
}

// WeaponNames is the cornucopia weapon pool
var WeaponNames = []string{
	"Bow and Arrows", "Sword", "Spear", "Knife", "Axe",
	"Mace", "Trident", "Crossbow", "Dagger",
}

type itemDef struct {
	name   string
	kind   EffectKind
	amount float64
}

var resourceDefs = []itemDef{
	{"Bread", EffectFood, 30},
	{"Dried Meat", EffectFood, 25},
	{"Water Flask", EffectFood, 20},
	{"Apple", EffectFood, 15},
	{"Medicine", EffectHealth, 25},
	{"Bandages", EffectHealth, 15},
	{"Antidote", EffectImmune, 30},
	{"Herbs", EffectImmune, 20},
}

var specialDefs = []itemDef{
	{"Body Armor", EffectDefense, 10},
	{"Swift Boots", EffectSpeed, 15},
	{"Adrenaline Shot", EffectHealth, 40},
	{"Mystery Ration", EffectFood, 35},
}

func newEffect(kind EffectKind, amount float64) *Effect {
	return &Effect{Kind: kind, Stat: effectNames[kind], Amount: amount}
}

// ringPosition places the i-th of n items evenly on a jittered ring
func ringPosition(center Point, radius float64, i, n int) (float64, float64) {
	angle := float64(i)/float64(n)*2*math.Pi + randFloat()*0.4
	r := radius + (randFloat()*2-1)*ringJitter
	x := Clamp(center.X+math.Cos(angle)*r, 0, ArenaWidth)
	y := Clamp(center.Y+math.Sin(angle)*r, 0, ArenaHeight)
	return x, y
}

// GenerateItems spawns the match loot in three concentric rings around the
// cornucopia: weapons nearest, resources mid, specials outermost.
func GenerateItems(arena *Arena) []*Item {
	items := make([]*Item, 0, weaponSpawnCount+resourceSpawnCount+specialSpawnCount)

	weapons := rand.Perm(len(WeaponNames))
	for i := 0; i < weaponSpawnCount; i++ {
		x, y := ringPosition(arena.Cornucopia, weaponRingRadius, i, weaponSpawnCount)
		items = append(items, &Item{
			ID:       uuid.NewString(),
			Category: CategoryWeapon,
			Name:     WeaponNames[weapons[i]],
			Damage:   WeaponDamageBonus,
			X:        x,
			Y:        y,
		})
	}

	resources := rand.Perm(len(resourceDefs))
	for i := 0; i < resourceSpawnCount; i++ {
		def := resourceDefs[resources[i]]
		x, y := ringPosition(arena.Cornucopia, resourceRingRadius, i, resourceSpawnCount)
		items = append(items, &Item{
			ID:       uuid.NewString(),
			Category: CategoryResource,
			Name:     def.name,
			Effect:   newEffect(def.kind, def.amount),
			X:        x,
			Y:        y,
		})
	}

	specials := rand.Perm(len(specialDefs))
	for i := 0; i < specialSpawnCount; i++ {
		def := specialDefs[specials[i]]
		x, y := ringPosition(arena.Cornucopia, specialRingRadius, i, specialSpawnCount)
		items = append(items, &Item{
			ID:       uuid.NewString(),
			Category: CategoryRandom,
			Name:     def.name,
			Effect:   newEffect(def.kind, def.amount),
			X:        x,
			Y:        y,
		})
	}

	return items
}

// Apply mutates the player's stats for this effect kind. Gauges are clamped
// after every mutation; defense and speed accumulate.
func (e *Effect) Apply(p *Player) string {
	switch e.Kind {
	case EffectHealth:
		p.Health = Clamp(p.Health+e.Amount, 0, StatMax)
	case EffectFood:
		p.Food = Clamp(p.Food+e.Amount, 0, StatMax)
	case EffectImmune:
		p.Immune = Clamp(p.Immune+e.Amount, 0, StatMax)
	case EffectDefense:
		p.Defense += int(e.Amount)
	case EffectSpeed:
		p.Speed += e.Amount
	default:
		return "no effect"
	}
	return fmt.Sprintf("+%g %s", e.Amount, e.Stat)
}
