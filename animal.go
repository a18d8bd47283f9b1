package main

import (
	"math"

	"github.com/google/uuid"
)

const (
	AnimalSpawnCount  = 5
	AnimalTurnChance  = 0.02 // per-tick chance of a new random heading
	animalSpeedScale  = 1.0  // arena units per tick per speed point
)

// AnimalDef holds the fixed ratings of one archetype
type AnimalDef struct {
	Type   string
	Danger int
	Speed  float64
}

// AnimalTypes are the five roaming archetypes
var AnimalTypes = []AnimalDef{
	{Type: "Wolf", Danger: 8, Speed: 6},
	{Type: "Bear", Danger: 9, Speed: 4},
	{Type: "Tracker Jacker", Danger: 7, Speed: 8},
	{Type: "Muttation", Danger: 10, Speed: 7},
	{Type: "Snake", Danger: 6, Speed: 5},
}

// Animal is a roaming arena entity. Animals wander for the whole match and
// never engage players; the danger rating is presentational for now.
type Animal struct {
	ID        string
	Type      string
	Danger    int
	Speed     float64
	X, Y      float64
	Direction float64 // heading in radians
}

// GenerateAnimals spawns count animals at random positions and headings
func GenerateAnimals(count int) []*Animal {
	animals := make([]*Animal, 0, count)
	for i := 0; i < count; i++ {
		def := AnimalTypes[int(randFloat()*float64(len(AnimalTypes)))%len(AnimalTypes)]
		animals = append(animals, &Animal{
			ID:        uuid.NewString(),
			Type:      def.Type,
			Danger:    def.Danger,
			Speed:     def.Speed,
			X:         randFloat() * ArenaWidth,
			Y:         randFloat() * ArenaHeight,
			Direction: randFloat() * 2 * math.Pi,
		})
	}
	return animals
}

// Update advances the animal one tick: move along the heading, reflect the
// heading at arena edges, occasionally pick a fresh random heading.
func (a *Animal) Update() {
	a.X += math.Cos(a.Direction) * a.Speed * animalSpeedScale
	a.Y += math.Sin(a.Direction) * a.Speed * animalSpeedScale

	if a.X < 0 || a.X > ArenaWidth {
		a.Direction = math.Pi - a.Direction
		a.X = Clamp(a.X, 0, ArenaWidth)
	}
	if a.Y < 0 || a.Y > ArenaHeight {
		a.Direction = -a.Direction
		a.Y = Clamp(a.Y, 0, ArenaHeight)
	}

	if randFloat() < AnimalTurnChance {
		a.Direction = randFloat() * 2 * math.Pi
	}
}

// ToState converts to protocol state
func (a *Animal) ToState() AnimalState {
	return AnimalState{
		ID:        a.ID,
		Type:      a.Type,
		Danger:    a.Danger,
		Speed:     a.Speed,
		X:         round1(a.X),
		Y:         round1(a.Y),
		Direction: round1(a.Direction),
	}
}
