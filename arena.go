package main

import "math"

const (
	ArenaWidth       = 800.0
	ArenaHeight      = 600.0
	TerrainCellSize  = 20
	StartRingRadius  = 150.0
	StartRingSlots   = 24
	terrainForestCut = 0.3
	terrainWaterCut  = 0.4
)

// Point is a position in arena coordinates
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TerrainCell is one decorative cell of the arena grid
type TerrainCell struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Type string `json:"type"`
}

// Arena is the immutable playing field for one match
type Arena struct {
	Width             float64       `json:"width"`
	Height            float64       `json:"height"`
	Terrain           []TerrainCell `json:"terrain"`
	Cornucopia        Point         `json:"cornucopia"`
	StartingPositions []Point       `json:"startingPositions"`
}

// GenerateArena builds the terrain grid, the cornucopia center and the
// ring of 24 evenly spaced starting positions.
func GenerateArena() *Arena {
	a := &Arena{
		Width:      ArenaWidth,
		Height:     ArenaHeight,
		Cornucopia: Point{X: ArenaWidth / 2, Y: ArenaHeight / 2},
	}

	for x := 0; x < int(ArenaWidth); x += TerrainCellSize {
		for y := 0; y < int(ArenaHeight); y += TerrainCellSize {
			r := randFloat()
			terrain := "sand"
			if r < terrainForestCut {
				terrain = "forest"
			} else if r < terrainWaterCut {
				terrain = "water"
			}
			a.Terrain = append(a.Terrain, TerrainCell{X: x, Y: y, Type: terrain})
		}
	}

	for i := 0; i < StartRingSlots; i++ {
		angle := float64(i) / StartRingSlots * 2 * math.Pi
		a.StartingPositions = append(a.StartingPositions, Point{
			X: a.Cornucopia.X + math.Cos(angle)*StartRingRadius,
			Y: a.Cornucopia.Y + math.Sin(angle)*StartRingRadius,
		})
	}

	return a
}

// InBounds reports whether a point lies inside the arena
func (a *Arena) InBounds(x, y float64) bool {
	return x >= 0 && x <= a.Width && y >= 0 && y <= a.Height
}
