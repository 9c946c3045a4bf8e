// Package spatial implements the uniform-grid broad phase and circle/
// rectangle/capsule narrow phase named in §4.2. The grid is rebuilt from
// scratch every tick after integration; there is no incremental update,
// since the rebuild cost is bounded and predictable at arena scale.
package spatial

import (
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
)

const defaultCellSize = 100.0

// cellCoord is a grid cell address.
type cellCoord struct{ x, y int }

// Grid maps cell coordinates to the entity ids placed there this tick.
type Grid struct {
	cellSize float64
	cells    map[cellCoord][]string
}

// NewGrid returns an empty grid with the given cell size (default ~100
// world units per §4.2 when cellSize <= 0).
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = defaultCellSize
	}
	return &Grid{cellSize: cellSize, cells: make(map[cellCoord][]string)}
}

// Reset clears the grid, ready for this tick's rebuild.
func (g *Grid) Reset() {
	for k := range g.cells {
		delete(g.cells, k)
	}
}

func (g *Grid) cellOf(v float64) int {
	return int(floorDiv(v, g.cellSize))
}

func floorDiv(v, size float64) float64 {
	q := v / size
	if q < 0 {
		// Go truncates toward zero; floor for negative coordinates needs
		// an explicit adjustment so cell addressing stays contiguous.
		qi := float64(int(q))
		if qi != q {
			qi--
		}
		return qi
	}
	return float64(int(q))
}

// InsertPoint places id in the single cell containing pos (§4.2 point
// insertion), used for small bodies like champions and minions.
func (g *Grid) InsertPoint(id string, pos mathx.Vec2) {
	c := cellCoord{g.cellOf(pos[0]), g.cellOf(pos[1])}
	g.cells[c] = append(g.cells[c], id)
}

// InsertRadius places id in every cell its bounding box (center ± radius)
// overlaps (§4.2 radius insertion), used for large bodies and range-query
// entities like zones and wards.
func (g *Grid) InsertRadius(id string, pos mathx.Vec2, radius float64) {
	minX, minY := g.cellOf(pos[0]-radius), g.cellOf(pos[1]-radius)
	maxX, maxY := g.cellOf(pos[0]+radius), g.cellOf(pos[1]+radius)
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			c := cellCoord{cx, cy}
			g.cells[c] = append(g.cells[c], id)
		}
	}
}

// Nearby returns the deduplicated ids of entities whose centers (as last
// inserted) fall within radius of pos, per §4.2/§8 scenario 1. Centers are
// supplied via the positionOf callback since the grid itself only stores
// ids.
func (g *Grid) Nearby(pos mathx.Vec2, radius float64, positionOf func(id string) (mathx.Vec2, bool)) []string {
	minX, minY := g.cellOf(pos[0]-radius), g.cellOf(pos[1]-radius)
	maxX, maxY := g.cellOf(pos[0]+radius), g.cellOf(pos[1]+radius)

	seen := make(map[string]bool)
	var out []string
	radiusSq := radius * radius
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			for _, id := range g.cells[cellCoord{cx, cy}] {
				if seen[id] {
					continue
				}
				seen[id] = true
				center, ok := positionOf(id)
				if !ok {
					continue
				}
				if mathx.DistSq(pos, center) <= radiusSq {
					out = append(out, id)
				}
			}
		}
	}
	return out
}

// Adjacent3x3 returns the deduplicated union of entities in the cell
// containing pos and its 8 neighbors (§4.2).
func (g *Grid) Adjacent3x3(pos mathx.Vec2) []string {
	cx, cy := g.cellOf(pos[0]), g.cellOf(pos[1])
	seen := make(map[string]bool)
	var out []string
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for _, id := range g.cells[cellCoord{cx + dx, cy + dy}] {
				if !seen[id] {
					seen[id] = true
					out = append(out, id)
				}
			}
		}
	}
	return out
}

// CandidatePairs enumerates every unique pair of distinct ids that share at
// least one cell, deduplicated across cells. This is the broad-phase
// candidate set narrow phase dispatches over each tick.
func (g *Grid) CandidatePairs() [][2]string {
	seenPair := make(map[[2]string]bool)
	var pairs [][2]string
	for _, ids := range g.cells {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a, b := ids[i], ids[j]
				if a == b {
					continue
				}
				if a > b {
					a, b = b, a
				}
				key := [2]string{a, b}
				if !seenPair[key] {
					seenPair[key] = true
					pairs = append(pairs, key)
				}
			}
		}
	}
	return pairs
}
