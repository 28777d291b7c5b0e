// Package systems provides ECS systems for the simulation.
package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/components"
)

// Neighbor holds a nearby entity with precomputed spatial data.
type Neighbor struct {
	E      ecs.Entity
	Delta  mgl64.Vec2 // Offset from query origin
	DistSq float64
}

// SpatialGrid provides O(1) neighbor lookups using a cell-based grid.
// It covers a bounded world; positions outside are clamped into edge cells.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	origin   mgl64.Vec2 // World min corner
	cells    [][]ecs.Entity
}

// NewSpatialGrid creates a spatial grid covering the given world.
func NewSpatialGrid(w World, cellSize float64) *SpatialGrid {
	cols := int(w.Width/cellSize) + 1
	rows := int(w.Height/cellSize) + 1

	cells := make([][]ecs.Entity, cols*rows)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		origin:   w.Min(),
		cells:    cells,
	}
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity to the grid at the given position.
func (g *SpatialGrid) Insert(e ecs.Entity, p mgl64.Vec2) {
	col, row := g.cell(p)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], e)
}

// MaxQueryResults caps the number of neighbors returned by spatial queries.
const MaxQueryResults = 128

// QueryRadiusInto finds entities within radius and appends to dst (up to MaxQueryResults).
// Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, p mgl64.Vec2, radius float64, exclude ecs.Entity, posMap *ecs.Map1[components.Position]) []Neighbor {
	cellRadius := int(radius/g.cellSize) + 1
	centerCol, centerRow := g.cell(p)
	radiusSq := radius * radius

	for dc := -cellRadius; dc <= cellRadius; dc++ {
		col := centerCol + dc
		if col < 0 || col >= g.cols {
			continue
		}
		for dr := -cellRadius; dr <= cellRadius; dr++ {
			row := centerRow + dr
			if row < 0 || row >= g.rows {
				continue
			}

			for _, e := range g.cells[row*g.cols+col] {
				if e == exclude {
					continue
				}
				pos := posMap.Get(e)
				if pos == nil {
					continue
				}

				delta := pos.Vec().Sub(p)
				distSq := delta.Dot(delta)
				if distSq <= radiusSq {
					dst = append(dst, Neighbor{E: e, Delta: delta, DistSq: distSq})
					if len(dst) >= MaxQueryResults {
						return dst
					}
				}
			}
		}
	}

	return dst
}

// Nearest returns the closest entity within radius of p.
func (g *SpatialGrid) Nearest(p mgl64.Vec2, radius float64, posMap *ecs.Map1[components.Position]) (ecs.Entity, bool) {
	var best Neighbor
	found := false
	for _, n := range g.QueryRadiusInto(nil, p, radius, ecs.Entity{}, posMap) {
		if !found || n.DistSq < best.DistSq {
			best, found = n, true
		}
	}
	return best.E, found
}

// cell returns the column and row for a world position, clamped to the grid.
func (g *SpatialGrid) cell(p mgl64.Vec2) (int, int) {
	col := int((p[0] - g.origin[0]) / g.cellSize)
	row := int((p[1] - g.origin[1]) / g.cellSize)

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}
