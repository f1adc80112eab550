// Package pathfind provides the tile-rasterized obstacle grid and A*
// pathfinder the reducer's movement phase drives units through. Grounded
// on the teacher's engine/pathfind/{navgrid,astar,steering}.go and
// engine/maplib/tilemap.go, generalized to spec.md §4.2's owner-aware
// soft edge costs and per-tick path cache.
package pathfind

import "math"

const cellSize = 16.0

// Cell is an integer tile coordinate.
type Cell struct{ X, Y int }

// CollisionGrid is a bitmap of hard obstacles (buildings/rocks/wells) plus
// a soft per-cell owner-cost overlay (friendly/enemy unit occupancy),
// rebuilt once per tick before any entity update runs.
type CollisionGrid struct {
	width, height int

	blocked []bool // hard obstacle, per cell

	// occupants[cell][owner] is a small per-owner unit-occupancy count,
	// used by CostFor to bias traversal toward cells held by friendlies
	// over cells held by enemies (spec.md §4.2's "owner-aware edge cost").
	occupants map[Cell]map[int]int
}

// NewCollisionGrid builds an all-clear grid sized to cover worldW x worldH
// world units.
func NewCollisionGrid(worldW, worldH float64) *CollisionGrid {
	w := int(math.Ceil(worldW / cellSize))
	h := int(math.Ceil(worldH / cellSize))
	return &CollisionGrid{
		width:  w,
		height: h,
		blocked: make([]bool, w*h),
	}
}

func (g *CollisionGrid) index(c Cell) int { return c.Y*g.width + c.X }

func (g *CollisionGrid) inBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.width && c.Y < g.height
}

// WorldToCell converts a world position to the tile it falls in.
func WorldToCell(x, y float64) Cell {
	return Cell{X: int(math.Floor(x / cellSize)), Y: int(math.Floor(y / cellSize))}
}

// CellCenter returns the world-space center of a cell.
func CellCenter(c Cell) (float64, float64) {
	return (float64(c.X) + 0.5) * cellSize, (float64(c.Y) + 0.5) * cellSize
}

// Obstacle is one static footprint to rasterize: a building, rock, or
// well, inflated by its radius per spec.md §4.2 ("entity radius inflates
// obstacle footprint").
type Obstacle struct {
	X, Y, Radius float64
}

// UnitOccupant is a live unit contributing soft traversal cost to the
// cells it currently overlaps.
type UnitOccupant struct {
	X, Y, Radius float64
	Owner        int
}

// Refresh clears the grid and re-rasterizes every obstacle and unit
// occupant. Must run at the start of every tick, before entity behavior,
// per spec.md §4.2.
func (g *CollisionGrid) Refresh(obstacles []Obstacle, units []UnitOccupant) {
	for i := range g.blocked {
		g.blocked[i] = false
	}
	g.occupants = make(map[Cell]map[int]int, len(units))

	for _, o := range obstacles {
		g.rasterizeCircle(o.X, o.Y, o.Radius, func(c Cell) {
			g.blocked[g.index(c)] = true
		})
	}
	for _, u := range units {
		g.rasterizeCircle(u.X, u.Y, u.Radius*0.5, func(c Cell) {
			if g.occupants[c] == nil {
				g.occupants[c] = make(map[int]int)
			}
			g.occupants[c][u.Owner]++
		})
	}
}

func (g *CollisionGrid) rasterizeCircle(cx, cy, r float64, mark func(Cell)) {
	min := WorldToCell(cx-r, cy-r)
	max := WorldToCell(cx+r, cy+r)
	for y := min.Y; y <= max.Y; y++ {
		for x := min.X; x <= max.X; x++ {
			c := Cell{X: x, Y: y}
			if !g.inBounds(c) {
				continue
			}
			mark(c)
		}
	}
}

// Passable reports whether a cell is free of hard obstacles.
func (g *CollisionGrid) Passable(c Cell) bool {
	return g.inBounds(c) && !g.blocked[g.index(c)]
}

// CostFor returns the soft traversal multiplier for a cell as seen by a
// unit owned by movingOwner: cheaper where only friendlies are present,
// pricier where enemies are present, neutral otherwise. Hard blocks are
// decided separately by Passable; this only ever softens or stiffens an
// otherwise-passable cell.
func (g *CollisionGrid) CostFor(c Cell, movingOwner int) float64 {
	byOwner, ok := g.occupants[c]
	if !ok {
		return 1.0
	}
	cost := 1.0
	for owner, n := range byOwner {
		if n == 0 {
			continue
		}
		if owner == movingOwner {
			cost *= 0.85
		} else {
			cost *= 1.25
		}
	}
	return cost
}

// Width and Height expose grid dimensions for callers building a fresh
// grid sized to match (e.g. spatial.Grid).
func (g *CollisionGrid) Width() int  { return g.width }
func (g *CollisionGrid) Height() int { return g.height }
