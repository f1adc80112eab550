package pathfind

import (
	"container/heap"
	"math"
)

// radiusBucket quantizes an entity radius into a small number of buckets
// so the per-tick path cache hits across units of similar size instead of
// being keyed by exact float radius.
func radiusBucket(radius float64) int {
	switch {
	case radius <= 8:
		return 0
	case radius <= 14:
		return 1
	case radius <= 22:
		return 2
	default:
		return 3
	}
}

type cacheKey struct {
	start, goal Cell
	bucket      int
}

// Pathfinder owns the per-tick path cache invalidated whenever the
// underlying CollisionGrid is refreshed.
type Pathfinder struct {
	grid  *CollisionGrid
	cache map[cacheKey][]Cell
}

func NewPathfinder(grid *CollisionGrid) *Pathfinder {
	return &Pathfinder{grid: grid, cache: make(map[cacheKey][]Cell)}
}

// InvalidateCache drops the path cache; call once per tick, right after
// CollisionGrid.Refresh.
func (pf *Pathfinder) InvalidateCache(grid *CollisionGrid) {
	pf.grid = grid
	pf.cache = make(map[cacheKey][]Cell)
}

// FindPath returns a waypoint path from start to goal for a unit of the
// given radius and owner, or nil if no path exists (caller falls back to
// direct steering, per spec.md §4.2).
func (pf *Pathfinder) FindPath(start, goal Cell, radius float64, owner int) []Cell {
	key := cacheKey{start: start, goal: goal, bucket: radiusBucket(radius)}
	if cached, ok := pf.cache[key]; ok {
		return cached
	}
	path := pf.search(start, goal, owner)
	pf.cache[key] = path
	return path
}

var eightDirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

func (pf *Pathfinder) search(start, goal Cell, owner int) []Cell {
	g := pf.grid
	if !g.Passable(goal) {
		return nil
	}

	open := &nodeHeap{}
	heap.Init(open)
	heap.Push(open, &node{c: start, g: 0, f: chebyshev(start, goal)})

	came := make(map[Cell]Cell)
	gScore := map[Cell]float64{start: 0}
	closed := make(map[Cell]bool)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		if closed[cur.c] {
			continue
		}
		closed[cur.c] = true
		if cur.c == goal {
			return reconstruct(came, goal)
		}

		for _, d := range eightDirs {
			next := Cell{X: cur.c.X + d[0], Y: cur.c.Y + d[1]}
			if !g.Passable(next) {
				continue
			}
			if d[0] != 0 && d[1] != 0 {
				corner1 := Cell{X: cur.c.X + d[0], Y: cur.c.Y}
				corner2 := Cell{X: cur.c.X, Y: cur.c.Y + d[1]}
				if !g.Passable(corner1) || !g.Passable(corner2) {
					continue
				}
			}
			stepCost := g.CostFor(next, owner)
			if d[0] != 0 && d[1] != 0 {
				stepCost *= math.Sqrt2
			}
			tentative := gScore[cur.c] + stepCost
			if old, ok := gScore[next]; ok && tentative >= old {
				continue
			}
			gScore[next] = tentative
			came[next] = cur.c
			heap.Push(open, &node{c: next, g: tentative, f: tentative + chebyshev(next, goal)})
		}
	}
	return nil
}

// SmoothPath removes redundant waypoints via line-of-sight culling,
// unchanged in behavior from the teacher's implementation.
func SmoothPath(g *CollisionGrid, path []Cell) []Cell {
	if len(path) <= 2 {
		return path
	}
	smooth := []Cell{path[0]}
	cur := 0
	for cur < len(path)-1 {
		farthest := cur + 1
		for i := len(path) - 1; i > cur+1; i-- {
			if lineOfSight(g, path[cur], path[i]) {
				farthest = i
				break
			}
		}
		smooth = append(smooth, path[farthest])
		cur = farthest
	}
	return smooth
}

func lineOfSight(g *CollisionGrid, a, b Cell) bool {
	dx := iabs(b.X - a.X)
	dy := iabs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx - dy
	x, y := a.X, a.Y
	for {
		if !g.Passable(Cell{X: x, Y: y}) {
			return false
		}
		if x == b.X && y == b.Y {
			return true
		}
		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func iabs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// chebyshev is the octile heuristic spec.md §4.2 calls for on an
// 8-connected grid with diagonal cost sqrt(2).
func chebyshev(a, b Cell) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	return dx + dy + (math.Sqrt2-2)*math.Min(dx, dy)
}

func reconstruct(came map[Cell]Cell, goal Cell) []Cell {
	path := []Cell{goal}
	cur := goal
	for {
		prev, ok := came[cur]
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type node struct {
	c    Cell
	g, f float64
}

type nodeHeap []*node

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
