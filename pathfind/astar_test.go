package pathfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldToCellAndBack(t *testing.T) {
	c := WorldToCell(33, 17)
	assert.Equal(t, Cell{X: 2, Y: 1}, c)
	cx, cy := CellCenter(c)
	assert.InDelta(t, 40.0, cx, 1e-9)
	assert.InDelta(t, 24.0, cy, 1e-9)
}

func TestCollisionGridObstacleBlocks(t *testing.T) {
	g := NewCollisionGrid(320, 320)
	g.Refresh([]Obstacle{{X: 160, Y: 160, Radius: 20}}, nil)

	c := WorldToCell(160, 160)
	assert.False(t, g.Passable(c))

	far := WorldToCell(10, 10)
	assert.True(t, g.Passable(far))
}

func TestCollisionGridRefreshClearsStaleObstacles(t *testing.T) {
	g := NewCollisionGrid(320, 320)
	g.Refresh([]Obstacle{{X: 160, Y: 160, Radius: 20}}, nil)
	require.False(t, g.Passable(WorldToCell(160, 160)))

	g.Refresh(nil, nil)
	assert.True(t, g.Passable(WorldToCell(160, 160)))
}

func TestCollisionGridCostForOwnerBias(t *testing.T) {
	g := NewCollisionGrid(320, 320)
	g.Refresh(nil, []UnitOccupant{{X: 50, Y: 50, Radius: 8, Owner: 0}})
	c := WorldToCell(50, 50)

	friendlyCost := g.CostFor(c, 0)
	enemyCost := g.CostFor(c, 1)
	assert.Less(t, friendlyCost, 1.0)
	assert.Greater(t, enemyCost, 1.0)
	assert.Less(t, friendlyCost, enemyCost)
}

func TestPathfinderFindsStraightPath(t *testing.T) {
	g := NewCollisionGrid(640, 640)
	g.Refresh(nil, nil)
	pf := NewPathfinder(g)

	start := WorldToCell(16, 16)
	goal := WorldToCell(16, 300)
	path := pf.FindPath(start, goal, 8, 0)

	require.NotEmpty(t, path)
	assert.Equal(t, start, path[0])
	assert.Equal(t, goal, path[len(path)-1])
}

func TestPathfinderNoPathThroughCompleteWall(t *testing.T) {
	g := NewCollisionGrid(640, 640)
	// A gapless wall spanning the full grid height between start and goal.
	var obstacles []Obstacle
	for y := 0; y < 640; y += 8 {
		obstacles = append(obstacles, Obstacle{X: 160, Y: float64(y), Radius: 6})
	}
	g.Refresh(obstacles, nil)
	pf := NewPathfinder(g)

	start := WorldToCell(16, 300)
	goal := WorldToCell(300, 300)
	path := pf.FindPath(start, goal, 8, 0)
	assert.Nil(t, path, "a complete wall with no gap should yield no path")
}

func TestPathfinderUnreachableGoalReturnsNil(t *testing.T) {
	g := NewCollisionGrid(320, 320)
	g.Refresh([]Obstacle{{X: 160, Y: 160, Radius: 30}}, nil)
	pf := NewPathfinder(g)

	start := WorldToCell(16, 16)
	goal := WorldToCell(160, 160) // blocked
	path := pf.FindPath(start, goal, 8, 0)
	assert.Nil(t, path)
}

func TestPathfinderCachesIdenticalRequest(t *testing.T) {
	g := NewCollisionGrid(320, 320)
	g.Refresh(nil, nil)
	pf := NewPathfinder(g)

	start := WorldToCell(16, 16)
	goal := WorldToCell(16, 100)
	first := pf.FindPath(start, goal, 8, 0)
	second := pf.FindPath(start, goal, 8, 0)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestPathfinderInvalidateCacheDropsStalePaths(t *testing.T) {
	g := NewCollisionGrid(320, 320)
	g.Refresh(nil, nil)
	pf := NewPathfinder(g)

	start := WorldToCell(16, 16)
	goal := WorldToCell(16, 100)
	pf.FindPath(start, goal, 8, 0)

	// Block the goal entirely and refresh; after invalidation the cached
	// (now stale) path must not be served.
	g.Refresh([]Obstacle{{X: 16, Y: 100, Radius: 40}}, nil)
	pf.InvalidateCache(g)

	path := pf.FindPath(start, goal, 8, 0)
	assert.Nil(t, path)
}

func TestSmoothPathShortensStraightLine(t *testing.T) {
	g := NewCollisionGrid(320, 320)
	g.Refresh(nil, nil)
	path := []Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
	smooth := SmoothPath(g, path)
	assert.LessOrEqual(t, len(smooth), len(path))
	assert.Equal(t, path[0], smooth[0])
	assert.Equal(t, path[len(path)-1], smooth[len(smooth)-1])
}
