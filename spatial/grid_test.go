package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGrid() *Grid {
	g := NewGrid(32, 16)
	g.Rebuild([]Point{
		{ID: 1, X: 0, Y: 0, Radius: 8},
		{ID: 2, X: 10, Y: 0, Radius: 8},
		{ID: 3, X: 500, Y: 500, Radius: 8},
		{ID: 4, X: -40, Y: -40, Radius: 8},
	})
	return g
}

func TestGridQueryRadiusFindsNearbyOnly(t *testing.T) {
	g := buildGrid()

	got := g.QueryRadius(0, 0, 20, 0)
	ids := make([]uint64, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []uint64{1, 2}, ids)
}

func TestGridQueryRadiusStableOrder(t *testing.T) {
	g := buildGrid()
	got := g.QueryRadius(0, 0, 1000, 0)
	require.True(t, len(got) > 1)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].ID, got[i].ID)
	}
}

func TestGridQueryRadiusByTypePredicate(t *testing.T) {
	g := buildGrid()
	got := g.QueryRadiusByType(0, 0, 1000, 0, func(p Point) bool { return p.ID%2 == 0 })
	for _, p := range got {
		assert.Equal(t, uint64(0), p.ID%2)
	}
}

func TestGridFindNearest(t *testing.T) {
	g := buildGrid()
	best, ok := g.FindNearest(6, 0, 100, func(Point) bool { return true })
	require.True(t, ok)
	assert.Equal(t, uint64(2), best.ID) // (10,0) is closer to (6,0) than (0,0)
}

func TestGridFindNearestNoneWithinRange(t *testing.T) {
	g := buildGrid()
	_, ok := g.FindNearest(0, 0, 5, func(p Point) bool { return p.ID == 3 })
	assert.False(t, ok)
}

func TestGridRebuildClearsPreviousContents(t *testing.T) {
	g := buildGrid()
	g.Rebuild([]Point{{ID: 99, X: 0, Y: 0, Radius: 1}})
	got := g.QueryRadius(0, 0, 1000, 0)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(99), got[0].ID)
}
