package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityStoreSpawnGetDestroy(t *testing.T) {
	s := NewEntityStore()

	id := s.Spawn(KindUnit, "rifleman", 1, Vector{X: 10, Y: 20})
	assert.False(t, id.IsNil())

	e, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, KindUnit, e.Kind)
	assert.Equal(t, 1, e.Owner)
	assert.Equal(t, Vector{X: 10, Y: 20}, e.Pos)
	assert.Equal(t, 1, s.Count())

	s.Destroy(id)
	assert.Equal(t, 0, s.Count())
	_, ok = s.Get(id)
	assert.False(t, ok)
	assert.False(t, s.Live(id))
}

func TestEntityStoreStaleHandleAfterSlotReuse(t *testing.T) {
	s := NewEntityStore()

	first := s.Spawn(KindUnit, "rifleman", 0, Vector{})
	s.Destroy(first)

	// Reuses the freed slot with a bumped generation.
	second := s.Spawn(KindUnit, "tank", 0, Vector{})
	assert.Equal(t, first.Index, second.Index)
	assert.NotEqual(t, first.Generation, second.Generation)

	// The stale handle from before the reuse must not resolve to the new
	// occupant: this is the whole point of the generational id.
	assert.False(t, s.Live(first))
	e, ok := s.Get(second)
	require.True(t, ok)
	assert.Equal(t, "tank", e.Key)

	assert.Equal(t, Nil, s.Resolve(first))
	assert.Equal(t, second, s.Resolve(second))
}

func TestEntityStoreAllStableOrder(t *testing.T) {
	s := NewEntityStore()
	var ids []EntityID
	for i := 0; i < 5; i++ {
		ids = append(ids, s.Spawn(KindUnit, "u", 0, Vector{}))
	}
	s.Destroy(ids[2])

	all := s.All()
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID.Index, all[i].ID.Index)
	}
}

func TestEntityStoreFilter(t *testing.T) {
	s := NewEntityStore()
	s.Spawn(KindUnit, "rifleman", 0, Vector{})
	s.Spawn(KindBuilding, "barracks", 0, Vector{})
	s.Spawn(KindUnit, "tank", 1, Vector{})

	units := s.Filter(func(e *Entity) bool { return e.Kind == KindUnit })
	assert.Len(t, units, 2)
}

func TestEntityStoreCloneIsIndependent(t *testing.T) {
	s := NewEntityStore()
	id := s.Spawn(KindUnit, "rifleman", 0, Vector{})
	e, _ := s.Get(id)
	e.Movement = &Movement{}
	e.HP = 100

	clone := s.Clone()
	ce, ok := clone.Get(id)
	require.True(t, ok)
	require.NotNil(t, ce.Movement)

	// Mutating the clone's component must not reach back into the
	// original (per-component deep copy, not a shared pointer).
	ce.Movement.StuckTimer = -1
	ce.HP = 1

	oe, _ := s.Get(id)
	assert.Equal(t, 0, oe.Movement.StuckTimer)
	assert.Equal(t, 100.0, oe.HP)
}

func TestEntityIDNil(t *testing.T) {
	assert.True(t, Nil.IsNil())
	var zero EntityID
	assert.Equal(t, Nil, zero)
}
