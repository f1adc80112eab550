package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skirmish-engine/core/config"
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/rules"
)

func spawnBuilding(store *core.EntityStore, owner int, key string, hp float64, pos core.Vector) *core.Entity {
	id := store.Spawn(core.KindBuilding, key, owner, pos)
	e, _ := store.Get(id)
	e.HP, e.MaxHP = hp, hp
	e.Building = &core.BuildingState{}
	return e
}

func spawnUnit(store *core.EntityStore, owner int, key string, hp float64, pos core.Vector, armed bool) *core.Entity {
	id := store.Spawn(core.KindUnit, key, owner, pos)
	e, _ := store.Get(id)
	e.HP, e.MaxHP = hp, hp
	e.Movement = &core.Movement{}
	if armed {
		e.Combat = &core.Combat{}
	}
	return e
}

// TestPlannerThinkDoesNotPanicOnAMinimalBase is a smoke test: a freshly
// built planner, handed a small two-player state (a construction yard and
// a refinery for the AI player, a combat unit for its opponent parked
// inside base-defense range), must return without panicking and without
// producing any action for an unowned unit.
func TestPlannerThinkDoesNotPanicOnAMinimalBase(t *testing.T) {
	catalog := rules.Default()
	store := core.NewEntityStore()

	cy := spawnBuilding(store, 0, "construction_yard", 1000, core.Vector{X: 0, Y: 0})
	_ = cy
	spawnBuilding(store, 0, "refinery", 900, core.Vector{X: 100, Y: 0})
	harvester := spawnUnit(store, 0, "harvester", 600, core.Vector{X: 150, Y: 0}, false)
	harvester.Harvester = &core.Harvester{}

	spawnUnit(store, 1, "rifleman", 125, core.Vector{X: 50, Y: 50}, true)

	state := &core.GameState{
		Running:  true,
		Mode:     core.ModePlaying,
		Tick:     10,
		Entities: store,
		Players: []*core.PlayerState{
			{ID: 0, IsAI: true, Difficulty: core.DifficultyMedium, Credits: 2000},
			{ID: 1, IsAI: false, Credits: 2000},
		},
	}

	p := NewPlanner(0, core.DifficultyMedium, config.DefaultPersonality())

	require.NotPanics(t, func() {
		actions := p.Think(state, catalog, nil)
		for _, a := range actions {
			assert.Equal(t, 0, a.PlayerID, "the planner must only ever act for its own player")
		}
	})
}

// TestPlannerDummyDifficultyNeverActs covers spec.md's explicit "dummy
// never builds an attack group" rule at the Think entry point: a dummy
// planner returns no actions at all, regardless of state.
func TestPlannerDummyDifficultyNeverActs(t *testing.T) {
	catalog := rules.Default()
	store := core.NewEntityStore()
	spawnBuilding(store, 0, "construction_yard", 1000, core.Vector{X: 0, Y: 0})

	state := &core.GameState{
		Running: true, Mode: core.ModePlaying, Tick: 1000,
		Entities: store,
		Players:  []*core.PlayerState{{ID: 0, IsAI: true, Difficulty: core.DifficultyDummy, Credits: 5000}},
	}

	p := NewPlanner(0, core.DifficultyDummy, config.DefaultPersonality())
	actions := p.Think(state, catalog, nil)
	assert.Empty(t, actions)
}

// TestDecayVengeanceRemovesNegligibleEntries checks the sub-0.01 cleanup
// in decayVengeance so Vengeance doesn't grow unboundedly across a long
// match with many brief skirmishes.
func TestDecayVengeanceRemovesNegligibleEntries(t *testing.T) {
	p := NewPlanner(0, core.DifficultyMedium, config.DefaultPersonality())
	p.addVengeance(1, 0.01)

	for i := 0; i < 200; i++ {
		p.decayVengeance()
	}

	_, stillTracked := p.Vengeance[1]
	assert.False(t, stillTracked)
}
