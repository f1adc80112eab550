package reducer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/core"
)

// Scenario 1: a harvester with an ore target already assigned exhausts a
// 30-HP patch at 5 HP/tick (6 ticks, landing Cargo exactly at the 6-unit
// cargo cap on the tick the ore dies) then docks the following tick,
// since it starts parked on the refinery's dock point.
func TestScenarioHarvesterFullCycle(t *testing.T) {
	catalog := testCatalog()
	p0 := NewPlayerState(0, false, core.DifficultyMedium, 0xff0000, 0)
	p1 := NewPlayerState(1, false, core.DifficultyMedium, 0x00ff00, 0)
	state := newTestState(p0, p1)
	ctx := newTestContext(catalog)

	refinery := SpawnBuilding(state, ctx, 0, "refinery", core.Vector{X: 100, Y: 100})
	dock := refinery.Pos.Add(core.Vector{X: refinery.W/2 + 20, Y: 0})

	harvester := SpawnStartingUnit(state, ctx, 0, "harvester", dock)
	harvester.Harvester.ResourceTargetID = state.Entities.Spawn(core.KindResource, "ore", -1, dock.Add(core.Vector{X: 10, Y: 0}))
	ore, _ := state.Entities.Get(harvester.Harvester.ResourceTargetID)
	ore.HP, ore.MaxHP = 30, 30
	ore.Radius = 2

	// Unrelated building for player 1 so the match doesn't end on an
	// elimination check while player 0's only asset is a unit + refinery.
	SpawnBuilding(state, ctx, 1, "barracks", core.Vector{X: 2000, Y: 2000})

	harvesterID := harvester.ID
	state = runTicks(state, ctx, 7)

	h, ok := state.Entities.Get(harvesterID)
	require.True(t, ok, "harvester should survive the cycle")
	assert.Equal(t, 0, h.Harvester.Cargo)
	assert.Equal(t, 6, state.Player(0).Credits)
	assert.True(t, h.Harvester.BaseTargetID.IsNil())
}

// Scenario 2: queuing three units at once fills Current then appends the
// rest to Queued (FIFO), and each completes build time apart, spawning
// one "soldier" per completion with the queue left empty.
func TestScenarioQueueUnitFIFO(t *testing.T) {
	catalog := testCatalog()
	p0 := NewPlayerState(0, false, core.DifficultyMedium, 0xff0000, 10_000)
	p1 := NewPlayerState(1, false, core.DifficultyMedium, 0x00ff00, 0)
	state := newTestState(p0, p1)
	ctx := newTestContext(catalog)

	SpawnBuilding(state, ctx, 0, "barracks", core.Vector{X: 0, Y: 0})
	// A second live player keeps the match running past the first
	// tick's elimination check.
	SpawnBuilding(state, ctx, 1, "barracks", core.Vector{X: 2000, Y: 2000})

	queueThree := []action.Action{{
		Kind: action.QueueUnit, PlayerID: 0, Category: "infantry", Key: "soldier", Count: 3,
	}}

	state = Tick(state, queueThree, ctx)
	require.Equal(t, "soldier", state.Player(0).Infantry.Current)
	require.Equal(t, []string{"soldier", "soldier"}, state.Player(0).Infantry.Queued)

	state = runTicks(state, ctx, 29)

	assert.Equal(t, "", state.Player(0).Infantry.Current)
	assert.Empty(t, state.Player(0).Infantry.Queued)

	soldiers := state.Entities.Filter(func(e *core.Entity) bool {
		return e.Kind == core.KindUnit && e.Key == "soldier" && e.Owner == 0
	})
	assert.Len(t, soldiers, 3)
}

// Scenario 3: an engineer with a capture target already assigned, standing
// within contact range, transfers building ownership and is consumed in
// the same tick.
func TestScenarioEngineerCapture(t *testing.T) {
	catalog := testCatalog()
	p0 := NewPlayerState(0, false, core.DifficultyMedium, 0xff0000, 0)
	p1 := NewPlayerState(1, false, core.DifficultyMedium, 0x00ff00, 0)
	state := newTestState(p0, p1)
	ctx := newTestContext(catalog)

	// Player 1 keeps a second, distant building so capturing the first
	// doesn't also flip the match's win condition mid-assertion.
	enemyBuilding := SpawnBuilding(state, ctx, 1, "refinery", core.Vector{X: 0, Y: 0})
	SpawnBuilding(state, ctx, 1, "barracks", core.Vector{X: 2000, Y: 2000})

	engineer := SpawnStartingUnit(state, ctx, 0, "engineer", core.Vector{X: 10, Y: 0})
	engineer.Engineer.CaptureTargetID = enemyBuilding.ID

	engineerID, buildingID := engineer.ID, enemyBuilding.ID
	state = Tick(state, nil, ctx)

	_, stillLive := state.Entities.Get(engineerID)
	assert.False(t, stillLive, "engineer is consumed by a successful capture")

	b, ok := state.Entities.Get(buildingID)
	require.True(t, ok)
	assert.Equal(t, 0, b.Owner)
}

// Scenario 4: three demo trucks, each rigged to detonate in place, go off
// in the same tick. Only the truck 100 units from the target falls inside
// its own 140-unit blast radius, so the target takes exactly one
// distance-falloff hit; all three trucks are destroyed and the blast
// kicks off a camera shake.
func TestScenarioDemoTruckChainReaction(t *testing.T) {
	catalog := testCatalog()
	p0 := NewPlayerState(0, false, core.DifficultyMedium, 0xff0000, 0)
	p1 := NewPlayerState(1, false, core.DifficultyMedium, 0x00ff00, 0)
	state := newTestState(p0, p1)
	ctx := newTestContext(catalog)

	SpawnBuilding(state, ctx, 0, "barracks", core.Vector{X: 2000, Y: 2000})
	SpawnBuilding(state, ctx, 1, "barracks", core.Vector{X: -2000, Y: -2000})

	target := SpawnStartingUnit(state, ctx, 1, "dummy", core.Vector{X: 0, Y: 0})

	rig := func(distance float64) core.EntityID {
		pos := core.Vector{X: distance, Y: 0}
		truck := SpawnStartingUnit(state, ctx, 0, "demo_truck", pos)
		selfPos := truck.Pos
		truck.DemoTruck.DetonationTargetPos = &selfPos
		return truck.ID
	}

	truck1 := rig(300)
	truck2 := rig(200)
	truck3 := rig(100)
	targetID := target.ID

	state = Tick(state, nil, ctx)

	for _, id := range []core.EntityID{truck1, truck2, truck3} {
		_, live := state.Entities.Get(id)
		assert.False(t, live, "every rigged truck should have detonated")
	}

	dummy, ok := state.Entities.Get(targetID)
	require.True(t, ok, "the target is outside two of the three blasts and survives")
	assert.InDelta(t, 786.0, dummy.HP, 1e-9)

	assert.InDelta(t, 1.0, state.Camera.ShakeIntensity, 1e-9)
	assert.Equal(t, 19, state.Camera.ShakeDuration)
}

// Round-trip law: canceling a build refunds exactly what was invested so
// far, leaving credits as though the order never happened.
func TestRoundTripStartBuildThenCancelRefundsInvested(t *testing.T) {
	catalog := testCatalog()
	p0 := NewPlayerState(0, false, core.DifficultyMedium, 0xff0000, 5000)
	p1 := NewPlayerState(1, false, core.DifficultyMedium, 0x00ff00, 0)
	state := newTestState(p0, p1)
	ctx := newTestContext(catalog)

	SpawnBuilding(state, ctx, 0, "construction_yard", core.Vector{X: 0, Y: 0})
	SpawnBuilding(state, ctx, 1, "barracks", core.Vector{X: 2000, Y: 2000})

	creditsBefore := state.Player(0).Credits

	start := []action.Action{{Kind: action.StartBuild, PlayerID: 0, Category: "building", Key: "barracks"}}
	state = Tick(state, start, ctx)
	state = runTicks(state, ctx, 3)

	invested := state.Player(0).Buildings.Invested
	require.Greater(t, invested, 0, "three ticks of a costed build should have invested something")

	cancel := []action.Action{{Kind: action.CancelBuild, PlayerID: 0, Category: "building"}}
	state = Tick(state, cancel, ctx)

	assert.Equal(t, "", state.Player(0).Buildings.Current)
	assert.Equal(t, 0, state.Player(0).Buildings.Invested)
	assert.Equal(t, creditsBefore, state.Player(0).Credits)
}

// Round-trip law: toggling sell mode twice returns to the starting value.
func TestRoundTripToggleSellModeTwiceIsIdentity(t *testing.T) {
	catalog := testCatalog()
	p0 := NewPlayerState(0, false, core.DifficultyMedium, 0xff0000, 0)
	state := newTestState(p0)
	ctx := newTestContext(catalog)

	before := state.SellMode
	toggle := []action.Action{{Kind: action.ToggleSellMode, PlayerID: 0}}

	state = Tick(state, toggle, ctx)
	assert.NotEqual(t, before, state.SellMode)

	state = Tick(state, toggle, ctx)
	assert.Equal(t, before, state.SellMode)
}

// SellBuilding refunds the catalog's sellBuildingReturnPercentage of the
// building's cost, scaled by its current health fraction.
func TestSellBuildingRefundsCatalogPercentageScaledByHealth(t *testing.T) {
	catalog := testCatalog()
	p0 := NewPlayerState(0, false, core.DifficultyMedium, 0xff0000, 0)
	p1 := NewPlayerState(1, false, core.DifficultyMedium, 0x00ff00, 0)
	state := newTestState(p0, p1)
	ctx := newTestContext(catalog)

	SpawnBuilding(state, ctx, 0, "construction_yard", core.Vector{X: 0, Y: 0})
	SpawnBuilding(state, ctx, 1, "barracks", core.Vector{X: 2000, Y: 2000})

	barracks := SpawnBuilding(state, ctx, 0, "barracks", core.Vector{X: 100, Y: 0})
	barracks.HP = barracks.MaxHP / 2 // 250 of 500

	sell := []action.Action{{Kind: action.SellBuilding, PlayerID: 0, BuildingID: barracks.ID}}
	state = Tick(state, sell, ctx)

	assert.Equal(t, 100, state.Player(0).Credits) // 500 * 0.4 * (250/500)
	_, live := state.Entities.Get(barracks.ID)
	assert.False(t, live)
}
