package reducer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/core"
)

// TestInvariantProductionQueueStaysWellFormed drives a single player's
// infantry queue through randomized Queue/Cancel/Tick sequences and
// checks the properties the production phase must never violate: credits
// never go negative, progress stays within [0,100], and a queue can never
// invest more than the item's own cost.
func TestInvariantProductionQueueStaysWellFormed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		catalog := testCatalog()
		p0 := NewPlayerState(0, false, core.DifficultyMedium, 0xff0000, 2000)
		p1 := NewPlayerState(1, false, core.DifficultyMedium, 0x00ff00, 0)
		state := newTestState(p0, p1)
		ctx := newTestContext(catalog)

		SpawnBuilding(state, ctx, 0, "barracks", core.Vector{X: 0, Y: 0})
		SpawnBuilding(state, ctx, 1, "barracks", core.Vector{X: 2000, Y: 2000})

		steps := rapid.SliceOfN(rapid.IntRange(0, 2), 1, 40).Draw(t, "steps")

		for _, step := range steps {
			var acts []action.Action
			switch step {
			case 0:
				acts = []action.Action{{Kind: action.QueueUnit, PlayerID: 0, Category: "infantry", Key: "soldier", Count: 1}}
			case 1:
				acts = []action.Action{{Kind: action.CancelBuild, PlayerID: 0, Category: "infantry"}}
			case 2:
				// plain tick, no action
			}

			state = Tick(state, acts, ctx)

			p := state.Player(0)
			assert.GreaterOrEqualf(t, p.Credits, 0, "credits went negative: %d", p.Credits)
			assert.GreaterOrEqualf(t, p.Infantry.Progress, 0.0, "progress below 0: %v", p.Infantry.Progress)
			assert.LessOrEqualf(t, p.Infantry.Progress, 100.0, "progress above 100: %v", p.Infantry.Progress)
			if p.Infantry.Current != "" {
				udef, ok := catalog.Unit(p.Infantry.Current)
				assert.True(t, ok)
				assert.LessOrEqualf(t, p.Infantry.Invested, udef.Cost, "invested more than the item costs")
			} else {
				assert.Equal(t, 0, p.Infantry.Invested)
			}
		}
	})
}

// TestInvariantEveryHandleResolvesLiveOrNil checks Testable Property 1:
// after every tick, every id-valued reference on a live entity either
// resolves to a live entity or has been cleared to core.Nil — run across
// a scenario where units die mid-match (combat/harvester targets going
// stale) to exercise the resolve-at-tick-boundary bookkeeping in
// filterDead.
func TestInvariantEveryHandleResolvesLiveOrNil(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		catalog := testCatalog()
		p0 := NewPlayerState(0, false, core.DifficultyMedium, 0xff0000, 0)
		p1 := NewPlayerState(1, false, core.DifficultyMedium, 0x00ff00, 0)
		state := newTestState(p0, p1)
		ctx := newTestContext(catalog)

		SpawnBuilding(state, ctx, 0, "barracks", core.Vector{X: 0, Y: 0})
		SpawnBuilding(state, ctx, 1, "barracks", core.Vector{X: 2000, Y: 2000})

		n := rapid.IntRange(1, 6).Draw(t, "numDummies")
		var ids []core.EntityID
		for i := 0; i < n; i++ {
			d := SpawnStartingUnit(state, ctx, 1, "dummy", core.Vector{X: float64(i * 5), Y: 500})
			ids = append(ids, d.ID)
		}
		// An engineer pre-targeting a dummy that may or may not still be
		// alive by the time the tick runs.
		eng := SpawnStartingUnit(state, ctx, 0, "engineer", core.Vector{X: 0, Y: 500})
		eng.Engineer.RepairTargetID = ids[0]

		// Kill off a random subset before the tick runs, simulating combat
		// resolution landing right before the resolve pass.
		toKill := rapid.IntRange(0, n-1).Draw(t, "numToKill")
		for i := 0; i < toKill; i++ {
			if e, ok := state.Entities.Get(ids[i]); ok {
				e.HP = 0
			}
		}

		state = Tick(state, nil, ctx)

		for _, e := range state.Entities.All() {
			if e.Engineer != nil {
				if !e.Engineer.CaptureTargetID.IsNil() {
					assert.True(t, state.Entities.Live(e.Engineer.CaptureTargetID))
				}
				if !e.Engineer.RepairTargetID.IsNil() {
					assert.True(t, state.Entities.Live(e.Engineer.RepairTargetID))
				}
			}
			if e.Combat != nil && !e.Combat.TargetID.IsNil() {
				assert.True(t, state.Entities.Live(e.Combat.TargetID))
			}
		}
	})
}
