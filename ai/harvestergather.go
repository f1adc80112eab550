package ai

import (
	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/perception"
	"github.com/skirmish-engine/core/rules"
)

// harvesterGatherRadius bounds how far a harvester will be routed to new
// ore when it has finished a cargo run and has no manual order pending.
const harvesterGatherRadius = 900.0

// harvesterGatherActions is spec.md §4.9 "Harvester gathering": idle
// harvesters (no resource target, not in manual mode) are routed to the
// best ore considering distance and, on hard difficulty, the decayed
// danger map of positions where harvesters came under fire or fled
// (deaths are not recorded). Grounded on
// the teacher's engine/ai/ai.go harvester-assist loop, generalized with
// the danger-map term the source repo never tracked.
func harvesterGatherActions(p *Planner, state *core.GameState, cache *perception.Cache, catalog rules.Catalog) []action.Action {
	var out []action.Action

	for _, h := range cache.OwnHarvesters {
		if h.Harvester.ManualMode || !h.Harvester.ResourceTargetID.IsNil() {
			continue
		}
		if h.Movement != nil && h.Movement.MoveTarget != nil {
			continue
		}
		ore := bestOreFor(p, state, h)
		if ore == nil {
			continue
		}
		out = append(out, action.Action{
			Kind: action.CommandAttack, PlayerID: p.PlayerID,
			UnitIDs: []core.EntityID{h.ID}, TargetID: ore.ID,
		})
	}

	return out
}

func bestOreFor(p *Planner, state *core.GameState, h *core.Entity) *core.Entity {
	var best *core.Entity
	bestScore := -1e18
	for _, e := range state.Entities.All() {
		if e.Dead || e.Kind != core.KindResource {
			continue
		}
		d := e.Pos.Dist(h.Pos)
		if d > harvesterGatherRadius {
			continue
		}
		score := -d - p.dangerAt(e.Pos)*400.0
		if best == nil || score > bestScore {
			best, bestScore = e, score
		}
	}
	return best
}
