package ai

import (
	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/perception"
	"github.com/skirmish-engine/core/rules"
)

// mcvActions is spec.md §4.9 "MCV & induction rigs": deploy an MCV into
// a construction yard once it has stopped moving on stable ground. This
// catalog has no separate deployable "induction rig" unit (resource
// wells here tend their own ore directly, see reducer/wells.go), so that
// half of the module has no action to emit; deploying the mobile
// construction vehicle is the half that applies.
func mcvActions(p *Planner, state *core.GameState, cache *perception.Cache, catalog rules.Catalog) []action.Action {
	var out []action.Action
	for _, u := range cache.Own {
		if u.Key != "mcv" || u.Movement == nil {
			continue
		}
		if u.Movement.MoveTarget != nil {
			continue
		}
		out = append(out, action.Action{Kind: action.DeployMCV, PlayerID: p.PlayerID, UnitID: u.ID})
	}
	return out
}
