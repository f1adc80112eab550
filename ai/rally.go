package ai

import (
	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/perception"
)

const strandedDistance = 1500.0

// rallyActions is spec.md §4.9 "Rally": units stranded more than
// strandedDistance from base and not in any attack group are ordered
// back toward a rally point between base and the map center.
func rallyActions(p *Planner, state *core.GameState, cache *perception.Cache) []action.Action {
	grouped := map[core.EntityID]bool{}
	for _, g := range p.Groups {
		for _, id := range g.UnitIDs {
			grouped[id] = true
		}
	}

	var stranded []core.EntityID
	for _, u := range cache.Own {
		if u.Kind != core.KindUnit || grouped[u.ID] || u.Harvester != nil {
			continue
		}
		if u.Movement != nil && u.Movement.MoveTarget != nil {
			continue
		}
		if u.Combat != nil && !u.Combat.TargetID.IsNil() {
			continue
		}
		if u.Pos.Dist(p.BaseCenter) > strandedDistance {
			stranded = append(stranded, u.ID)
		}
	}
	if len(stranded) == 0 {
		return nil
	}

	rally := rallyPointBetween(p.BaseCenter, state.Config)
	return []action.Action{{Kind: action.CommandAttackMove, PlayerID: p.PlayerID, UnitIDs: stranded, X: rally.X, Y: rally.Y}}
}
