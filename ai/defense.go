package ai

import (
	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/perception"
	"github.com/skirmish-engine/core/rules"
)

// defenseActions is spec.md §4.9 "Defense": a critical reaction that runs
// every tick regardless of stagger schedule. It orders ungrouped, idle
// combat units near the base to engage the innermost threat, bypassing
// the trickle-attack prevention attack groups enforce.
func defenseActions(p *Planner, state *core.GameState, cache *perception.Cache, catalog rules.Catalog) []action.Action {
	threat := innermostThreat(cache, p.BaseCenter)
	if threat == nil {
		return nil
	}

	grouped := map[core.EntityID]bool{}
	for _, g := range p.Groups {
		for _, id := range g.UnitIDs {
			grouped[id] = true
		}
	}

	var defenders []core.EntityID
	for _, u := range cache.OwnCombatUnits {
		if grouped[u.ID] || u.Harvester != nil || u.Engineer != nil {
			continue
		}
		if u.Pos.Dist(p.BaseCenter) > baseDefenseRadius*1.5 {
			continue
		}
		if u.Combat != nil && u.Combat.TargetID == threat.ID {
			continue // already on it; no re-issuance
		}
		defenders = append(defenders, u.ID)
	}
	if len(defenders) == 0 {
		return nil
	}
	return []action.Action{{Kind: action.CommandAttack, PlayerID: p.PlayerID, UnitIDs: defenders, TargetID: threat.ID}}
}

// innermostThreat returns the live enemy combat unit closest to center.
func innermostThreat(cache *perception.Cache, center core.Vector) *core.Entity {
	var best *core.Entity
	bestD := baseDefenseRadius
	for _, e := range cache.EnemyCombatUnits {
		if d := e.Pos.Dist(center); d <= bestD {
			best, bestD = e, d
		}
	}
	return best
}
