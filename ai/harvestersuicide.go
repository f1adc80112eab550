package ai

import (
	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/perception"
	"github.com/skirmish-engine/core/rules"
)

// harvesterSuicideActions is spec.md §4.9 "Harvester suicide": once no
// combat units remain, the economy is already lost, so every harvester
// is sent to ram the highest-value enemy building instead of idling.
func harvesterSuicideActions(p *Planner, state *core.GameState, cache *perception.Cache, catalog rules.Catalog) []action.Action {
	if len(cache.OwnCombatUnits) > 0 || len(cache.OwnHarvesters) == 0 {
		return nil
	}
	target := highestValueBuilding(cache, catalog)
	if target == nil {
		return nil
	}

	var ids []core.EntityID
	for _, h := range cache.OwnHarvesters {
		ids = append(ids, h.ID)
	}
	return []action.Action{{Kind: action.CommandAttack, PlayerID: p.PlayerID, UnitIDs: ids, TargetID: target.ID}}
}

func highestValueBuilding(cache *perception.Cache, catalog rules.Catalog) *core.Entity {
	var best *core.Entity
	bestCost := -1
	for _, b := range cache.EnemyBuildings {
		bdef, ok := catalog.Building(b.Key)
		if !ok {
			continue
		}
		if bdef.Cost > bestCost {
			best, bestCost = b, bdef.Cost
		}
	}
	return best
}
