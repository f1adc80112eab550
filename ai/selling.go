package ai

import (
	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/perception"
	"github.com/skirmish-engine/core/rules"
)

const emergencyCreditsFloor = 0
const allInSellHPRatio = 0.15

// sellingActions is spec.md §4.9 "Selling": emergency (credits at or
// below zero, sell the least valuable sellable building to stay solvent)
// and last-resort (an all_in strategy sells crippled defenses rather than
// let them be destroyed for nothing). No other selling policy exists;
// elimination pressure alone triggers no sale.
// New module: the teacher never sells anything.
func sellingActions(p *Planner, state *core.GameState, cache *perception.Cache, catalog rules.Catalog) []action.Action {
	player := state.Player(p.PlayerID)
	if player == nil {
		return nil
	}
	var out []action.Action

	if player.Credits <= emergencyCreditsFloor {
		if b := cheapestSellable(cache, catalog, ""); b != nil {
			out = append(out, action.Action{Kind: action.SellBuilding, PlayerID: p.PlayerID, BuildingID: b.ID})
		}
	}

	if p.Strategy == StrategyAllIn {
		for _, b := range cache.OwnBuildings {
			bdef, ok := catalog.Building(b.Key)
			if !ok || !bdef.Sellable || !bdef.IsDefense {
				continue
			}
			if b.HP/b.MaxHP <= allInSellHPRatio {
				out = append(out, action.Action{Kind: action.SellBuilding, PlayerID: p.PlayerID, BuildingID: b.ID})
			}
		}
	}

	return out
}

// cheapestSellable finds the lowest-cost sellable building, optionally
// restricted to a single key (empty means any).
func cheapestSellable(cache *perception.Cache, catalog rules.Catalog, onlyKey string) *core.Entity {
	var best *core.Entity
	bestCost := -1
	for _, b := range cache.OwnBuildings {
		if onlyKey != "" && b.Key != onlyKey {
			continue
		}
		bdef, ok := catalog.Building(b.Key)
		if !ok || !bdef.Sellable || bdef.IsConYard {
			continue
		}
		if bestCost < 0 || bdef.Cost < bestCost {
			best, bestCost = b, bdef.Cost
		}
	}
	return best
}
