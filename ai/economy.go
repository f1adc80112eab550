package ai

import (
	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/perception"
	"github.com/skirmish-engine/core/rules"
)

const powerMargin = 20

// economyActions is spec.md §4.9 "Economy / production": keeps both the
// infantry and vehicle lanes occupied (dual-lane production, never idle),
// reacts to a tight power margin by queuing another power plant, and
// tops up harvesters toward the personality's target ratio. Grounded on
// the teacher's engine/systems/production.go TechTree.CanBuild loop.
func economyActions(p *Planner, state *core.GameState, cache *perception.Cache, catalog rules.Catalog) []action.Action {
	player := state.Player(p.PlayerID)
	if player == nil {
		return nil
	}
	var out []action.Action

	if player.UsedPower+powerMargin >= player.MaxPower && player.Buildings.Current == "" {
		out = append(out, action.Action{Kind: action.QueueUnit, PlayerID: p.PlayerID, Category: "building", Key: "power_plant", Count: 1})
	}

	if player.Infantry.Current == "" {
		if key := bestAffordableUnit(catalog, "infantry", player.Credits); key != "" {
			out = append(out, action.Action{Kind: action.QueueUnit, PlayerID: p.PlayerID, Category: "infantry", Key: key, Count: 1})
		}
	}
	if player.Vehicles.Current == "" {
		if key := bestAffordableUnit(catalog, "vehicle", player.Credits); key != "" {
			out = append(out, action.Action{Kind: action.QueueUnit, PlayerID: p.PlayerID, Category: "vehicle", Key: key, Count: 1})
		}
	}
	if p.Strategy != StrategyBuildup && player.Air.Current == "" && catalogHas(catalog, "airbase", cache) {
		if key := bestAffordableUnit(catalog, "air", player.Credits); key != "" {
			out = append(out, action.Action{Kind: action.QueueUnit, PlayerID: p.PlayerID, Category: "air", Key: key, Count: 1})
		}
	}

	refineryCount := countOwnBuildings(cache, "refinery")
	wantHarvesters := int(float64(refineryCount) * p.Personality.HarvesterTargetRatio)
	if len(cache.OwnHarvesters) < wantHarvesters && player.Vehicles.Current == "" {
		out = append(out, action.Action{Kind: action.QueueUnit, PlayerID: p.PlayerID, Category: "vehicle", Key: "harvester", Count: 1})
	}

	if p.Strategy == StrategyDefend || p.Strategy == StrategyBuildup {
		if key := cheapestDefense(catalog); key != "" && player.Buildings.Current == "" && refineryCount > 0 {
			out = append(out, action.Action{Kind: action.QueueUnit, PlayerID: p.PlayerID, Category: "building", Key: key, Count: 1})
		}
	}

	return out
}

// bestAffordableUnit picks the most expensive unit in category the
// player can currently afford, biasing spend toward stronger units
// rather than always queuing the cheapest option.
func bestAffordableUnit(catalog rules.Catalog, category string, credits int) string {
	best := ""
	bestCost := -1
	for _, key := range unitKeysByCategory(catalog, category) {
		udef, ok := catalog.Unit(key)
		if !ok || udef.Cost > credits {
			continue
		}
		if udef.Cost > bestCost {
			best, bestCost = key, udef.Cost
		}
	}
	return best
}

// unitKeysByCategory has no catalog-level enumerator, so it scans
// ProductionBuildings' CanProduce lists restricted to the category.
func unitKeysByCategory(catalog rules.Catalog, category string) []string {
	var out []string
	for _, bkey := range catalog.ProductionBuildings(category) {
		bdef, ok := catalog.Building(bkey)
		if !ok {
			continue
		}
		for _, ukey := range bdef.CanProduce {
			if udef, ok := catalog.Unit(ukey); ok && udef.Category == category {
				out = append(out, ukey)
			}
		}
	}
	return out
}

func countOwnBuildings(cache *perception.Cache, key string) int {
	n := 0
	for _, b := range cache.OwnBuildings {
		if b.Key == key {
			n++
		}
	}
	return n
}

func catalogHas(catalog rules.Catalog, buildingKey string, cache *perception.Cache) bool {
	return countOwnBuildings(cache, buildingKey) > 0
}

func cheapestDefense(catalog rules.Catalog) string {
	best := ""
	bestCost := -1
	for _, bkey := range []string{"gun_turret", "sam_site"} {
		bdef, ok := catalog.Building(bkey)
		if !ok || !bdef.IsDefense {
			continue
		}
		if bestCost < 0 || bdef.Cost < bestCost {
			best, bestCost = bkey, bdef.Cost
		}
	}
	return best
}
