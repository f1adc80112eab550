package ai

import (
	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/perception"
	"github.com/skirmish-engine/core/rules"
)

const harassGroupMaxSize = 4

// harassActions is spec.md §4.9 "Harass group": small, fast units target
// refineries, power, and isolated harvesters, falling back to the
// lowest-id enemy entity when none of those exists. Only active in the
// harass strategy, and only picks from units not already in an attack
// group.
func harassActions(p *Planner, state *core.GameState, cache *perception.Cache, catalog rules.Catalog) []action.Action {
	if p.Strategy != StrategyHarass {
		return nil
	}

	grouped := map[core.EntityID]bool{}
	for _, g := range p.Groups {
		for _, id := range g.UnitIDs {
			grouped[id] = true
		}
	}

	var squad []core.EntityID
	for _, u := range cache.OwnCombatUnits {
		if grouped[u.ID] || u.Harvester != nil || u.Engineer != nil {
			continue
		}
		udef, ok := catalog.Unit(u.Key)
		if !ok || udef.Speed < 35 {
			continue
		}
		squad = append(squad, u.ID)
		if len(squad) >= harassGroupMaxSize {
			break
		}
	}
	if len(squad) == 0 {
		return nil
	}

	target := harassTarget(cache)
	if target == nil {
		return nil
	}
	return []action.Action{{Kind: action.CommandAttack, PlayerID: p.PlayerID, UnitIDs: squad, TargetID: target.ID}}
}

// harassTarget prefers refineries, then power plants, then isolated
// (undefended) harvesters, then the first enemy entity in id order;
// distance to the squad is not considered.
func harassTarget(cache *perception.Cache) *core.Entity {
	if b := firstByKey(cache.EnemyBuildings, "refinery"); b != nil {
		return b
	}
	if b := firstByKey(cache.EnemyBuildings, "power_plant"); b != nil {
		return b
	}
	for _, owner := range cache.EnemyOwners() {
		for _, u := range cache.ByOwnerUnits[owner] {
			if u.Harvester == nil {
				continue
			}
			if !hasNearbyDefender(cache, u) {
				return u
			}
		}
	}
	if len(cache.Enemy) > 0 {
		return cache.Enemy[0]
	}
	return nil
}

func firstByKey(entities []*core.Entity, key string) *core.Entity {
	for _, e := range entities {
		if e.Key == key {
			return e
		}
	}
	return nil
}

const harassDefenderRadius = 220.0

func hasNearbyDefender(cache *perception.Cache, harvester *core.Entity) bool {
	for _, u := range cache.ByOwnerUnits[harvester.Owner] {
		if u.Combat != nil && u.ID != harvester.ID && u.Pos.Dist(harvester.Pos) <= harassDefenderRadius {
			return true
		}
	}
	return false
}
