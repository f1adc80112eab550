package ai

import (
	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/perception"
	"github.com/skirmish-engine/core/rules"
)

const demoTruckMinScore = 5.0
const demoClusterRadius = 220.0

// specialOpsActions is spec.md §4.9 "Special-ops": air strikes, a
// demo-truck assault on the best building cluster (one truck at a
// time), and steering engineers toward the highest-priority capture
// target near the player's base (this catalog has no "hijacker" unit,
// so vehicle-hijack assault has nothing to act on and is a no-op by
// construction rather than a stub).
func specialOpsActions(p *Planner, state *core.GameState, cache *perception.Cache, catalog rules.Catalog) []action.Action {
	var out []action.Action
	out = append(out, airStrikeActions(p, state, cache, catalog)...)
	out = append(out, demoTruckAssaultActions(p, state, cache, catalog)...)
	out = append(out, engineerCaptureActions(p, state, cache)...)
	return out
}

func airStrikeActions(p *Planner, state *core.GameState, cache *perception.Cache, catalog rules.Catalog) []action.Action {
	var out []action.Action
	for _, u := range cache.Own {
		if u.AirUnit == nil || u.AirUnit.State != core.AirDocked || u.AirUnit.Ammo <= 0 {
			continue
		}
		if u.Combat != nil && !u.Combat.TargetID.IsNil() {
			continue
		}
		target := bestAirStrikeTarget(cache, catalog)
		if target == nil {
			continue
		}
		out = append(out, action.Action{Kind: action.CommandAttack, PlayerID: p.PlayerID, UnitIDs: []core.EntityID{u.ID}, TargetID: target.ID})
	}
	return out
}

// bestAirStrikeTarget scores enemy units/buildings, penalizing anything
// guarded by an AA-capable defense within its range.
func bestAirStrikeTarget(cache *perception.Cache, catalog rules.Catalog) *core.Entity {
	var best *core.Entity
	bestScore := -1e18
	candidates := append(append([]*core.Entity{}, cache.EnemyCombatUnits...), cache.EnemyBuildings...)
	for _, e := range candidates {
		score := 0.0
		if e.MaxHP > 0 {
			score += e.MaxHP / 200.0
		}
		if bdef, ok := catalog.Building(e.Key); ok && bdef.IsDefense {
			score += 2.0
		}
		if aaGuarded(cache, catalog, e.Pos) {
			score -= 5.0
		}
		if score > bestScore {
			best, bestScore = e, score
		}
	}
	if bestScore < 0 {
		return nil
	}
	return best
}

func aaGuarded(cache *perception.Cache, catalog rules.Catalog, pos core.Vector) bool {
	for _, b := range cache.EnemyBuildings {
		bdef, ok := catalog.Building(b.Key)
		if !ok || bdef.Weapon == nil || !bdef.Weapon.TargetsAir {
			continue
		}
		if pos.Dist(b.Pos) <= bdef.Weapon.Range {
			return true
		}
	}
	return false
}

// demoTruckAssaultActions sends one undetonated, idle demo truck at the
// best building cluster, above demoTruckMinScore.
func demoTruckAssaultActions(p *Planner, state *core.GameState, cache *perception.Cache, catalog rules.Catalog) []action.Action {
	var truck *core.Entity
	for _, u := range cache.Own {
		if u.DemoTruck == nil || u.DemoTruck.HasDetonated {
			continue
		}
		if u.DemoTruck.DetonationTargetID != core.Nil || u.DemoTruck.DetonationTargetPos != nil {
			return nil // already one truck committed
		}
		truck = u
		break
	}
	if truck == nil {
		return nil
	}

	cluster, score := bestBuildingCluster(cache)
	if cluster == nil || score < demoTruckMinScore {
		return nil
	}
	return []action.Action{{Kind: action.CommandAttack, PlayerID: p.PlayerID, UnitIDs: []core.EntityID{truck.ID}, TargetID: cluster.ID}}
}

func bestBuildingCluster(cache *perception.Cache) (*core.Entity, float64) {
	var best *core.Entity
	bestScore := -1.0
	for _, b := range cache.EnemyBuildings {
		score := 0.0
		for _, other := range cache.EnemyBuildings {
			if other.ID != b.ID && other.Pos.Dist(b.Pos) <= demoClusterRadius {
				score += 1.0
			}
		}
		if score > bestScore {
			best, bestScore = b, score
		}
	}
	return best, bestScore
}

const engineerCaptureRadius = 900.0

// engineerCaptureActions biases an idle engineer's auto-acquire toward
// the highest-priority target (conyard/factory) near the player's base
// by moving it adjacent; reducer/engineer.go's own proximity auto-
// acquire then naturally locks onto that same building once in range.
func engineerCaptureActions(p *Planner, state *core.GameState, cache *perception.Cache) []action.Action {
	var out []action.Action
	for _, u := range cache.Own {
		if u.Engineer == nil {
			continue
		}
		if !u.Engineer.CaptureTargetID.IsNil() || !u.Engineer.RepairTargetID.IsNil() {
			continue
		}
		if u.Movement != nil && u.Movement.MoveTarget != nil {
			continue
		}
		target := priorityCaptureTarget(cache, p.BaseCenter)
		if target == nil {
			continue
		}
		out = append(out, action.Action{Kind: action.CommandMove, PlayerID: p.PlayerID, UnitIDs: []core.EntityID{u.ID}, X: target.Pos.X, Y: target.Pos.Y})
	}
	return out
}

func priorityCaptureTarget(cache *perception.Cache, base core.Vector) *core.Entity {
	rank := map[string]int{"construction_yard": 2, "war_factory": 1}
	var best *core.Entity
	bestScore := -1e18
	for _, b := range cache.EnemyBuildings {
		if b.Pos.Dist(base) > engineerCaptureRadius {
			continue
		}
		score := float64(rank[b.Key]) - b.Pos.Dist(base)*0.001
		if best == nil || score > bestScore {
			best, bestScore = b, score
		}
	}
	return best
}
