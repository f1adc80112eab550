package ai

import (
	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/perception"
	"github.com/skirmish-engine/core/rules"
)

const harvesterFleeRadius = 260.0
const harvesterCargoSaveThreshold = 0.5

// harvesterSafetyActions is spec.md §4.9 "Harvester safety", a critical
// reaction run every tick: each harvester gets a desperation score (2 if
// it was hit in the last 40 ticks, 1.3 per enemy combat unit within
// harvesterFleeRadius, 0.5 per allied harvester within that radius hit
// in the last 40 ticks, 0.5 if it carries any cargo); one scoring 1.0 or
// more flees
// toward the nearest safe refinery, or a panic direction biased toward
// base if none is safe; a defender is dispatched alongside.
func harvesterSafetyActions(p *Planner, state *core.GameState, cache *perception.Cache, catalog rules.Catalog) []action.Action {
	var out []action.Action

	for _, h := range cache.OwnHarvesters {
		if h.Movement != nil && h.Movement.MoveTarget != nil && h.Harvester.ManualMode {
			continue
		}
		desperation := desperationScore(state, cache, h)
		if desperation < 1.0 {
			continue
		}

		dest, ok := safeRefinery(cache, h)
		if !ok {
			away := h.Pos.Sub(nearestEnemyPos(cache, h.Pos)).Norm()
			toward := p.BaseCenter.Sub(h.Pos).Norm()
			dest = h.Pos.Add(away.Add(toward).Norm().Scale(300))
		}

		h.Harvester.ManualMode = true
		out = append(out, action.Action{Kind: action.CommandMove, PlayerID: p.PlayerID, UnitIDs: []core.EntityID{h.ID}, X: dest.X, Y: dest.Y})

		if defender := nearestIdleDefender(cache, h); defender != nil {
			out = append(out, action.Action{Kind: action.CommandAttackMove, PlayerID: p.PlayerID, UnitIDs: []core.EntityID{defender.ID}, X: h.Pos.X, Y: h.Pos.Y})
		}

		p.recordDanger(h.Pos)
	}

	return out
}

func desperationScore(state *core.GameState, cache *perception.Cache, h *core.Entity) float64 {
	score := 0.0
	if h.Combat != nil && state.Tick-h.Combat.LastDamageTick < 40 {
		score += 2.0
	}
	for _, e := range cache.EnemyCombatUnits {
		d := e.Pos.Dist(h.Pos)
		if d > harvesterFleeRadius {
			continue
		}
		score += 1.0
		if e.Combat != nil && e.Kind == core.KindUnit {
			score += 0.3 // any armed unit nearby is a threat to an unarmed harvester
		}
	}
	for _, ally := range cache.OwnHarvesters {
		if ally.ID == h.ID || ally.Combat == nil {
			continue
		}
		if state.Tick-ally.Combat.LastDamageTick < 40 && ally.Pos.Dist(h.Pos) < harvesterFleeRadius {
			score += 0.5
		}
	}
	if float64(h.Harvester.Cargo) > 0 {
		score += harvesterCargoSaveThreshold
	}
	return score
}

func safeRefinery(cache *perception.Cache, h *core.Entity) (core.Vector, bool) {
	for _, b := range cache.OwnBuildings {
		if b.Key != "refinery" {
			continue
		}
		safe := true
		for _, e := range cache.EnemyCombatUnits {
			if e.Pos.Dist(b.Pos) <= harvesterFleeRadius {
				safe = false
				break
			}
		}
		if safe {
			return b.Pos, true
		}
	}
	return core.Vector{}, false
}

func nearestEnemyPos(cache *perception.Cache, from core.Vector) core.Vector {
	var best core.Vector
	bestD := -1.0
	for _, e := range cache.EnemyCombatUnits {
		d := e.Pos.Dist(from)
		if bestD < 0 || d < bestD {
			best, bestD = e.Pos, d
		}
	}
	return best
}

func nearestIdleDefender(cache *perception.Cache, h *core.Entity) *core.Entity {
	var best *core.Entity
	bestD := -1.0
	for _, u := range cache.OwnCombatUnits {
		if u.Harvester != nil || u.Engineer != nil {
			continue
		}
		if u.Combat != nil && !u.Combat.TargetID.IsNil() {
			continue
		}
		d := u.Pos.Dist(h.Pos)
		if bestD < 0 || d < bestD {
			best, bestD = u, d
		}
	}
	return best
}
