package ai

import (
	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/perception"
	"github.com/skirmish-engine/core/rules"
)

const kiteOptimalFraction = 0.7

// microActions is spec.md §4.9 "Micro (kiting/retreat)", a critical
// reaction run every tick regardless of stagger schedule. The reducer's
// own combat behavior (reducer/combat.go pursueTarget) already holds
// position and fires once in range, so this module only needs to
// override that default in the two cases spec.md calls out explicitly:
// retreat a critically wounded unit to its service depot, or pull a
// ranged, move-capable unit back out to its optimal range band rather
// than let it sit at point-blank.
func microActions(p *Planner, state *core.GameState, cache *perception.Cache, catalog rules.Catalog) []action.Action {
	var out []action.Action
	depot := firstByKey(cache.OwnBuildings, "service_depot")

	for _, u := range cache.OwnCombatUnits {
		if u.Harvester != nil || u.Engineer != nil {
			continue
		}
		udef, ok := catalog.Unit(u.Key)
		if !ok || u.MaxHP <= 0 {
			continue
		}
		hpRatio := u.HP / u.MaxHP

		if hpRatio < p.Personality.RetreatHPRatio && depot != nil {
			out = append(out, action.Action{Kind: action.CommandMove, PlayerID: p.PlayerID, UnitIDs: []core.EntityID{u.ID}, X: depot.Pos.X, Y: depot.Pos.Y})
			continue
		}

		if u.Combat == nil || u.Combat.TargetID.IsNil() || udef.Weapon == nil || !udef.Weapon.CanAttackWhileMoving {
			continue
		}
		target, ok := state.Entities.Get(u.Combat.TargetID)
		if !ok {
			continue
		}
		d := u.Pos.Dist(target.Pos)
		optimal := udef.Weapon.Range * kiteOptimalFraction
		if d < optimal*0.6 {
			away := u.Pos.Sub(target.Pos).Norm()
			dest := u.Pos.Add(away.Scale(optimal - d))
			out = append(out, action.Action{Kind: action.CommandMove, PlayerID: p.PlayerID, UnitIDs: []core.EntityID{u.ID}, X: dest.X, Y: dest.Y})
		}
	}

	return out
}
