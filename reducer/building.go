package reducer

import (
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/rules"
)

// behaveBuilding runs defense-building auto-acquire/fire. Production
// buildings, refineries, and construction yards are otherwise passive:
// production itself is driven by PlayerState queues (§4.3 phase 2), a
// refinery's dock role is read directly off the entity by harvester
// behavior, and an airbase's reload/launch cycle lives on the air unit's
// own state machine (§4.5). Grounded on the teacher's
// engine/systems/combat.go acquisition loop, restricted to the
// building-only subset (no movement, no kiting).
func behaveBuilding(state *core.GameState, ctx *Context, e *core.Entity) {
	if e.Combat == nil {
		return
	}
	bdef, ok := ctx.Catalog.Building(e.Key)
	if !ok || bdef.Weapon == nil {
		return
	}
	c := e.Combat

	if !c.TargetID.IsNil() {
		target, ok := state.Entities.Get(c.TargetID)
		if !ok || target.Dead || distance(e.Pos, target.Pos) > bdef.Weapon.Range {
			c.TargetID = core.Nil
		} else {
			if c.Cooldown <= 0 {
				fireWeapon(state, ctx, e, bdef.Weapon, target.ID, target.Pos, c)
			}
			return
		}
	}

	if target := acquireDefenseTarget(state, e, bdef); target != nil {
		c.TargetID = target.ID
	}
}

// acquireDefenseTarget scans live enemies in range, preferring a flying
// target for a SAM-style defense (spec.md §4.5 "SAM prefers flying
// targets"), falling back to the nearest enemy the weapon can actually
// hit (ground-only weapons never acquire air units and vice versa).
func acquireDefenseTarget(state *core.GameState, e *core.Entity, bdef rules.BuildingDef) *core.Entity {
	radius := bdef.Weapon.Range
	var bestAir, bestAny *core.Entity
	bestAirD, bestAnyD := radius, radius

	for _, o := range state.Entities.All() {
		if o.Dead || o.Owner == e.Owner || o.Owner < 0 {
			continue
		}
		if o.Kind != core.KindUnit && o.Kind != core.KindBuilding {
			continue
		}
		isFlying := o.AirUnit != nil && (o.AirUnit.State == core.AirFlying || o.AirUnit.State == core.AirAttacking)
		if isFlying && !bdef.Weapon.TargetsAir {
			continue
		}
		if !isFlying && !bdef.Weapon.TargetsGround {
			continue
		}
		d := distance(e.Pos, o.Pos)
		if d > radius {
			continue
		}
		if isFlying && d <= bestAirD {
			bestAir, bestAirD = o, d
		}
		if d <= bestAnyD {
			bestAny, bestAnyD = o, d
		}
	}

	if bdef.PrefersAirTargets && bestAir != nil {
		return bestAir
	}
	if bdef.PrefersAirTargets {
		return nil // SAM never engages ground targets
	}
	return bestAny
}
