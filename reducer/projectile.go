package reducer

import (
	"math"

	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/rules"
)

// DamageEvent is a pending hit collected during projectile integration and
// resolved in the following damage-application phase, per spec.md §4.3
// phases 7-8 running as two distinct steps (all of this tick's shots
// resolve before any of them apply their damage).
type DamageEvent struct {
	TargetID   core.EntityID
	AttackerID core.EntityID
	Amount     float64
}

const (
	projectileArriveTolerance = 8.0
	interceptorRange          = 260.0
)

// phaseProjectileIntegration advances every in-flight projectile, per
// spec.md §4.3 phase 7: hitscan resolves same-tick, homing archetypes seek
// their target, and any still-interceptable shot may be shot down by a
// defense whose weapon targets projectiles (SAM-style) before it connects.
// Grounded on the teacher's engine/systems/projectile.go Update.
func phaseProjectileIntegration(state *core.GameState, ctx *Context) []DamageEvent {
	var events []DamageEvent

	runInterceptors(state, ctx)

	var survivors []*core.Projectile
	for _, p := range state.Projectiles {
		if p.Dead {
			continue
		}

		aimPos := p.TargetPos
		if !p.TargetID.IsNil() {
			if target, ok := state.Entities.Get(p.TargetID); ok {
				aimPos = target.Pos
			}
		}

		toTarget := aimPos.Sub(p.Pos)
		if toTarget.Mag() <= projectileArriveTolerance || toTarget.Mag() <= p.Speed {
			p.Dead = true
			events = append(events, resolveImpactDamage(state, ctx, p, aimPos)...)
			continue
		}

		dir := toTarget.Norm()
		p.Vel = dir.Scale(p.Speed)
		p.Pos = p.Pos.Add(p.Vel)
		p.TrailPoints = append(p.TrailPoints, p.Pos)
		if len(p.TrailPoints) > 8 {
			p.TrailPoints = p.TrailPoints[len(p.TrailPoints)-8:]
		}

		survivors = append(survivors, p)
	}
	state.Projectiles = survivors
	return events
}

// resolveImpactDamage computes the armor-modified, splash-attenuated
// damage a projectile deals on arrival, per spec.md §4.7: "round(damage *
// modifier[weaponType][targetArmor] * splashFalloff(distance))". A shot
// with no splash only ever hits its direct target; a splash shot damages
// every entity within Splash radius of the impact point, each scaled by
// its own distance falloff (resources and rocks excluded, matching the
// demo-truck detonation's friendly-fire-but-not-terrain rule in §4.3
// phase 10).
func resolveImpactDamage(state *core.GameState, ctx *Context, p *core.Projectile, impactPos core.Vector) []DamageEvent {
	if p.Splash <= 0 {
		if p.TargetID.IsNil() {
			return nil
		}
		target, ok := state.Entities.Get(p.TargetID)
		if !ok || target.Dead {
			return nil
		}
		amt := armorAdjustedDamage(ctx.Catalog, p.WeaponType, armorOf(ctx.Catalog, target), p.Damage, 1.0)
		return []DamageEvent{{TargetID: target.ID, AttackerID: p.SourceID, Amount: amt}}
	}

	var events []DamageEvent
	for _, e := range state.Entities.All() {
		if e.Dead || e.Kind == core.KindProjectile || e.Kind == core.KindResource || e.Kind == core.KindRock {
			continue
		}
		d := distance(e.Pos, impactPos)
		if d > p.Splash {
			continue
		}
		amt := armorAdjustedDamage(ctx.Catalog, p.WeaponType, armorOf(ctx.Catalog, e), p.Damage, splashFalloff(d, p.Splash))
		events = append(events, DamageEvent{TargetID: e.ID, AttackerID: p.SourceID, Amount: amt})
	}
	return events
}

// splashFalloff is a linear 1.0-at-center to 0.2-at-edge attenuation.
func splashFalloff(d, radius float64) float64 {
	if radius <= 0 {
		return 1.0
	}
	frac := d / radius
	return clamp(1.0-0.8*frac, 0.2, 1.0)
}

func armorOf(catalog rules.Catalog, e *core.Entity) rules.ArmorType {
	if e.Kind == core.KindBuilding {
		return rules.ArmorBuilding
	}
	if udef, ok := catalog.Unit(e.Key); ok {
		return udef.Armor
	}
	return rules.ArmorNone
}

func armorAdjustedDamage(catalog rules.Catalog, weaponType string, armor rules.ArmorType, base, falloff float64) float64 {
	mod := catalog.DamageModifier(weaponType, armor)
	return math.Round(base * mod * falloff)
}

// runInterceptors lets any live air-defense building (one whose catalog
// def sets PrefersAirTargets and whose weapon TargetsAir, e.g. a SAM
// site; units never intercept) take a shot at the nearest interceptable enemy
// projectile within range, consuming its cooldown exactly like firing at a
// unit. Open Question-adjacent behavior the spec names but does not fully
// pin down; this implementation grounds "interceptable" strictly on
// spec.md §4.7 (HP>0 projectiles only).
func runInterceptors(state *core.GameState, ctx *Context) {
	for _, e := range state.Entities.All() {
		if e.Dead || e.Combat == nil || e.Combat.Cooldown > 0 {
			continue
		}
		var wdef *rules.WeaponDef
		if e.Kind == core.KindBuilding {
			if bdef, ok := ctx.Catalog.Building(e.Key); ok && bdef.PrefersAirTargets {
				wdef = bdef.Weapon
			}
		}
		if wdef == nil || !wdef.TargetsAir {
			continue
		}
		var best *core.Projectile
		bestD := math.Min(wdef.Range, interceptorRange)
		for _, p := range state.Projectiles {
			if p.Dead || p.HP <= 0 || p.OwnerID == e.Owner {
				continue
			}
			d := distance(e.Pos, p.Pos)
			if d <= bestD {
				best, bestD = p, d
			}
		}
		if best == nil {
			continue
		}
		best.HP -= wdef.Damage
		e.Combat.Cooldown = wdef.Cooldown
		if best.HP <= 0 {
			best.Dead = true
		}
	}
}
