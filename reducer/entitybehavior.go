package reducer

import (
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/rules"
)

// phaseEntityBehavior runs each live entity's per-kind behavior tree, per
// spec.md §4.4 (units) and §4.5 (buildings/air). This is the generalized
// replacement for the teacher's separate Combat/Harvester/Building systems:
// one dispatch over the union, branching on the component set actually
// present rather than a fixed kind tag, matching spec.md §9's "explicit
// archetype queries" guidance.
func phaseEntityBehavior(state *core.GameState, ctx *Context) {
	for _, e := range state.Entities.All() {
		if e.Dead {
			continue
		}
		switch e.Kind {
		case core.KindUnit:
			if e.DemoTruck != nil {
				behaveDemoTruck(state, ctx, e)
			} else if e.Harvester != nil {
				behaveHarvester(state, ctx, e)
			} else if e.AirUnit != nil {
				behaveAirUnit(state, ctx, e)
			} else if e.Engineer != nil {
				behaveEngineer(state, ctx, e)
			} else if e.Combat != nil {
				behaveCombatUnit(state, ctx, e)
			}
		case core.KindBuilding:
			behaveBuilding(state, ctx, e)
		}
	}
}

// archetypeOf maps the catalog's string-keyed archetype onto the runtime
// Projectile's compact enum.
func archetypeOf(a rules.WeaponArchetype) core.WeaponArchetype {
	switch a {
	case rules.ArchetypeRocket:
		return core.ArchetypeRocket
	case rules.ArchetypeArtillery:
		return core.ArchetypeArtillery
	case rules.ArchetypeMissile:
		return core.ArchetypeMissile
	case rules.ArchetypeBallistic:
		return core.ArchetypeBallistic
	case rules.ArchetypeGrenade:
		return core.ArchetypeGrenade
	default:
		return core.ArchetypeHitscan
	}
}

// fireWeapon spawns a projectile from source toward target (by id, for
// homing archetypes) or targetPos (fire-and-forget), consuming the
// weapon's cooldown onto the caller-supplied combat component.
func fireWeapon(state *core.GameState, ctx *Context, source *core.Entity, wdef *rules.WeaponDef, targetID core.EntityID, targetPos core.Vector, combat *core.Combat) {
	arch := archetypeOf(wdef.Archetype)
	hp := 0.0
	if arch != core.ArchetypeHitscan {
		hp = 1.0
	}
	p := &core.Projectile{
		OwnerID:    source.Owner,
		SourceID:   source.ID,
		TargetID:   targetID,
		Pos:        source.Pos,
		StartPos:   source.Pos,
		TargetPos:  targetPos,
		Speed:      projectileSpeed,
		Damage:     wdef.Damage,
		Splash:     wdef.Splash,
		WeaponType: wdef.WeaponType,
		Archetype:  arch,
		HP:         hp,
		MaxHP:      hp,
		ArcHeight:  targetPos.Sub(source.Pos).Mag() * ctx.Catalog.ArcHeightFactor(wdef.Archetype),
	}
	dir := targetPos.Sub(source.Pos).Norm()
	p.Vel = dir.Scale(p.Speed)
	state.Projectiles = append(state.Projectiles, p)
	combat.Cooldown = wdef.Cooldown
}

const projectileSpeed = 9.0
