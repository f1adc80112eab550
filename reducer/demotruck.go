package reducer

import (
	"math"

	"github.com/skirmish-engine/core/core"
)

const (
	maxDetonationChainDepth = 32
	demoTruckTriggerDistance = 20.0
)

// behaveDemoTruck drives a demo truck toward its assigned detonation
// target; arriving within trigger range zeroes its HP so
// phaseDemoTruckDetonations picks it up this same tick. Grounded on the
// teacher's engine/systems/movement.go seek-and-arrive, specialized for
// the source repo's lack of any suicide-unit equivalent.
func behaveDemoTruck(state *core.GameState, ctx *Context, e *core.Entity) {
	dt := e.DemoTruck
	if dt.HasDetonated {
		return
	}

	var target core.Vector
	hasTarget := false

	if !dt.DetonationTargetID.IsNil() {
		if o, ok := state.Entities.Get(dt.DetonationTargetID); ok && !o.Dead {
			target, hasTarget = o.Pos, true
		} else {
			dt.DetonationTargetID = core.Nil
		}
	}
	if !hasTarget && dt.DetonationTargetPos != nil {
		target, hasTarget = *dt.DetonationTargetPos, true
	}
	if !hasTarget {
		return
	}

	udef, _ := ctx.Catalog.Unit(e.Key)
	if distance(e.Pos, target) <= demoTruckTriggerDistance {
		e.HP = 0
		return
	}
	moveToward(e, target, udef.Speed)
}

// phaseDemoTruckDetonations triggers the explosion for every demo truck
// that died this tick without having detonated yet, per spec.md §4.3
// phase 10: radial splash damage (friendly fire included, resources and
// rocks excluded) weighted by distance falloff and armor modifier, camera
// shake, and bounded chain reactions when the blast kills another
// undetonated truck.
func phaseDemoTruckDetonations(state *core.GameState, ctx *Context) {
	for depth := 0; depth < maxDetonationChainDepth; depth++ {
		triggered := false
		for _, e := range state.Entities.All() {
			if e.DemoTruck == nil || e.DemoTruck.HasDetonated || e.HP > 0 {
				continue
			}
			detonate(state, ctx, e)
			triggered = true
		}
		if !triggered {
			break
		}
	}
}

func detonate(state *core.GameState, ctx *Context, truck *core.Entity) {
	truck.DemoTruck.HasDetonated = true

	udef, ok := ctx.Catalog.Unit(truck.Key)
	radius, dmg := 140.0, 500.0
	if ok {
		radius, dmg = udef.DemolitionRadius, udef.DemolitionDamage
	}

	for _, e := range state.Entities.All() {
		if e.Dead || e.ID == truck.ID || e.Kind == core.KindResource || e.Kind == core.KindRock {
			continue
		}
		d := distance(e.Pos, truck.Pos)
		if d > radius {
			continue
		}
		amt := math.Round(dmg * splashFalloff(d, radius) * ctx.Catalog.DamageModifier("demo", armorOf(ctx.Catalog, e)))
		e.HP -= amt
		if e.HP <= 0 {
			e.HP = 0
			e.Dead = true
		}
		if e.Combat != nil {
			e.Combat.Flash = flashDuration
			e.Combat.LastAttackerID = truck.ID
			e.Combat.LastDamageTick = state.Tick
		}
	}

	state.Camera.ShakeIntensity = math.Max(state.Camera.ShakeIntensity, 1.0)
	state.Camera.ShakeDuration = 20
}
