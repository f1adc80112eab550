package reducer

import "github.com/skirmish-engine/core/core"

const (
	bodyRotationStep   = 0.12 // radians/tick body rotation damps toward heading
	turretRotationStep = 0.25 // radians/tick turret damps toward target, faster than body
)

// phaseMovementIntegration applies each entity's velocity to its position,
// damps body rotation toward the heading (ground units only; flying units
// keep whatever rotation their behavior set), then zeroes velocity so next
// tick's behavior phase starts from a clean slate. Cooldown/flash timers
// and turret tracking are decremented/updated here too, per spec.md §4.3
// phase 5. Grounded on the teacher's engine/systems/movement.go Update,
// split out of the single ECS pass into this reducer phase.
func phaseMovementIntegration(state *core.GameState, ctx *Context) {
	for _, e := range state.Entities.All() {
		if e.Dead {
			continue
		}
		if e.Movement != nil {
			prevPos := e.Pos
			e.Pos = e.Pos.Add(e.Movement.Vel)
			e.PrevPos = prevPos

			if e.AirUnit == nil && e.Movement.Vel.Mag() > 1e-6 {
				heading := e.Movement.Vel.Angle()
				e.Movement.Rotation = core.DampAngle(e.Movement.Rotation, heading, bodyRotationStep)
			}
			e.Movement.Vel = core.Vector{}
		}

		if e.Combat != nil {
			if e.Combat.Cooldown > 0 {
				e.Combat.Cooldown--
			}
			if e.Combat.Flash > 0 {
				e.Combat.Flash--
			}
			if !e.Combat.TargetID.IsNil() {
				if target, ok := state.Entities.Get(e.Combat.TargetID); ok {
					desired := target.Pos.Sub(e.Pos).Angle()
					e.Combat.TurretAngle = core.DampAngle(e.Combat.TurretAngle, desired, turretRotationStep)
				}
			}
		}
	}
}

const (
	collisionPasses  = 4
	movingWeight     = 1.0
	stationaryWeight = 0.35
	keepRightBias    = 0.12
)

// phaseCollisionResolution runs 4 separation passes over unit/other pairs
// found via the spatial index, per spec.md §4.3 phase 6: unit-unit overlap
// is apportioned by motion state (an actively-traveling unit yields more of
// the overlap than one holding position), with a perpendicular keep-right
// slide when both are moving so symmetric head-on overlaps don't lock.
// Unit-static overlap (any non-unit entity: building, rock, well or ore)
// is resolved entirely by the unit yielding. Grounded on the teacher's separation force in
// engine/pathfind/steering.go, generalized into an explicit multi-pass
// resolver since the teacher folds separation into steering rather than
// running it as its own phase.
func phaseCollisionResolution(state *core.GameState, ctx *Context) {
	for pass := 0; pass < collisionPasses; pass++ {
		units := state.Entities.Filter(func(e *core.Entity) bool { return e.Kind == core.KindUnit })
		for _, u := range units {
			resolveOverlapsFor(state, ctx, u)
		}
	}
}

func resolveOverlapsFor(state *core.GameState, ctx *Context, u *core.Entity) {
	buffer := 40.0
	candidates := ctx.Grid.QueryRadius(u.Pos.X, u.Pos.Y, u.Radius, buffer)
	for _, p := range candidates {
		otherID := decodePointID(p.ID)
		if otherID == u.ID {
			continue
		}
		other, ok := state.Entities.Get(otherID)
		if !ok || other.Dead {
			continue
		}
		minDist := u.Radius + other.Radius
		d := distance(u.Pos, other.Pos)
		if d >= minDist || minDist <= 0 {
			continue
		}
		overlap := minDist - d
		var away core.Vector
		if d > 1e-6 {
			away = u.Pos.Sub(other.Pos).Scale(1 / d)
		} else {
			away = core.Vector{X: 1, Y: 0}
		}

		if other.Kind != core.KindUnit {
			u.Pos = u.Pos.Add(away.Scale(overlap))
			continue
		}

		wu, wo := motionWeightOf(u), motionWeightOf(other)
		share := wu / (wu + wo)
		push := away.Scale(overlap * share)

		if wu == movingWeight && wo == movingWeight {
			side := 1.0
			if u.ID.Index > other.ID.Index {
				side = -1.0
			}
			push = push.Add(away.Perp().Scale(overlap * keepRightBias * side))
		}

		u.Pos = u.Pos.Add(push)
	}
}

func motionWeightOf(e *core.Entity) float64 {
	if e.Movement != nil && e.Movement.MoveTarget != nil {
		return movingWeight
	}
	return stationaryWeight
}

// decodePointID reverses the (index<<32 | generation) packing refreshSpatial
// uses to stash an EntityID inside a spatial.Point's uint64 ID field.
func decodePointID(id uint64) core.EntityID {
	return core.EntityID{Index: uint32(id >> 32), Generation: uint32(id)}
}
