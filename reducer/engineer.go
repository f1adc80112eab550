package reducer

import "github.com/skirmish-engine/core/core"

const (
	engineerContactRange = 32.0
	engineerVision       = 180.0
)

// behaveEngineer is the engineer specialization of spec.md §4.4's combat
// unit decision tree: auto-acquire picks an enemy building to capture or a
// damaged friendly building to repair; once a target is assigned, the
// engineer moves to contact range and then resolves it (capture consumes
// the engineer, repair heals over time and leaves it free to retask).
// Grounded on the teacher's engine/systems/combat.go acquisition loop,
// specialized per spec.md's engineer sub-bullets (no teacher equivalent:
// the source repo has no capture/repair unit at all).
func behaveEngineer(state *core.GameState, ctx *Context, e *core.Entity) {
	en := e.Engineer
	udef, ok := ctx.Catalog.Unit(e.Key)
	if !ok {
		return
	}

	if !en.CaptureTargetID.IsNil() {
		target, ok := state.Entities.Get(en.CaptureTargetID)
		if !ok || target.Dead {
			en.CaptureTargetID = core.Nil
			return
		}
		if distance(e.Pos, target.Pos) <= engineerContactRange+target.Radius {
			target.Owner = e.Owner
			e.Dead = true
			en.CaptureTargetID = core.Nil
			return
		}
		moveToward(e, target.Pos, udef.Speed)
		return
	}

	if !en.RepairTargetID.IsNil() {
		target, ok := state.Entities.Get(en.RepairTargetID)
		if !ok || target.Dead || target.HP >= target.MaxHP {
			en.RepairTargetID = core.Nil
			return
		}
		if distance(e.Pos, target.Pos) <= engineerContactRange+target.Radius {
			e.Movement.Vel = core.Vector{}
			target.HP += udef.RepairRate
			if target.HP >= target.MaxHP {
				target.HP = target.MaxHP
				en.RepairTargetID = core.Nil
			}
			return
		}
		moveToward(e, target.Pos, udef.Speed)
		return
	}

	if e.Movement.MoveTarget != nil {
		followMoveTarget(e, udef.Speed, combatArriveTolerance)
		return
	}

	autoAcquireEngineerTarget(state, e, en)
}

func autoAcquireEngineerTarget(state *core.GameState, e *core.Entity, en *core.Engineer) {
	var bestEnemy, bestFriendly *core.Entity
	bestEnemyD, bestFriendlyD := engineerVision, engineerVision
	for _, b := range state.Entities.All() {
		if b.Dead || b.Kind != core.KindBuilding {
			continue
		}
		d := distance(e.Pos, b.Pos)
		if b.Owner != e.Owner && b.Owner >= 0 {
			if d <= bestEnemyD {
				bestEnemy, bestEnemyD = b, d
			}
		} else if b.Owner == e.Owner && b.HP < b.MaxHP {
			if d <= bestFriendlyD {
				bestFriendly, bestFriendlyD = b, d
			}
		}
	}
	if bestEnemy != nil {
		en.CaptureTargetID = bestEnemy.ID
		return
	}
	if bestFriendly != nil {
		en.RepairTargetID = bestFriendly.ID
	}
}

func moveToward(e *core.Entity, target core.Vector, speed float64) {
	dir := target.Sub(e.Pos).Norm()
	e.Movement.Vel = dir.Scale(speed)
}
