package reducer

import (
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/rules"
)

const (
	combatArriveTolerance = 10.0
	autoAcquireBuffer     = 16.0
)

// behaveCombatUnit is the non-harvester, non-engineer branch of spec.md
// §4.4's unit decision tree: auto-acquire a target when idle and armed,
// otherwise chase/attack the current target (kiting-capable weapons keep
// the move order alive while firing), otherwise follow an explicit move
// order. An attack-move order also auto-acquires every tick it's still
// travelling, so a group marching across the map engages whatever it
// passes instead of sleepwalking through it. Grounded on the teacher's
// engine/systems/combat.go acquisition loop plus engine/systems/movement.go's
// seek-and-arrive, merged into the single per-unit decision spec.md calls for.
func behaveCombatUnit(state *core.GameState, ctx *Context, e *core.Entity) {
	udef, ok := ctx.Catalog.Unit(e.Key)
	if !ok {
		return
	}
	c := e.Combat

	if !c.TargetID.IsNil() {
		target, ok := state.Entities.Get(c.TargetID)
		if !ok || target.Dead {
			c.TargetID = core.Nil
		} else {
			pursueTarget(state, ctx, e, udef, target)
			return
		}
	}

	if e.Movement.MoveTarget != nil {
		if e.Movement.AttackMove {
			autoAcquireCombatTarget(state, e, udef)
			if !c.TargetID.IsNil() {
				return
			}
		}
		followMoveTarget(e, udef.Speed, combatArriveTolerance)
		return
	}

	if c.TargetID.IsNil() {
		autoAcquireCombatTarget(state, e, udef)
	}
}

func pursueTarget(state *core.GameState, ctx *Context, e *core.Entity, udef rules.UnitDef, target *core.Entity) {
	c := e.Combat
	wdef := udef.Weapon
	d := distance(e.Pos, target.Pos)

	if wdef != nil && d <= wdef.Range {
		if !wdef.CanAttackWhileMoving {
			e.Movement.MoveTarget = nil
		}
		if c.Cooldown <= 0 {
			fireWeapon(state, ctx, e, wdef, target.ID, target.Pos, c)
		}
		return
	}
	moveToward(e, target.Pos, udef.Speed)
}

// followMoveTarget executes a generic move order, clearing it on arrival
// within tolerance.
func followMoveTarget(e *core.Entity, speed, tolerance float64) {
	target := e.Movement.MoveTarget
	d := distance(e.Pos, *target)
	if d <= tolerance {
		e.Movement.MoveTarget = nil
		return
	}
	dir := target.Sub(e.Pos).Norm()
	e.Movement.Vel = dir.Scale(speed)
}

// autoAcquireCombatTarget implements spec.md §4.4's auto-acquire scan: a
// healer (negative weapon damage) targets the most-wounded friendly unit
// in range; any other armed unit targets the nearest enemy.
func autoAcquireCombatTarget(state *core.GameState, e *core.Entity, udef rules.UnitDef) {
	if udef.Weapon == nil {
		return
	}
	radius := udef.Weapon.Range + autoAcquireBuffer

	if udef.Weapon.Damage < 0 {
		if target := mostWoundedFriendly(state, e, radius); target != nil {
			e.Combat.TargetID = target.ID
		}
		return
	}
	if target := nearestEnemy(state, e, radius); target != nil {
		e.Combat.TargetID = target.ID
	}
}

func mostWoundedFriendly(state *core.GameState, self *core.Entity, radius float64) *core.Entity {
	var best *core.Entity
	bestRatio := 1.0
	for _, o := range state.Entities.All() {
		if o.Dead || o.Owner != self.Owner || o.ID == self.ID || o.Kind != core.KindUnit {
			continue
		}
		if o.HP >= o.MaxHP {
			continue
		}
		if distance(self.Pos, o.Pos) > radius {
			continue
		}
		ratio := o.HP / o.MaxHP
		if best == nil || ratio < bestRatio || (ratio == bestRatio && o.ID.Index < best.ID.Index) {
			best, bestRatio = o, ratio
		}
	}
	return best
}
