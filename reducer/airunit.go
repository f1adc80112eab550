package reducer

import (
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/rules"
)

const (
	airDockRange   = 24.0
	airReloadTicks = 30
)

// behaveAirUnit drives the docked/flying/attacking/returning cycle of
// spec.md §4.5: a docked aircraft reloads ammo and launches once given a
// target; a flying aircraft closes on that target and switches to
// attacking in weapon range; an attacking aircraft fires until its target
// is gone or it runs dry, then returns home; a returning aircraft docks
// on arrival and resumes reloading. Grounded on the teacher's
// engine/systems/combat.go fire loop plus movement.go's seek-and-arrive,
// composed into the state machine the source repo has no equivalent of.
func behaveAirUnit(state *core.GameState, ctx *Context, e *core.Entity) {
	au := e.AirUnit
	c := e.Combat
	udef, ok := ctx.Catalog.Unit(e.Key)
	if !ok {
		return
	}

	switch au.State {
	case core.AirDocked:
		behaveAirDocked(state, e, au, c)
	case core.AirFlying:
		behaveAirFlying(state, e, au, c, udef)
	case core.AirAttacking:
		behaveAirAttacking(state, ctx, e, au, c, udef)
	case core.AirReturning:
		behaveAirReturning(state, e, au, udef.Speed)
	}
}

func behaveAirDocked(state *core.GameState, e *core.Entity, au *core.AirUnit, c *core.Combat) {
	if au.Ammo < au.MaxAmmo && state.Tick%airReloadTicks == 0 {
		au.Ammo++
	}
	if au.Ammo <= 0 || c.TargetID.IsNil() {
		return
	}
	if target, ok := state.Entities.Get(c.TargetID); !ok || target.Dead {
		c.TargetID = core.Nil
		return
	}
	au.State = core.AirFlying
	au.DockedSlot = nil
}

func behaveAirFlying(state *core.GameState, e *core.Entity, au *core.AirUnit, c *core.Combat, udef rules.UnitDef) {
	target, ok := state.Entities.Get(c.TargetID)
	if !ok || target.Dead {
		c.TargetID = core.Nil
		au.State = core.AirReturning
		return
	}
	rng := 260.0
	if udef.Weapon != nil {
		rng = udef.Weapon.Range
	}
	if distance(e.Pos, target.Pos) <= rng {
		au.State = core.AirAttacking
		return
	}
	moveToward(e, target.Pos, udef.Speed)
}

func behaveAirAttacking(state *core.GameState, ctx *Context, e *core.Entity, au *core.AirUnit, c *core.Combat, udef rules.UnitDef) {
	target, ok := state.Entities.Get(c.TargetID)
	if !ok || target.Dead || au.Ammo <= 0 || udef.Weapon == nil {
		c.TargetID = core.Nil
		au.State = core.AirReturning
		return
	}
	if distance(e.Pos, target.Pos) > udef.Weapon.Range {
		au.State = core.AirFlying
		return
	}
	if c.Cooldown <= 0 {
		fireWeapon(state, ctx, e, udef.Weapon, target.ID, target.Pos, c)
		au.Ammo--
		if au.Ammo <= 0 {
			c.TargetID = core.Nil
			au.State = core.AirReturning
		}
	}
}

func behaveAirReturning(state *core.GameState, e *core.Entity, au *core.AirUnit, speed float64) {
	base, ok := state.Entities.Get(au.HomeBaseID)
	if !ok || base.Dead {
		au.State = core.AirDocked
		return
	}
	if distance(e.Pos, base.Pos) <= airDockRange {
		au.State = core.AirDocked
		e.Movement.Vel = core.Vector{}
		return
	}
	moveToward(e, base.Pos, speed)
}
