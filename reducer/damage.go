package reducer

import "github.com/skirmish-engine/core/core"

const flashDuration = 5

// phaseDamageApplication subtracts every pending DamageEvent from its
// target's hp, marks it dead at hp<=0, and sets the hit-flash + attacker
// bookkeeping on its combat component, per spec.md §4.3 phase 8. Events
// from this tick's projectile impacts are applied only after every
// projectile has already resolved its own impact (phase 7 finished
// first), so simultaneous shots never see each other's damage early.
func phaseDamageApplication(state *core.GameState, ctx *Context, events []DamageEvent) {
	for _, ev := range events {
		target, ok := state.Entities.Get(ev.TargetID)
		if !ok || target.Dead {
			continue
		}
		target.HP -= ev.Amount
		if target.HP <= 0 {
			target.HP = 0
			target.Dead = true
		}
		if target.Combat != nil {
			target.Combat.Flash = flashDuration
			target.Combat.LastAttackerID = ev.AttackerID
			target.Combat.LastDamageTick = state.Tick
		}
	}
}
