package reducer

import "github.com/skirmish-engine/core/core"

// phaseRepair advances every building under active repair, per spec.md
// §4.3 phase 9: heal maxHp/repairDuration per tick, charging
// (repairCostPercentage*cost)/repairDuration credits; repair stops (without
// refund) once credits run out, and clears automatically once the
// building reaches full health.
func phaseRepair(state *core.GameState, ctx *Context) {
	for _, e := range state.Entities.All() {
		if e.Dead || e.Kind != core.KindBuilding || e.Building == nil || !e.Building.IsRepairing {
			continue
		}
		bdef, ok := ctx.Catalog.Building(e.Key)
		if !ok || bdef.RepairDuration <= 0 {
			e.Building.IsRepairing = false
			continue
		}
		player := state.Player(e.Owner)
		if player == nil {
			e.Building.IsRepairing = false
			continue
		}

		costPerTick := (bdef.RepairCostPercentage * float64(bdef.Cost)) / float64(bdef.RepairDuration)
		if player.Credits < int(costPerTick) {
			e.Building.IsRepairing = false
			continue
		}
		player.Credits -= int(costPerTick)

		e.HP += e.MaxHP / float64(bdef.RepairDuration)
		if e.HP >= e.MaxHP {
			e.HP = e.MaxHP
			e.Building.IsRepairing = false
		}
	}
}
