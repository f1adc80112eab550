package ai

import (
	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/perception"
	"github.com/skirmish-engine/core/rules"
)

const unitRepairHPRatio = 0.8
const depotParkingRadius = 56.0
const depotParkingSlots = 6

// unitRepairActions is spec.md §4.9 "Unit repair": when a service depot
// exists, damaged vehicles are sent to parking positions spread evenly
// around it. This catalog's rules.Default() defines no "service_depot"
// building, and no reducer phase heals units (reducer/repair.go only
// heals buildings), so
// firstByKey below finds nothing against the in-memory catalog and this
// module is a no-op until a catalog adds that key via rules.Load.
func unitRepairActions(p *Planner, state *core.GameState, cache *perception.Cache, catalog rules.Catalog) []action.Action {
	depot := firstByKey(cache.OwnBuildings, "service_depot")
	if depot == nil {
		return nil
	}

	var out []action.Action
	slot := 0
	for _, u := range cache.Own {
		if u.Kind != core.KindUnit || u.Harvester != nil || u.Engineer != nil || u.AirUnit != nil {
			continue
		}
		if udef, ok := catalog.Unit(u.Key); !ok || udef.Category != "vehicle" {
			continue
		}
		if u.MaxHP <= 0 || u.HP/u.MaxHP >= unitRepairHPRatio {
			continue
		}
		if u.Movement != nil && u.Movement.MoveTarget != nil && u.Pos.Dist(depot.Pos) <= depotParkingRadius*2 {
			continue
		}
		pos := parkingSlot(depot.Pos, slot)
		slot = (slot + 1) % depotParkingSlots
		out = append(out, action.Action{Kind: action.CommandMove, PlayerID: p.PlayerID, UnitIDs: []core.EntityID{u.ID}, X: pos.X, Y: pos.Y})
	}
	return out
}

// parkingSlot spreads vehicles evenly around the depot on a ring rather
// than stacking them on the depot's center.
func parkingSlot(center core.Vector, slot int) core.Vector {
	angle := (2 * 3.141592653589793 / float64(depotParkingSlots)) * float64(slot)
	offset := core.Vector{X: depotParkingRadius, Y: 0}.Rotated(angle)
	return center.Add(offset)
}
