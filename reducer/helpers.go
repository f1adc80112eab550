package reducer

import (
	"math"

	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/rules"
)

const buildRadius = 300

func queueFor(p *core.PlayerState, category string) *core.ProductionQueue {
	switch category {
	case "building":
		return &p.Buildings
	case "infantry":
		return &p.Infantry
	case "vehicle":
		return &p.Vehicles
	case "air":
		return &p.Air
	default:
		return nil
	}
}

// ownedCompletedBuildingKeys returns the set of catalog keys of every
// completed building a player owns.
func ownedCompletedBuildingKeys(state *core.GameState, playerID int) map[string]bool {
	owned := make(map[string]bool)
	for _, e := range state.Entities.All() {
		if e.Dead || e.Kind != core.KindBuilding || e.Owner != playerID {
			continue
		}
		if e.Building != nil && e.HP < e.MaxHP && e.HP <= 1 {
			continue // still under construction (HP starts at 1 and ramps to MaxHP)
		}
		owned[e.Key] = true
	}
	return owned
}

func prereqsSatisfied(state *core.GameState, catalog rules.Catalog, playerID int, category, key string) bool {
	var prereqs []string
	if category == "building" {
		bdef, ok := catalog.Building(key)
		if !ok {
			return false
		}
		prereqs = bdef.Prereqs
	} else {
		udef, ok := catalog.Unit(key)
		if !ok {
			return false
		}
		prereqs = udef.Prereqs
	}
	if len(prereqs) == 0 {
		return true
	}
	owned := ownedCompletedBuildingKeys(state, playerID)
	for _, req := range prereqs {
		if !owned[req] {
			return false
		}
	}
	return true
}

// productionBuildingFor finds an owned building whose CanProduce lists
// unitKey (buildings still under construction included), taking the
// first in entity order; it returns nil when no such building exists.
func productionBuildingFor(state *core.GameState, catalog rules.Catalog, playerID int, unitKey string) *core.Entity {
	var best *core.Entity
	for _, e := range state.Entities.All() {
		if e.Dead || e.Kind != core.KindBuilding || e.Owner != playerID {
			continue
		}
		bdef, ok := catalog.Building(e.Key)
		if !ok {
			continue
		}
		produces := false
		for _, u := range bdef.CanProduce {
			if u == unitKey {
				produces = true
				break
			}
		}
		if !produces {
			continue
		}
		if best == nil || e.ID.Index < best.ID.Index {
			best = e
		}
	}
	return best
}

func withinBuildRadius(state *core.GameState, playerID int, x, y float64) bool {
	for _, e := range state.Entities.All() {
		if e.Dead || e.Kind != core.KindBuilding || e.Owner != playerID {
			continue
		}
		d := math.Hypot(e.Pos.X-x, e.Pos.Y-y)
		if d <= buildRadius {
			return true
		}
	}
	return false
}

func playerHasPower(p *core.PlayerState) bool { return p.HasPower() }

func distance(a, b core.Vector) float64 { return a.Sub(b).Mag() }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
