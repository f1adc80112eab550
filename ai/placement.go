package ai

import (
	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/perception"
	"github.com/skirmish-engine/core/rules"
)

const buildRadius = 300.0
const placementGridStep = 32.0
const placementClearance = 48.0

// placementActions is spec.md §4.9 "Building placement": once a building
// has finished its queue and is readyToPlace, find a grid cell within
// buildRadius of a non-defense building, clear of obstacles, biased by
// proximity heuristics (turrets want to be near power, refineries want
// to be near other refineries for expansion). Generalizes the teacher's
// fixed offset-ring aiBuildBuilding into a scored candidate scan.
func placementActions(p *Planner, state *core.GameState, cache *perception.Cache, catalog rules.Catalog) []action.Action {
	player := state.Player(p.PlayerID)
	if player == nil || player.ReadyToPlace == "" {
		return nil
	}
	bdef, ok := catalog.Building(player.ReadyToPlace)
	if !ok {
		return nil
	}

	anchor := anchorBuildingFor(cache, catalog, bdef)
	if anchor == nil {
		return nil
	}

	best, ok := bestPlacementCell(cache, anchor.Pos, bdef)
	if !ok {
		return nil
	}

	return []action.Action{{
		Kind: action.PlaceBuilding, PlayerID: p.PlayerID, Key: player.ReadyToPlace,
		X: best.X, Y: best.Y,
	}}
}

// anchorBuildingFor picks the building new construction expands from:
// non-defense buildings only, so turrets/SAMs don't anchor each other
// into an isolated ring.
func anchorBuildingFor(cache *perception.Cache, catalog rules.Catalog, bdef rules.BuildingDef) *core.Entity {
	var best, fallback *core.Entity
	for _, b := range cache.OwnBuildings {
		if def, ok := catalog.Building(b.Key); ok && def.IsDefense {
			continue
		}
		if fallback == nil {
			fallback = b
		}
		if bdef.IsDefense && b.Key != "power_plant" && len(cache.OwnBuildings) > 1 {
			continue // prefer anchoring turrets near power when one exists
		}
		if best == nil {
			best = b
		}
	}
	if best == nil {
		best = fallback
	}
	return best
}

func bestPlacementCell(cache *perception.Cache, anchor core.Vector, bdef rules.BuildingDef) (core.Vector, bool) {
	type candidate struct {
		pos   core.Vector
		score float64
	}
	var best *candidate

	for dy := -buildRadius; dy <= buildRadius; dy += placementGridStep {
		for dx := -buildRadius; dx <= buildRadius; dx += placementGridStep {
			cell := anchor.Add(core.Vector{X: dx, Y: dy})
			d := cell.Dist(anchor)
			if d > buildRadius || d < placementClearance {
				continue
			}
			if cellBlocked(cache, cell) {
				continue
			}
			score := -d
			if bdef.Key == "refinery" {
				score += proximityBonus(cache, cell, "refinery", 0.5)
			}
			if bdef.IsDefense {
				score += proximityBonus(cache, cell, "power_plant", 0.3)
			}
			if best == nil || score > best.score {
				best = &candidate{cell, score}
			}
		}
	}
	if best == nil {
		return core.Vector{}, false
	}
	return best.pos, true
}

func cellBlocked(cache *perception.Cache, cell core.Vector) bool {
	for _, b := range cache.OwnBuildings {
		if cell.Dist(b.Pos) < placementClearance {
			return true
		}
	}
	for _, b := range cache.EnemyBuildings {
		if cell.Dist(b.Pos) < placementClearance {
			return true
		}
	}
	return false
}

// proximityBonus rewards (positive weight) or penalizes (negative
// weight) being close to the nearest building with the given key.
func proximityBonus(cache *perception.Cache, cell core.Vector, key string, weight float64) float64 {
	best := -1.0
	for _, b := range cache.OwnBuildings {
		if b.Key != key {
			continue
		}
		d := cell.Dist(b.Pos)
		if best < 0 || d < best {
			best = d
		}
	}
	if best < 0 {
		return 0
	}
	return weight * -best
}
