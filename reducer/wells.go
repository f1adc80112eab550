package reducer

import (
	"math"

	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/rules"
)

// phaseWells advances every well's ore-tending behavior, per spec.md §4.3
// phase 3: heal one nearby non-full ore per tick, or attempt to spawn a
// fresh one once its schedule comes due.
func phaseWells(state *core.GameState, ctx *Context) {
	wellRules := ctx.Catalog.Wells()

	for _, well := range state.Entities.All() {
		if well.Dead || well.Kind != core.KindWell || well.Well == nil {
			continue
		}

		nearby := nearbyOre(state, well, wellRules.SpawnRadius)
		well.Well.CurrentOreCount = len(nearby)

		if healed := healOneOre(nearby); healed {
			continue
		}

		if state.Tick < well.Well.NextSpawnTick || len(nearby) >= wellRules.MaxNearbyOre {
			continue
		}

		if spawnOre(state, ctx, well, wellRules) {
			well.Well.IsBlocked = false
		} else {
			well.Well.IsBlocked = true
		}
		well.Well.NextSpawnTick = state.Tick + ctx.RNG.IntRange(wellRules.SpawnRateMinTicks, wellRules.SpawnRateMaxTicks+1)
	}
}

// nearbyOre returns every non-dead ore entity within radius of the well,
// stable-sorted by id (lowest index first) to give well growth a
// deterministic tie-break per spec.md's Open Question #3.
func nearbyOre(state *core.GameState, well *core.Entity, radius float64) []*core.Entity {
	var out []*core.Entity
	for _, e := range state.Entities.All() {
		if e.Dead || e.Kind != core.KindResource {
			continue
		}
		if distance(e.Pos, well.Pos) <= radius {
			out = append(out, e)
		}
	}
	return out
}

func healOneOre(nearby []*core.Entity) bool {
	for _, ore := range nearby {
		if ore.HP < ore.MaxHP {
			ore.HP += 0.5
			if ore.HP > ore.MaxHP {
				ore.HP = ore.MaxHP
			}
			return true
		}
	}
	return false
}

// spawnOre attempts up to rules.SpawnAttempts spread-out positions within
// the well's spawn radius, rejecting any that overlap a unit or building.
// On success it creates the ore entity and returns true.
func spawnOre(state *core.GameState, ctx *Context, well *core.Entity, rules rules.WellRules) bool {
	for attempt := 0; attempt < rules.SpawnAttempts; attempt++ {
		angle := ctx.RNG.FloatRange(0, 2*math.Pi)
		dist := ctx.RNG.FloatRange(rules.SpawnRadius*0.2, rules.SpawnRadius)
		pos := core.Vector{
			X: well.Pos.X + math.Cos(angle)*dist,
			Y: well.Pos.Y + math.Sin(angle)*dist,
		}

		if overlapsAny(state, pos, oreSpawnClearance) {
			continue
		}

		id := state.Entities.Spawn(core.KindResource, "ore", -1, pos)
		e, _ := state.Entities.Get(id)
		e.HP, e.MaxHP = rules.OreMaxHP, rules.OreMaxHP
		e.Radius = oreSpawnClearance
		e.W, e.H = oreSpawnClearance*2, oreSpawnClearance*2
		well.Well.TotalSpawned++
		return true
	}
	return false
}

const oreSpawnClearance = 14.0

func overlapsAny(state *core.GameState, pos core.Vector, clearance float64) bool {
	for _, e := range state.Entities.All() {
		if e.Dead || e.Kind == core.KindProjectile {
			continue
		}
		if distance(e.Pos, pos) < e.Radius+clearance {
			return true
		}
	}
	return false
}
