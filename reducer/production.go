package reducer

import (
	"github.com/skirmish-engine/core/core"
)

const (
	lowPowerFactor = 0.25
	spawnJitter    = 6.0
)

// phaseProduction advances every player's four production queues, per
// spec.md §4.3 phase 2. Generalizes the teacher's flat
// ProductionSystem/PowerSystem/BuildingConstructionSystem into the
// queue/prereq/power-factor model the spec requires.
func phaseProduction(state *core.GameState, ctx *Context) {
	recomputePower(state)
	for _, e := range state.Entities.All() {
		if e.Dead || e.Kind != core.KindBuilding {
			continue
		}
		accumulatePowerForBuilding(state, ctx, e)
	}

	for _, p := range state.Players {
		if isEliminated(state, p.ID) {
			voidQueues(p)
			continue
		}

		powerFactor := 1.0
		if !playerHasPower(p) {
			powerFactor = lowPowerFactor
		}

		advanceQueue(state, ctx, p, "building", &p.Buildings, powerFactor)
		advanceQueue(state, ctx, p, "infantry", &p.Infantry, powerFactor)
		advanceQueue(state, ctx, p, "vehicle", &p.Vehicles, powerFactor)
		advanceQueue(state, ctx, p, "air", &p.Air, powerFactor)
	}

	advanceBuildingConstruction(state, ctx)
}

func isEliminated(state *core.GameState, playerID int) bool {
	for _, e := range state.Entities.All() {
		if e.Dead || e.Owner != playerID {
			continue
		}
		if e.Kind == core.KindBuilding || e.Key == "mcv" {
			return false
		}
	}
	return true
}

func voidQueues(p *core.PlayerState) {
	p.Buildings = core.ProductionQueue{}
	p.Infantry = core.ProductionQueue{}
	p.Vehicles = core.ProductionQueue{}
	p.Air = core.ProductionQueue{}
}

// recomputePower zeroes each player's power tally; phaseProduction then
// sums gen/draw per building via accumulatePowerForBuilding before it
// advances the queues, so this tick's power factor reflects this tick's
// buildings.
func recomputePower(state *core.GameState) {
	for _, p := range state.Players {
		p.MaxPower = 0
		p.UsedPower = 0
	}
}

// accumulatePowerForBuilding sums one building's generation/draw onto
// its owner's tally.
func accumulatePowerForBuilding(state *core.GameState, ctx *Context, e *core.Entity) {
	p := state.Player(e.Owner)
	if p == nil {
		return
	}
	bdef, ok := ctx.Catalog.Building(e.Key)
	if !ok {
		return
	}
	p.MaxPower += bdef.PowerGen
	p.UsedPower += bdef.PowerDraw
}

func advanceQueue(state *core.GameState, ctx *Context, p *core.PlayerState, category string, q *core.ProductionQueue, powerFactor float64) {
	if q.Current == "" {
		return
	}

	var cost, buildTime int
	if category == "building" {
		bdef, ok := ctx.Catalog.Building(q.Current)
		if !ok {
			q.Current, q.Progress, q.Invested = "", 0, 0
			return
		}
		if !prereqsSatisfied(state, ctx.Catalog, p.ID, category, q.Current) {
			p.Credits += q.Invested
			q.Current, q.Progress, q.Invested = "", 0, 0
			return
		}
		cost, buildTime = bdef.Cost, bdef.BuildTime
	} else {
		udef, ok := ctx.Catalog.Unit(q.Current)
		if !ok {
			q.Current, q.Progress, q.Invested = "", 0, 0
			return
		}
		if !prereqsSatisfied(state, ctx.Catalog, p.ID, category, q.Current) {
			p.Credits += q.Invested
			q.Current, q.Progress, q.Invested = "", 0, 0
			return
		}
		if productionBuildingFor(state, ctx.Catalog, p.ID, q.Current) == nil {
			return // no producer available yet; wait, don't void
		}
		cost, buildTime = udef.Cost, udef.BuildTime
	}

	if buildTime <= 0 {
		buildTime = 1
	}

	extraBuildings := countExtraProducers(state, ctx, p.ID, category)
	speedMultiplier := 1.0 + 0.5*float64(extraBuildings)

	costPerTick := (float64(cost) / float64(buildTime)) * speedMultiplier * powerFactor
	spend := costPerTick
	if spend > float64(p.Credits) {
		spend = float64(p.Credits)
	}
	p.Credits -= int(spend)
	q.Invested += int(spend)

	progressPerTick := (100.0 / float64(buildTime)) * speedMultiplier * powerFactor
	q.Progress += progressPerTick
	if q.Progress > 100 {
		q.Progress = 100
	}

	if q.Progress >= 100 {
		completeQueueItem(state, ctx, p, category, q)
	}
}

// countExtraProducers counts owned buildings beyond the first that can
// produce this category, buildings still under construction included,
// per spec.md's
// "speedMultiplier = 1 + 0.5*(extraProductionBuildings)".
func countExtraProducers(state *core.GameState, ctx *Context, playerID int, category string) int {
	n := 0
	for _, key := range ctx.Catalog.ProductionBuildings(category) {
		for _, e := range state.Entities.All() {
			if e.Dead || e.Owner != playerID || e.Key != key {
				continue
			}
			n++
		}
	}
	if n > 0 {
		n--
	}
	return n
}

func completeQueueItem(state *core.GameState, ctx *Context, p *core.PlayerState, category string, q *core.ProductionQueue) {
	if category == "building" {
		p.ReadyToPlace = q.Current
	} else {
		spawnUnit(state, ctx, p, q.Current)
	}

	q.Current, q.Progress, q.Invested = "", 0, 0
	if len(q.Queued) > 0 {
		q.Current = q.Queued[0]
		q.Queued = q.Queued[1:]
	}
}

func spawnUnit(state *core.GameState, ctx *Context, p *core.PlayerState, key string) {
	udef, ok := ctx.Catalog.Unit(key)
	if !ok {
		return
	}
	producer := productionBuildingFor(state, ctx.Catalog, p.ID, key)
	spawnPos := core.Vector{X: 0, Y: 0}
	if producer != nil {
		spawnPos = producer.Pos.Add(core.Vector{X: producer.W/2 + 24, Y: producer.H / 2})
	}
	jx := ctx.RNG.FloatRange(-spawnJitter, spawnJitter)
	jy := ctx.RNG.FloatRange(-spawnJitter, spawnJitter)
	spawnPos = spawnPos.Add(core.Vector{X: jx, Y: jy})

	id := state.Entities.Spawn(core.KindUnit, key, p.ID, spawnPos)
	e, _ := state.Entities.Get(id)
	e.HP, e.MaxHP = udef.HP, udef.HP
	e.Radius = udef.Radius
	e.W, e.H = udef.Radius*2, udef.Radius*2
	e.Movement = &core.Movement{}

	if udef.Weapon != nil {
		e.Combat = &core.Combat{}
	}
	if udef.IsHarvester {
		e.Harvester = &core.Harvester{}
	}
	if udef.IsEngineer {
		e.Engineer = &core.Engineer{}
	}
	if udef.IsAirUnit {
		e.AirUnit = &core.AirUnit{Ammo: udef.MaxAmmo, MaxAmmo: udef.MaxAmmo, State: core.AirDocked}
		if producer != nil {
			e.AirUnit.HomeBaseID = producer.ID
		}
	}
	if udef.IsDemoTruck {
		e.DemoTruck = &core.DemoTruck{}
	}
}

func advanceBuildingConstruction(state *core.GameState, ctx *Context) {
	for _, e := range state.Entities.All() {
		if e.Dead || e.Kind != core.KindBuilding || e.Building == nil {
			continue
		}

		if e.HP >= e.MaxHP {
			continue
		}
		p := state.Player(e.Owner)
		rate := e.MaxHP / 400.0
		if p != nil && !playerHasPower(p) {
			rate *= 0.5
		}
		e.HP += rate
		if e.HP >= e.MaxHP {
			e.HP = e.MaxHP
			if e.Key == "refinery" {
				spawnRefineryHarvester(state, ctx, e)
			}
		}
	}
}

func spawnRefineryHarvester(state *core.GameState, ctx *Context, refinery *core.Entity) {
	udef, ok := ctx.Catalog.Unit("harvester")
	if !ok {
		return
	}
	pos := refinery.Pos.Add(core.Vector{X: refinery.W/2 + 24, Y: refinery.H / 2})
	id := state.Entities.Spawn(core.KindUnit, "harvester", refinery.Owner, pos)
	e, _ := state.Entities.Get(id)
	e.HP, e.MaxHP = udef.HP, udef.HP
	e.Radius = udef.Radius
	e.Movement = &core.Movement{}
	e.Harvester = &core.Harvester{}
}
