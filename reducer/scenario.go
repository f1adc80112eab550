package reducer

import "github.com/skirmish-engine/core/core"

// SpawnBuilding places a fully-built building for playerID at pos,
// generalizing the applyPlaceBuilding/applyDeployMCV spawn wiring (which
// only ever construct from a queued order) for use by a match's initial
// setup, where the starting base exists before any order was issued.
func SpawnBuilding(state *core.GameState, ctx *Context, playerID int, key string, pos core.Vector) *core.Entity {
	bdef, ok := ctx.Catalog.Building(key)
	if !ok {
		return nil
	}
	id := state.Entities.Spawn(core.KindBuilding, key, playerID, pos)
	e, _ := state.Entities.Get(id)
	e.HP = bdef.HP
	e.MaxHP = bdef.HP
	e.W, e.H = float64(bdef.SizeX)*16, float64(bdef.SizeY)*16
	e.Radius = (e.W + e.H) / 4
	e.Building = &core.BuildingState{PlacedTick: state.Tick}
	if bdef.IsDefense {
		e.Combat = &core.Combat{}
	}
	return e
}

// SpawnStartingUnit spawns a fully healthy unit for playerID at pos,
// generalizing production.go's spawnUnit component wiring for initial
// scenario setup rather than a completed queue item.
func SpawnStartingUnit(state *core.GameState, ctx *Context, playerID int, key string, pos core.Vector) *core.Entity {
	udef, ok := ctx.Catalog.Unit(key)
	if !ok {
		return nil
	}
	id := state.Entities.Spawn(core.KindUnit, key, playerID, pos)
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
		e.AirUnit = &core.AirUnit{Ammo: udef.MaxAmmo, MaxAmmo: udef.MaxAmmo, State: core.AirDocked, HomeBaseID: e.ID}
	}
	if udef.IsDemoTruck {
		e.DemoTruck = &core.DemoTruck{}
	}
	return e
}

// NewPlayerState builds an economy-ready PlayerState for a fresh match
// seat; per spec.md §9 every player starts with the same credits
// regardless of difficulty, which only governs the AI planner's
// behavior, not starting resources.
func NewPlayerState(id int, isAI bool, difficulty core.Difficulty, color uint32, startingCredits int) *core.PlayerState {
	return &core.PlayerState{
		ID:         id,
		IsAI:       isAI,
		Difficulty: difficulty,
		Color:      color,
		Credits:    startingCredits,
	}
}
