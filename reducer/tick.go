// Package reducer implements the pure tick(state, actions) -> state
// function: the fixed 12-phase world update spec.md §4.3 mandates.
// Grounded on the teacher's engine/systems/*.go Update methods,
// generalized from a priority-ordered ECS system list into the explicit
// phase pipeline the spec requires.
package reducer

import (
	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/pathfind"
	"github.com/skirmish-engine/core/rng"
	"github.com/skirmish-engine/core/rules"
	"github.com/skirmish-engine/core/spatial"
)

// maxQueueLen bounds current+queued length per production queue
// (Testable Property 4).
const maxQueueLen = 99

// Context threads the per-tick dependencies the reducer's phases need:
// the rules catalog, the deterministic RNG source, and the spatial/path
// infrastructure that must be refreshed before entity behavior runs.
type Context struct {
	Catalog rules.Catalog
	RNG     *rng.Source

	Grid       *spatial.Grid
	Collision  *pathfind.CollisionGrid
	Pathfinder *pathfind.Pathfinder

	SteerState map[core.EntityID]*pathfind.SteerState

	events *core.EventBus
}

// NewContext builds a Context with fresh spatial/pathfinding
// infrastructure sized to the world config.
func NewContext(catalog rules.Catalog, seed int64, cfg core.WorldConfig, events *core.EventBus) *Context {
	return &Context{
		Catalog:    catalog,
		RNG:        rng.NewFromInt(seed),
		Grid:       spatial.NewGrid(32, 512),
		Collision:  pathfind.NewCollisionGrid(cfg.Width, cfg.Height),
		Pathfinder: nil, // built lazily once Collision exists
		SteerState: make(map[core.EntityID]*pathfind.SteerState),
		events:     events,
	}
}

// Tick is the pure function of spec.md §4.3: it consumes the prior state
// and a batch of actions and returns the successor state. The receiver
// owns (and mutates) Context's spatial/pathfinding scratch structures,
// which are pure cache state reconstructed from `state` every tick and
// never influence tick's output given identical inputs.
func Tick(state *core.GameState, actions []action.Action, ctx *Context) *core.GameState {
	next := cloneState(state)

	applyActions(next, actions, ctx)

	if next.Mode != core.ModePlaying || !next.Running {
		return next
	}

	next.Tick++

	refreshSpatial(next, ctx)

	phaseNotificationDecay(next)
	phaseProduction(next, ctx)
	phaseWells(next, ctx)
	phaseEntityBehavior(next, ctx)
	phaseMovementIntegration(next, ctx)
	phaseCollisionResolution(next, ctx)
	damageEvents := phaseProjectileIntegration(next, ctx)
	phaseDamageApplication(next, ctx, damageEvents)
	phaseRepair(next, ctx)
	phaseDemoTruckDetonations(next, ctx)
	phaseElimination(next, ctx)
	phaseCameraShakeDecay(next)

	filterDead(next)

	return next
}

// cloneState double-buffers rather than deep-cloning: a shallow struct
// copy plus a fresh EntityStore clone, per spec.md §9 "swap-style double
// buffering". The caller's reference to the pre-tick state stays valid.
func cloneState(state *core.GameState) *core.GameState {
	next := *state
	next.Entities = state.Entities.Clone()
	next.Projectiles = append([]*core.Projectile(nil), state.Projectiles...)
	next.Selection = append([]core.EntityID(nil), state.Selection...)

	players := make([]*core.PlayerState, len(state.Players))
	for i, p := range state.Players {
		cp := *p
		players[i] = &cp
	}
	next.Players = players

	return &next
}

func refreshSpatial(state *core.GameState, ctx *Context) {
	entities := state.Entities.All()

	points := make([]spatial.Point, 0, len(entities))
	var obstacles []pathfind.Obstacle
	var occupants []pathfind.UnitOccupant

	for _, e := range entities {
		points = append(points, spatial.Point{
			ID: uint64(e.ID.Index)<<32 | uint64(e.ID.Generation),
			X:  e.Pos.X, Y: e.Pos.Y, Radius: e.Radius,
		})
		switch e.Kind {
		case core.KindBuilding, core.KindRock, core.KindWell:
			obstacles = append(obstacles, pathfind.Obstacle{X: e.Pos.X, Y: e.Pos.Y, Radius: e.Radius})
		case core.KindUnit:
			occupants = append(occupants, pathfind.UnitOccupant{X: e.Pos.X, Y: e.Pos.Y, Radius: e.Radius, Owner: e.Owner})
		}
	}

	ctx.Grid.Rebuild(points)
	ctx.Collision.Refresh(obstacles, occupants)
	if ctx.Pathfinder == nil {
		ctx.Pathfinder = pathfind.NewPathfinder(ctx.Collision)
	} else {
		ctx.Pathfinder.InvalidateCache(ctx.Collision)
	}
}

// filterDead removes dead entities from the store at tick boundary
// (Testable Property 6) and clears any stale EntityID reference on the
// surviving state (Testable Property 1).
func filterDead(state *core.GameState) {
	for _, e := range state.Entities.All() {
		if e.HP <= 0 {
			e.Dead = true
		}
		if e.Dead {
			state.Entities.Destroy(e.ID)
		}
	}

	clean := state.Selection[:0:0]
	for _, id := range state.Selection {
		if r := state.Entities.Resolve(id); !r.IsNil() {
			clean = append(clean, r)
		}
	}
	state.Selection = clean

	for _, e := range state.Entities.All() {
		if e.Combat != nil {
			e.Combat.TargetID = state.Entities.Resolve(e.Combat.TargetID)
			e.Combat.LastAttackerID = state.Entities.Resolve(e.Combat.LastAttackerID)
		}
		if e.Harvester != nil {
			e.Harvester.ResourceTargetID = state.Entities.Resolve(e.Harvester.ResourceTargetID)
			e.Harvester.BaseTargetID = state.Entities.Resolve(e.Harvester.BaseTargetID)
			e.Harvester.BlockedOreID = state.Entities.Resolve(e.Harvester.BlockedOreID)
		}
		if e.Engineer != nil {
			e.Engineer.CaptureTargetID = state.Entities.Resolve(e.Engineer.CaptureTargetID)
			e.Engineer.RepairTargetID = state.Entities.Resolve(e.Engineer.RepairTargetID)
		}
		if e.AirUnit != nil {
			e.AirUnit.HomeBaseID = state.Entities.Resolve(e.AirUnit.HomeBaseID)
		}
		if e.DemoTruck != nil {
			e.DemoTruck.DetonationTargetID = state.Entities.Resolve(e.DemoTruck.DetonationTargetID)
		}
	}
}
