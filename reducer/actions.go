package reducer

import (
	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/core"
)

// applyActions dispatches every action in the batch against state, in
// the order given (the batch itself has already been merged in
// deterministic player-id order by the caller, per spec.md §5 "Shared
// resource policy"). Invalid payloads and ownership/prerequisite
// failures are no-ops, per spec.md §7.
func applyActions(state *core.GameState, actions []action.Action, ctx *Context) {
	for _, a := range actions {
		if !action.Validate(a) {
			continue
		}
		if a.Kind != action.SelectUnits && len(a.UnitIDs) > 0 {
			owned := make([]core.EntityID, 0, len(a.UnitIDs))
			for _, id := range a.UnitIDs {
				if e, ok := state.Entities.Get(id); ok && e.Owner == a.PlayerID {
					owned = append(owned, id)
				}
			}
			a.UnitIDs = owned
		}
		if a.Kind == action.DeployMCV {
			if e, ok := state.Entities.Get(a.UnitID); !ok || e.Owner != a.PlayerID {
				continue
			}
		}
		applyOne(state, a, ctx)
	}
}

func applyOne(state *core.GameState, a action.Action, ctx *Context) {
	switch a.Kind {
	case action.Tick:
		// handled by the caller advancing state.Tick; nothing to do here.
	case action.StartBuild:
		applyStartBuild(state, a, ctx)
	case action.PlaceBuilding:
		applyPlaceBuilding(state, a, ctx)
	case action.CancelBuild:
		applyCancelBuild(state, a)
	case action.CommandMove:
		applyCommandMove(state, a)
	case action.CommandAttack:
		applyCommandAttack(state, a)
	case action.CommandAttackMove:
		applyCommandAttackMove(state, a)
	case action.SelectUnits:
		state.Selection = append([]core.EntityID(nil), a.UnitIDs...)
	case action.SellBuilding:
		applySellBuilding(state, a, ctx)
	case action.ToggleSellMode:
		state.SellMode = !state.SellMode
	case action.ToggleRepairMode:
		state.RepairMode = !state.RepairMode
	case action.ToggleDebug, action.ToggleMinimap:
		// UI-only flags; no reducer-side state today.
	case action.StartRepair:
		applyToggleRepair(state, a, true)
	case action.StopRepair:
		applyToggleRepair(state, a, false)
	case action.DeployMCV:
		applyDeployMCV(state, a, ctx)
	case action.QueueUnit:
		applyQueueUnit(state, a, ctx)
	case action.DequeueUnit:
		applyDequeueUnit(state, a)
	}
}

func notify(state *core.GameState, text string) {
	state.Notification = &core.Notification{Text: text, Tick: state.Tick}
}

func applyStartBuild(state *core.GameState, a action.Action, ctx *Context) {
	player := state.Player(a.PlayerID)
	if player == nil {
		return
	}
	if !prereqsSatisfied(state, ctx.Catalog, a.PlayerID, a.Category, a.Key) {
		notify(state, "missing prerequisites")
		return
	}
	queue := queueFor(player, a.Category)
	if queue == nil {
		return
	}
	if queue.Current == "" {
		queue.Current = a.Key
		queue.Progress = 0
		queue.Invested = 0
	} else if len(queue.Queued)+1 < maxQueueLen {
		queue.Queued = append(queue.Queued, a.Key)
	}
}

func applyCancelBuild(state *core.GameState, a action.Action) {
	player := state.Player(a.PlayerID)
	if player == nil {
		return
	}
	queue := queueFor(player, a.Category)
	if queue == nil || queue.Current == "" {
		return
	}
	player.Credits += queue.Invested
	queue.Current = ""
	queue.Progress = 0
	queue.Invested = 0
	if len(queue.Queued) > 0 {
		queue.Current = queue.Queued[0]
		queue.Queued = queue.Queued[1:]
	}
}

func applyQueueUnit(state *core.GameState, a action.Action, ctx *Context) {
	player := state.Player(a.PlayerID)
	if player == nil {
		return
	}
	if !prereqsSatisfied(state, ctx.Catalog, a.PlayerID, a.Category, a.Key) {
		return
	}
	queue := queueFor(player, a.Category)
	if queue == nil {
		return
	}
	count := a.Count
	if count <= 0 {
		count = 1
	}
	for i := 0; i < count; i++ {
		if queue.Current == "" {
			queue.Current = a.Key
			queue.Progress = 0
			queue.Invested = 0
		} else if len(queue.Queued)+1 < maxQueueLen {
			queue.Queued = append(queue.Queued, a.Key)
		}
	}
}

func applyDequeueUnit(state *core.GameState, a action.Action) {
	player := state.Player(a.PlayerID)
	if player == nil {
		return
	}
	queue := queueFor(player, a.Category)
	if queue == nil {
		return
	}
	count := a.Count
	if count <= 0 {
		count = 1
	}
	for i := 0; i < count && len(queue.Queued) > 0; i++ {
		// remove the last queued of this key, LIFO on cancel
		for j := len(queue.Queued) - 1; j >= 0; j-- {
			if queue.Queued[j] == a.Key {
				queue.Queued = append(queue.Queued[:j], queue.Queued[j+1:]...)
				break
			}
		}
	}
}

func applyPlaceBuilding(state *core.GameState, a action.Action, ctx *Context) {
	player := state.Player(a.PlayerID)
	if player == nil || player.ReadyToPlace != a.Key || a.Key == "" {
		return
	}
	bdef, ok := ctx.Catalog.Building(a.Key)
	if !ok {
		return
	}
	if !withinBuildRadius(state, a.PlayerID, a.X, a.Y) {
		notify(state, "out of build range")
		return
	}
	id := state.Entities.Spawn(core.KindBuilding, a.Key, a.PlayerID, core.Vector{X: a.X, Y: a.Y})
	e, _ := state.Entities.Get(id)
	e.HP = 1
	e.MaxHP = bdef.HP
	e.W, e.H = float64(bdef.SizeX)*16, float64(bdef.SizeY)*16
	e.Radius = (e.W + e.H) / 4
	e.Building = &core.BuildingState{PlacedTick: state.Tick}
	if bdef.IsDefense {
		e.Combat = &core.Combat{}
	}
	player.ReadyToPlace = ""
}

func applySellBuilding(state *core.GameState, a action.Action, ctx *Context) {
	e, ok := state.Entities.Get(a.BuildingID)
	if !ok || e.Owner != a.PlayerID || e.Kind != core.KindBuilding {
		return
	}
	bdef, ok := ctx.Catalog.Building(e.Key)
	if !ok || !bdef.Sellable {
		return
	}
	player := state.Player(a.PlayerID)
	if player == nil {
		return
	}
	sellPct := ctx.Catalog.Economy().SellBuildingReturnPercentage
	refund := int(float64(bdef.Cost) * sellPct * (e.HP / e.MaxHP))
	player.Credits += refund
	e.Dead = true
}

func applyToggleRepair(state *core.GameState, a action.Action, on bool) {
	e, ok := state.Entities.Get(a.BuildingID)
	if !ok || e.Owner != a.PlayerID || e.Building == nil {
		return
	}
	e.Building.IsRepairing = on
}

func applyDeployMCV(state *core.GameState, a action.Action, ctx *Context) {
	e, ok := state.Entities.Get(a.UnitID)
	if !ok || e.Key != "mcv" {
		return
	}
	pos, owner := e.Pos, e.Owner
	state.Entities.Destroy(a.UnitID)

	cyID := state.Entities.Spawn(core.KindBuilding, "construction_yard", owner, pos)
	cy, _ := state.Entities.Get(cyID)
	bdef, _ := ctx.Catalog.Building("construction_yard")
	cy.HP = 100
	cy.MaxHP = bdef.HP
	cy.W, cy.H = float64(bdef.SizeX)*16, float64(bdef.SizeY)*16
	cy.Radius = (cy.W + cy.H) / 4
	cy.Building = &core.BuildingState{PlacedTick: state.Tick}
}

func applyCommandMove(state *core.GameState, a action.Action) {
	for _, id := range a.UnitIDs {
		e, ok := state.Entities.Get(id)
		if !ok || e.Movement == nil {
			continue
		}
		target := core.Vector{X: a.X, Y: a.Y}
		e.Movement.MoveTarget = &target
		e.Movement.AttackMove = false
		if e.Combat != nil {
			e.Combat.TargetID = core.Nil
		}
	}
}

func applyCommandAttack(state *core.GameState, a action.Action) {
	target, ok := state.Entities.Get(a.TargetID)
	if !ok {
		return
	}
	for _, id := range a.UnitIDs {
		e, ok := state.Entities.Get(id)
		if !ok {
			continue
		}
		if e.Harvester != nil && (target.Kind == core.KindResource || target.Key == "refinery") {
			e.Harvester.ManualMode = false
			if target.Kind == core.KindResource {
				e.Harvester.ResourceTargetID = a.TargetID
			}
			continue
		}
		if e.Combat != nil {
			e.Combat.TargetID = a.TargetID
		}
		if e.Movement != nil {
			e.Movement.MoveTarget = nil
		}
	}
}

func applyCommandAttackMove(state *core.GameState, a action.Action) {
	for _, id := range a.UnitIDs {
		e, ok := state.Entities.Get(id)
		if !ok || e.Movement == nil {
			continue
		}
		target := core.Vector{X: a.X, Y: a.Y}
		e.Movement.MoveTarget = &target
		e.Movement.AttackMove = true
	}
}
