package reducer

import (
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/rules"
)

const (
	fleeTimeoutTicks       = 400
	oreStuckTicks          = 60
	oreAttemptGiveUp       = 30
	oreBestDistGiveUp      = 45.0
	blockedOreTimeoutTicks = 300
)

// behaveHarvester is the decision tree of spec.md §4.4 "Harvester".
func behaveHarvester(state *core.GameState, ctx *Context, e *core.Entity) {
	h := e.Harvester
	udef, ok := ctx.Catalog.Unit(e.Key)
	if !ok {
		return
	}

	harvesterAutoFire(state, ctx, e, udef)

	econ := ctx.Catalog.Economy()

	if e.Movement.MoveTarget != nil && h.Cargo >= udef.CargoCap {
		e.Movement.MoveTarget = nil
	} else if e.Movement.MoveTarget != nil {
		harvesterFollowMoveTarget(e, h, udef.Speed, econ)
		return
	}

	if h.Cargo >= udef.CargoCap {
		harvesterReturnToDock(state, e, udef, econ)
		return
	}

	if !h.ResourceTargetID.IsNil() {
		harvesterWorkOre(state, e, udef, econ)
		return
	}

	if !h.ManualMode {
		harvesterSelectOre(state, e, econ)
	}
}

// harvesterAutoFire lets an armed harvester take opportunistic shots
// without ever chasing: it never sets targetId.
func harvesterAutoFire(state *core.GameState, ctx *Context, e *core.Entity, udef rules.UnitDef) {
	if e.Combat == nil || udef.Weapon == nil {
		return
	}
	if e.Combat.Cooldown > 0 || e.Movement.MoveTarget != nil {
		return
	}
	target := nearestEnemy(state, e, udef.Weapon.Range+16)
	if target == nil {
		return
	}
	fireWeapon(state, ctx, e, udef.Weapon, core.Nil, target.Pos, e.Combat)
}

// harvesterFollowMoveTarget executes generic movement toward MoveTarget,
// clearing it on arrival (larger tolerance than combat units) or on
// absolute flee timeout, in which case manual mode is cleared too so the
// AI doesn't immediately re-issue the same flee order.
func harvesterFollowMoveTarget(e *core.Entity, h *core.Harvester, speed float64, econ rules.EconomyRules) {
	target := e.Movement.MoveTarget
	d := distance(e.Pos, *target)
	if d <= econ.HarvesterDockTolerance*1.5 {
		e.Movement.MoveTarget = nil
		e.Movement.MoveTargetNoProgressTicks = 0
		return
	}
	e.Movement.MoveTargetNoProgressTicks++
	if e.Movement.MoveTargetNoProgressTicks > fleeTimeoutTicks {
		e.Movement.MoveTarget = nil
		h.ManualMode = false
		e.Movement.MoveTargetNoProgressTicks = 0
		return
	}
	dir := target.Sub(e.Pos).Norm()
	e.Movement.Vel = dir.Scale(speed)
}

func harvesterReturnToDock(state *core.GameState, e *core.Entity, udef rules.UnitDef, econ rules.EconomyRules) {
	h := e.Harvester
	if h.BaseTargetID.IsNil() {
		base := nearestFriendlyRefinery(state, e)
		if base == nil {
			return
		}
		h.BaseTargetID = base.ID
	}
	base, ok := state.Entities.Get(h.BaseTargetID)
	if !ok {
		h.BaseTargetID = core.Nil
		return
	}
	dock := base.Pos.Add(core.Vector{X: base.W/2 + 20, Y: 0})

	ahead := harvestersQueuedAhead(state, e, h.BaseTargetID, dock)
	d := distance(e.Pos, dock)

	if ahead == 0 && d <= econ.HarvesterDockTolerance {
		if player := state.Player(e.Owner); player != nil {
			player.Credits += udef.CargoCap
		}
		h.Cargo = 0
		h.BaseTargetID = core.Nil
		return
	}
	if ahead > 0 && d <= econ.HarvesterDockTolerance*2 {
		e.Movement.Vel = core.Vector{}
		return
	}
	dir := dock.Sub(e.Pos).Norm()
	e.Movement.Vel = dir.Scale(udef.Speed)
}

func harvestersQueuedAhead(state *core.GameState, self *core.Entity, baseID core.EntityID, dock core.Vector) int {
	n := 0
	for _, e := range state.Entities.All() {
		if e.Dead || e.ID == self.ID || e.Harvester == nil {
			continue
		}
		if e.Harvester.BaseTargetID != baseID || e.Harvester.Cargo == 0 {
			continue
		}
		if distance(e.Pos, dock) < distance(self.Pos, dock) {
			n++
		}
	}
	return n
}

func harvesterWorkOre(state *core.GameState, e *core.Entity, udef rules.UnitDef, econ rules.EconomyRules) {
	h := e.Harvester
	ore, ok := state.Entities.Get(h.ResourceTargetID)
	if !ok || ore.Dead {
		clearOreTarget(h)
		return
	}

	congestion := harvesterCongestionOn(state, e, ore.ID)
	if congestion > econ.HarvesterCongestionCap {
		if alt := pickAlternateOre(state, e, econ); !alt.IsNil() {
			h.ResourceTargetID = alt
		}
		return
	}

	d := distance(e.Pos, ore.Pos)
	h.HarvestAttemptTicks++
	if h.BestDistToOre == nil || d < *h.BestDistToOre {
		bd := d
		h.BestDistToOre = &bd
	}
	h.LastDistToOre = &d

	stuck := h.HarvestAttemptTicks > oreAttemptGiveUp
	tooFar := h.HarvestAttemptTicks > oreStuckTicks && h.BestDistToOre != nil && *h.BestDistToOre > oreBestDistGiveUp
	if stuck || tooFar {
		h.BlockedOreID = ore.ID
		h.BlockedOreTimer = blockedOreTimeoutTicks
		clearOreTarget(h)
		return
	}

	if d <= econ.HarvestTolerance {
		if e.Combat == nil || e.Combat.Cooldown <= 0 {
			take := udef.HarvestRate
			if take > ore.HP {
				take = ore.HP
			}
			ore.HP -= take
			h.Cargo++
			if e.Combat != nil {
				e.Combat.Cooldown = 10
			}
		}
		return
	}
	dir := ore.Pos.Sub(e.Pos).Norm()
	e.Movement.Vel = dir.Scale(udef.Speed)
}

func clearOreTarget(h *core.Harvester) {
	h.ResourceTargetID = core.Nil
	h.BestDistToOre = nil
	h.LastDistToOre = nil
	h.HarvestAttemptTicks = 0
}

func harvesterCongestionOn(state *core.GameState, self *core.Entity, oreID core.EntityID) int {
	n := 0
	for _, e := range state.Entities.All() {
		if e.Dead || e.Harvester == nil || e.ID == self.ID {
			continue
		}
		if e.Harvester.ResourceTargetID == oreID {
			n++
		}
	}
	return n
}

func pickAlternateOre(state *core.GameState, e *core.Entity, econ rules.EconomyRules) core.EntityID {
	var best *core.Entity
	bestScore := 0.0
	for _, o := range state.Entities.All() {
		if o.Dead || o.Kind != core.KindResource {
			continue
		}
		if o.ID == e.Harvester.ResourceTargetID {
			continue
		}
		if harvesterCongestionOn(state, e, o.ID) >= econ.HarvesterCongestionCap {
			continue
		}
		score := -(distance(e.Pos, o.Pos))
		if best == nil || score > bestScore {
			best, bestScore = o, score
		}
	}
	if best == nil {
		return core.Nil
	}
	return best.ID
}

// harvesterSelectOre scores uncapped ores within the catalog's refinery
// ore query radius by -(distance + 500*congestion), falling back to a
// global scan if the spatial query turns up nothing, breaking ties by
// stable id.
func harvesterSelectOre(state *core.GameState, e *core.Entity, econ rules.EconomyRules) {
	h := e.Harvester
	if h.BlockedOreTimer > 0 {
		h.BlockedOreTimer--
	}

	best := scanOres(state, e, oresWithinRadius(state, e.Pos, econ.RefineryOreQueryRadius), econ)
	if best == nil {
		best = scanOres(state, e, state.Entities.All(), econ)
	}
	if best != nil {
		h.ResourceTargetID = best.ID
	}
}

func oresWithinRadius(state *core.GameState, center core.Vector, radius float64) []*core.Entity {
	var out []*core.Entity
	for _, e := range state.Entities.All() {
		if e.Dead || e.Kind != core.KindResource {
			continue
		}
		if distance(e.Pos, center) <= radius {
			out = append(out, e)
		}
	}
	return out
}

func scanOres(state *core.GameState, self *core.Entity, pool []*core.Entity, econ rules.EconomyRules) *core.Entity {
	h := self.Harvester
	var best *core.Entity
	bestScore := 0.0
	for _, ore := range pool {
		if h.BlockedOreID == ore.ID && h.BlockedOreTimer > 0 {
			continue
		}
		cong := harvesterCongestionOn(state, self, ore.ID)
		if cong >= econ.HarvesterCongestionCap {
			continue
		}
		score := -(distance(self.Pos, ore.Pos) + 500*float64(cong))
		if best == nil || score > bestScore || (score == bestScore && ore.ID.Index < best.ID.Index) {
			best, bestScore = ore, score
		}
	}
	return best
}

func nearestFriendlyRefinery(state *core.GameState, e *core.Entity) *core.Entity {
	var best *core.Entity
	bestD := 0.0
	for _, b := range state.Entities.All() {
		if b.Dead || b.Kind != core.KindBuilding || b.Owner != e.Owner || b.Key != "refinery" {
			continue
		}
		d := distance(e.Pos, b.Pos)
		if best == nil || d < bestD {
			best, bestD = b, d
		}
	}
	return best
}

func nearestEnemy(state *core.GameState, e *core.Entity, radius float64) *core.Entity {
	var best *core.Entity
	bestD := radius
	for _, o := range state.Entities.All() {
		if o.Dead || o.Owner == e.Owner || o.Owner < 0 {
			continue
		}
		if o.Kind != core.KindUnit && o.Kind != core.KindBuilding {
			continue
		}
		d := distance(e.Pos, o.Pos)
		if d <= bestD {
			best, bestD = o, d
		}
	}
	return best
}
