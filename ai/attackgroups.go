package ai

import (
	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/perception"
	"github.com/skirmish-engine/core/rules"
)

// GroupStatus is one state of the attack-group cohesion FSM of spec.md
// §4.10.
type GroupStatus int

const (
	GroupForming GroupStatus = iota
	GroupRallying
	GroupMoving
	GroupEngaging
	GroupAttacking
	GroupRetreating
	GroupReinforcing
)

// AttackGroup is one offensive formation a Planner is managing.
type AttackGroup struct {
	ID       int
	UnitIDs  []core.EntityID
	Status   GroupStatus
	Target   core.EntityID

	RallyPoint     *core.Vector
	MoveTarget     *core.Vector
	PreEngageTarget core.EntityID

	LastOrderTick      int
	AvgHealthPercent   float64
	LastHealthCheck    int
	NeedsReinforcements bool
	ReinforcementIDs   []core.EntityID
	LastRegroupTick    int
	previousStatus     GroupStatus
}

const (
	cohesionRadius        = 180.0
	rallyTimeoutTicks     = 300
	regroupIntervalTicks  = 120
	maxSpreadThreshold     = 500.0
	criticalMinGroupSize   = 3
	reinforceTimeoutTicks  = 400
)

// attackGroupActions runs spec.md §4.10: attack-only in the attack or
// all_in strategy, forms groups from idle armed units up to the
// personality max, and steps every existing group's FSM, emitting the
// move/attack commands for its current state.
func attackGroupActions(p *Planner, state *core.GameState, cache *perception.Cache, catalog rules.Catalog) []action.Action {
	var out []action.Action

	p.pruneGroups(state)

	if p.Strategy == StrategyAttack || p.Strategy == StrategyAllIn {
		out = append(out, p.formGroups(state, cache)...)
	}

	for _, g := range p.Groups {
		out = append(out, p.stepGroup(state, cache, catalog, g)...)
	}

	return out
}

// pruneGroups drops dead unit ids and removes empty groups.
func (p *Planner) pruneGroups(state *core.GameState) {
	kept := p.Groups[:0]
	for _, g := range p.Groups {
		live := g.UnitIDs[:0]
		for _, id := range g.UnitIDs {
			if e, ok := state.Entities.Get(id); ok && !e.Dead {
				live = append(live, id)
			}
		}
		g.UnitIDs = live
		if len(g.UnitIDs) > 0 {
			kept = append(kept, g)
		}
	}
	p.Groups = kept
}

// formGroups assembles idle armed combat units (not harvesters, not
// engineers, not already in a group) into a forming group, respecting
// the personality's min/max size and trickle-attack prevention (new
// units are not added to a group that has left forming/rallying unless
// the group fell below criticalMinGroupSize).
func (p *Planner) formGroups(state *core.GameState, cache *perception.Cache) []action.Action {
	grouped := map[core.EntityID]bool{}
	for _, g := range p.Groups {
		for _, id := range g.UnitIDs {
			grouped[id] = true
		}
	}

	var idle []core.EntityID
	for _, u := range cache.OwnCombatUnits {
		if u.Harvester != nil || u.Engineer != nil || u.AirUnit != nil || u.DemoTruck != nil {
			continue
		}
		if grouped[u.ID] {
			continue
		}
		idle = append(idle, u.ID)
	}
	if len(idle) == 0 {
		return nil
	}

	// top up an existing below-critical group first.
	for _, g := range p.Groups {
		if len(g.UnitIDs) >= criticalMinGroupSize {
			continue
		}
		need := p.Personality.AttackGroupMinSize - len(g.UnitIDs)
		for need > 0 && len(idle) > 0 {
			g.UnitIDs = append(g.UnitIDs, idle[0])
			idle = idle[1:]
			need--
		}
	}

	if len(idle) < p.Personality.AttackGroupMinSize {
		return nil
	}

	max := p.Personality.AttackGroupMaxSize
	if max > len(idle) {
		max = len(idle)
	}
	p.nextGroupID++
	g := &AttackGroup{ID: p.nextGroupID, UnitIDs: append([]core.EntityID(nil), idle[:max]...), Status: GroupForming}
	p.Groups = append(p.Groups, g)
	return nil
}

func (p *Planner) stepGroup(state *core.GameState, cache *perception.Cache, catalog rules.Catalog, g *AttackGroup) []action.Action {
	g.AvgHealthPercent = averageHealthPercent(state, g.UnitIDs)

	switch g.Status {
	case GroupForming:
		if len(g.UnitIDs) >= p.Personality.AttackGroupMinSize {
			g.RallyPoint = rallyPointBetween(p.BaseCenter, state.Config)
			g.Status, g.LastOrderTick = GroupRallying, state.Tick
		}
		return nil

	case GroupRallying:
		return p.stepRallying(state, g)

	case GroupMoving:
		return p.stepMoving(state, cache, g)

	case GroupEngaging:
		return p.stepEngaging(state, cache, g)

	case GroupAttacking:
		return p.stepAttacking(state, cache, catalog, g)

	case GroupRetreating:
		return p.stepRetreating(state, g)

	case GroupReinforcing:
		return p.stepReinforcing(state, g)
	}
	return nil
}

func (p *Planner) stepRallying(state *core.GameState, g *AttackGroup) []action.Action {
	if g.RallyPoint == nil {
		g.RallyPoint = rallyPointBetween(p.BaseCenter, state.Config)
	}
	within := 0
	for _, id := range g.UnitIDs {
		if e, ok := state.Entities.Get(id); ok && e.Pos.Dist(*g.RallyPoint) <= cohesionRadius {
			within++
		}
	}
	ready := len(g.UnitIDs) > 0 && float64(within)/float64(len(g.UnitIDs)) >= 0.7
	timedOut := state.Tick-g.LastOrderTick > rallyTimeoutTicks
	if ready || timedOut {
		target := p.EnemyBaseLocation
		if target == nil {
			return nil // nothing to move toward yet; stay rallying
		}
		g.MoveTarget = target
		g.Status, g.LastOrderTick = GroupMoving, state.Tick
		return nil
	}
	return groupMoveActions(p, g.UnitIDs, *g.RallyPoint)
}

func (p *Planner) stepMoving(state *core.GameState, cache *perception.Cache, g *AttackGroup) []action.Action {
	if g.MoveTarget == nil {
		g.Status = GroupAttacking
		return nil
	}
	if threat := nearestEnemyToGroup(state, cache, g); threat != nil && threat.Pos.Dist(*g.MoveTarget) < maxSpreadThreshold {
		g.PreEngageTarget = core.Nil
		g.Status = GroupEngaging
		return groupAttackActions(p, g.UnitIDs, threat.ID)
	}

	center := groupCenter(state, g.UnitIDs)
	if center.Dist(*g.MoveTarget) <= cohesionRadius {
		g.Status, g.LastOrderTick = GroupAttacking, state.Tick
		return nil
	}

	if state.Tick-g.LastRegroupTick > regroupIntervalTicks && groupSpread(state, g.UnitIDs) > maxSpreadThreshold {
		g.LastRegroupTick = state.Tick
		return groupMoveActions(p, g.UnitIDs, center)
	}
	return groupMoveActions(p, g.UnitIDs, *g.MoveTarget)
}

func (p *Planner) stepEngaging(state *core.GameState, cache *perception.Cache, g *AttackGroup) []action.Action {
	threat := nearestEnemyToGroup(state, cache, g)
	if threat == nil {
		if g.PreEngageTarget != core.Nil {
			g.MoveTarget = vecPtr(mustPos(state, g.PreEngageTarget, *g.MoveTarget))
			g.Status = GroupMoving
		} else {
			g.Status = GroupAttacking
		}
		return nil
	}
	return groupAttackActions(p, g.UnitIDs, threat.ID)
}

func (p *Planner) stepAttacking(state *core.GameState, cache *perception.Cache, catalog rules.Catalog, g *AttackGroup) []action.Action {
	target := p.scoreAttackTargets(state, cache, catalog, g)
	if target == core.Nil {
		return nil
	}
	g.Target = target

	if ratio := healthDropRatio(p, g); ratio <= p.Personality.RetreatHPRatio {
		g.Status, g.LastOrderTick = GroupRetreating, state.Tick
		return groupMoveActions(p, g.UnitIDs, p.BaseCenter)
	}
	if ratio := healthDropRatio(p, g); ratio <= p.Personality.ReinforceHPRatio {
		g.previousStatus = GroupAttacking
		g.NeedsReinforcements = true
		g.Status, g.LastOrderTick = GroupReinforcing, state.Tick
	}
	return groupAttackActions(p, g.UnitIDs, target)
}

func (p *Planner) stepRetreating(state *core.GameState, g *AttackGroup) []action.Action {
	if g.AvgHealthPercent >= p.Personality.RetreatHPRatio+0.2 || g.AvgHealthPercent >= 0.8 {
		g.Status, g.LastOrderTick = GroupRallying, state.Tick
		g.RallyPoint = rallyPointBetween(p.BaseCenter, state.Config)
		return nil
	}
	return groupMoveActions(p, g.UnitIDs, p.BaseCenter)
}

func (p *Planner) stepReinforcing(state *core.GameState, g *AttackGroup) []action.Action {
	arrived := 0
	for _, id := range g.ReinforcementIDs {
		if e, ok := state.Entities.Get(id); ok {
			if center := groupCenter(state, g.UnitIDs); e.Pos.Dist(center) <= cohesionRadius {
				arrived++
			}
		}
	}
	ready := len(g.ReinforcementIDs) > 0 && float64(arrived)/float64(len(g.ReinforcementIDs)) >= 0.7
	timedOut := state.Tick-g.LastOrderTick > reinforceTimeoutTicks
	if ready || timedOut {
		g.NeedsReinforcements = false
		g.ReinforcementIDs = nil
		g.Status = g.previousStatus
	}
	return nil
}

// scoreAttackTargets implements spec.md §4.10's composite target score.
func (p *Planner) scoreAttackTargets(state *core.GameState, cache *perception.Cache, catalog rules.Catalog, g *AttackGroup) core.EntityID {
	center := groupCenter(state, g.UnitIDs)
	rank := map[string]float64{"construction_yard": 5, "war_factory": 4, "barracks": 3, "refinery": 2, "power_plant": 1}

	var best core.Entity
	bestScore := -1e18
	hasBest := false

	for _, e := range cache.Enemy {
		if e.Kind != core.KindUnit && e.Kind != core.KindBuilding {
			continue
		}
		score := 0.0
		if e.Combat != nil && state.Tick-e.Combat.LastDamageTick < 120 && e.Combat.LastAttackerID != core.Nil {
			if attacker, ok := state.Entities.Get(e.Combat.LastAttackerID); ok && attacker.Owner == p.PlayerID {
				score += 3.0
			}
		}
		if bdef, ok := catalog.Building(e.Key); ok {
			if bdef.IsDefense {
				score += 2.0
			}
			score += rank[e.Key]
		}
		if e.MaxHP > 0 {
			score += (1.0 - e.HP/e.MaxHP) * 2.0
		}
		score -= center.Dist(e.Pos) * 0.005
		score += allyFocusFireBonus(cache, e.ID) * 0.5
		score += p.Vengeance[e.Owner] * 0.2

		if !hasBest || score > bestScore || (score == bestScore && e.ID.Index < best.ID.Index) {
			best, bestScore, hasBest = *e, score, true
		}
	}
	if !hasBest {
		return core.Nil
	}
	return best.ID
}

func allyFocusFireBonus(cache *perception.Cache, target core.EntityID) float64 {
	n := 0.0
	for _, e := range cache.OwnCombatUnits {
		if e.Combat != nil && e.Combat.TargetID == target {
			n++
		}
	}
	return n
}

func groupMoveActions(p *Planner, unitIDs []core.EntityID, target core.Vector) []action.Action {
	if len(unitIDs) == 0 {
		return nil
	}
	return []action.Action{{Kind: action.CommandAttackMove, PlayerID: p.PlayerID, UnitIDs: append([]core.EntityID(nil), unitIDs...), X: target.X, Y: target.Y}}
}

func groupAttackActions(p *Planner, unitIDs []core.EntityID, target core.EntityID) []action.Action {
	if len(unitIDs) == 0 || target == core.Nil {
		return nil
	}
	return []action.Action{{Kind: action.CommandAttack, PlayerID: p.PlayerID, UnitIDs: append([]core.EntityID(nil), unitIDs...), TargetID: target}}
}

func groupCenter(state *core.GameState, unitIDs []core.EntityID) core.Vector {
	var sum core.Vector
	n := 0
	for _, id := range unitIDs {
		if e, ok := state.Entities.Get(id); ok {
			sum = sum.Add(e.Pos)
			n++
		}
	}
	if n == 0 {
		return core.Vector{}
	}
	return sum.Scale(1.0 / float64(n))
}

func groupSpread(state *core.GameState, unitIDs []core.EntityID) float64 {
	center := groupCenter(state, unitIDs)
	max := 0.0
	for _, id := range unitIDs {
		if e, ok := state.Entities.Get(id); ok {
			if d := e.Pos.Dist(center); d > max {
				max = d
			}
		}
	}
	return max
}

func averageHealthPercent(state *core.GameState, unitIDs []core.EntityID) float64 {
	sum, n := 0.0, 0
	for _, id := range unitIDs {
		if e, ok := state.Entities.Get(id); ok && e.MaxHP > 0 {
			sum += e.HP / e.MaxHP
			n++
		}
	}
	if n == 0 {
		return 1.0
	}
	return sum / float64(n)
}

// healthDropRatio returns the group's current average health fraction
// (1.0 = full), the level compared against the retreat/reinforce thresholds.
func healthDropRatio(p *Planner, g *AttackGroup) float64 {
	return g.AvgHealthPercent
}

func nearestEnemyToGroup(state *core.GameState, cache *perception.Cache, g *AttackGroup) *core.Entity {
	center := groupCenter(state, g.UnitIDs)
	var best *core.Entity
	bestD := maxSpreadThreshold
	for _, e := range cache.EnemyCombatUnits {
		if d := e.Pos.Dist(center); d <= bestD {
			best, bestD = e, d
		}
	}
	return best
}

func rallyPointBetween(base core.Vector, cfg core.WorldConfig) *core.Vector {
	mapCenter := core.Vector{X: cfg.Width / 2, Y: cfg.Height / 2}
	mid := base.Add(mapCenter).Scale(0.5)
	return &mid
}

func vecPtr(v core.Vector) *core.Vector { return &v }

func mustPos(state *core.GameState, id core.EntityID, fallback core.Vector) core.Vector {
	if e, ok := state.Entities.Get(id); ok {
		return e.Pos
	}
	return fallback
}
