// Package ai implements the automated-player controller: a per-player
// Planner that runs the strategy FSM on a staggered schedule and a set of
// action modules (economy, placement, attack groups, micro, ...) it fans
// out to every think-tick. Generalizes the teacher's flat
// engine/ai/ai.go AIController.Think (one build order, one attack-wave
// timer) into the fuller FSM + module-fan-out shape this engine needs.
package ai

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/config"
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/logging"
	"github.com/skirmish-engine/core/perception"
	"github.com/skirmish-engine/core/rules"
)

// Strategy is one state of the planner's top-level FSM.
type Strategy int

const (
	StrategyBuildup Strategy = iota
	StrategyDefend
	StrategyAttack
	StrategyHarass
	StrategyAllIn
)

func (s Strategy) String() string {
	switch s {
	case StrategyDefend:
		return "defend"
	case StrategyAttack:
		return "attack"
	case StrategyHarass:
		return "harass"
	case StrategyAllIn:
		return "all_in"
	default:
		return "buildup"
	}
}

// plannerStaggerN is the schedule period of spec.md §4.8: an automated
// player runs its full plan on ticks where tick mod N == playerId mod N.
const plannerStaggerN = 4

// strategyCooldownTicks gates how often the top-level FSM may transition,
// preventing strategy flip-flop.
const strategyCooldownTicks = 150

// EnemyIntel is what a Planner remembers about one opponent from its last
// full think-tick: unit/building counts and the dominant armor class
// among all its units, used by target scoring and rush/boom detection.
type EnemyIntel struct {
	UnitCount      int
	CombatUnits    int
	BuildingCount  int
	DefenseCount   int
	DominantArmor  rules.ArmorType
	HasRefinery    bool
	LastSeenTick   int
}

// dangerCell keys the decayed danger map (hard difficulty only):
// world-space positions bucketed to a coarse grid where harvesters came
// under fire or fled. Harvester deaths themselves are not recorded.
type dangerCell struct{ X, Y int }

const dangerCellSize = 96.0

// Planner is the persistent per-automated-player AI state the reducer's
// caller drives once per tick. It returns an action batch for the caller
// to append to the next Tick's action stream (spec.md §5 "Shared resource
// policy"); the one write it makes to core.GameState directly is setting
// Harvester.ManualMode on a harvester it orders to flee (harvestersafety.go).
type Planner struct {
	PlayerID    int
	Difficulty  core.Difficulty
	Personality config.Personality

	Strategy           Strategy
	lastTransitionTick int

	BaseCenter        core.Vector
	EnemyBaseLocation *core.Vector
	EnemyIntel        map[int]*EnemyIntel
	Vengeance         map[int]float64

	Groups      []*AttackGroup
	nextGroupID int

	DangerMap map[dangerCell]float64

	lastScoutTick int
	scoutCorner   int

	conYardKey string
}

// NewPlanner constructs an idle planner in the buildup strategy.
func NewPlanner(playerID int, difficulty core.Difficulty, personality config.Personality) *Planner {
	return &Planner{
		PlayerID:    playerID,
		Difficulty:  difficulty,
		Personality: personality,
		Strategy:    StrategyBuildup,
		EnemyIntel:  make(map[int]*EnemyIntel),
		Vengeance:   make(map[int]float64),
		DangerMap:   make(map[dangerCell]float64),
		conYardKey:  "construction_yard",
	}
}

// Think runs the planner for one tick: critical reactions (harvester
// safety, defense, micro) always run; the full plan (strategy FSM,
// economy, placement, groups, ...) runs only on this player's staggered
// tick, per spec.md §4.8 and §5 "Suspension / blocking".
func (p *Planner) Think(state *core.GameState, catalog rules.Catalog, log *logrus.Logger) []action.Action {
	if p.Difficulty == core.DifficultyDummy {
		return nil
	}
	cache := perception.Build(state.Entities, p.PlayerID)

	var actions []action.Action
	actions = append(actions, harvesterSafetyActions(p, state, cache, catalog)...)
	actions = append(actions, defenseActions(p, state, cache, catalog)...)
	actions = append(actions, microActions(p, state, cache, catalog)...)

	if state.Tick%plannerStaggerN != p.PlayerID%plannerStaggerN {
		return actions
	}

	p.updateBaseCenter(cache, catalog)
	p.updateEnemyIntel(state, cache, catalog)
	p.decayVengeance()
	threats := p.detectThreats(state, cache, catalog)
	p.runStrategyFSM(state, cache, threats, log)
	p.detectRushBoom(state, cache)

	actions = append(actions, economyActions(p, state, cache, catalog)...)
	actions = append(actions, placementActions(p, state, cache, catalog)...)
	actions = append(actions, sellingActions(p, state, cache, catalog)...)
	actions = append(actions, mcvActions(p, state, cache, catalog)...)
	actions = append(actions, harvesterGatherActions(p, state, cache, catalog)...)
	actions = append(actions, attackGroupActions(p, state, cache, catalog)...)
	actions = append(actions, harassActions(p, state, cache, catalog)...)
	actions = append(actions, rallyActions(p, state, cache)...)
	actions = append(actions, scoutingActions(p, state, cache, catalog)...)
	actions = append(actions, specialOpsActions(p, state, cache, catalog)...)
	actions = append(actions, harvesterSuicideActions(p, state, cache, catalog)...)
	actions = append(actions, unitRepairActions(p, state, cache, catalog)...)

	return actions
}

// updateBaseCenter recomputes baseCenter per spec.md §4.8 step 2:
// construction yard position, else the centroid of owned buildings; with
// no buildings left it keeps its previous value (the zero vector if no
// base was ever seen).
func (p *Planner) updateBaseCenter(cache *perception.Cache, catalog rules.Catalog) {
	if cy := cache.ConYard(p.conYardKey); cy != nil {
		p.BaseCenter = cy.Pos
		return
	}
	if len(cache.OwnBuildings) == 0 {
		return
	}
	var sum core.Vector
	for _, b := range cache.OwnBuildings {
		sum = sum.Add(b.Pos)
	}
	p.BaseCenter = sum.Scale(1.0 / float64(len(cache.OwnBuildings)))
}

// updateEnemyIntel refreshes per-owner unit/building counts and dominant
// armor class for every enemy owner currently visible, per spec.md §4.8
// step 3.
func (p *Planner) updateEnemyIntel(state *core.GameState, cache *perception.Cache, catalog rules.Catalog) {
	for _, owner := range cache.EnemyOwners() {
		intel := p.EnemyIntel[owner]
		if intel == nil {
			intel = &EnemyIntel{}
			p.EnemyIntel[owner] = intel
		}
		intel.LastSeenTick = state.Tick

		units := cache.ByOwnerUnits[owner]
		buildings := cache.ByOwnerBuildings[owner]
		intel.UnitCount = len(units)
		intel.BuildingCount = len(buildings)
		intel.CombatUnits, intel.DefenseCount, intel.HasRefinery = 0, 0, false

		armorTally := map[rules.ArmorType]int{}
		for _, u := range units {
			if u.Combat != nil {
				intel.CombatUnits++
			}
			if udef, ok := catalog.Unit(u.Key); ok {
				armorTally[udef.Armor]++
			}
		}
		for _, b := range buildings {
			if bdef, ok := catalog.Building(b.Key); ok {
				if bdef.IsDefense {
					intel.DefenseCount++
				}
			}
			if b.Key == "refinery" {
				intel.HasRefinery = true
			}
		}
		intel.DominantArmor = rules.ArmorNone
		best := 0
		for armor, n := range armorTally {
			if n > best {
				best, intel.DominantArmor = n, armor
			}
		}

		if p.EnemyBaseLocation == nil && len(buildings) > 0 {
			loc := buildings[0].Pos
			p.EnemyBaseLocation = &loc
		}
	}
}

// vengeanceDecay is the per-think-tick exponential decay applied to
// every owner's accumulated vengeance score.
const vengeanceDecay = 0.92

func (p *Planner) decayVengeance() {
	for owner := range p.Vengeance {
		p.Vengeance[owner] *= vengeanceDecay
		if p.Vengeance[owner] < 0.01 {
			delete(p.Vengeance, owner)
		}
	}
}

// addVengeance accumulates vengeance toward owner. Its only caller is
// detectRushBoom; damage taken by friendly units (Combat.LastAttackerID)
// does not add vengeance.
func (p *Planner) addVengeance(owner int, amount float64) {
	p.Vengeance[owner] += amount
}

// recordDanger records pos, where a harvester is under fire or fleeing,
// into the decayed danger map (hard difficulty only, spec.md §4.9
// "harvester gathering").
func (p *Planner) recordDanger(pos core.Vector) {
	if p.Difficulty != core.DifficultyHard {
		return
	}
	key := dangerCell{X: int(pos.X / dangerCellSize), Y: int(pos.Y / dangerCellSize)}
	p.DangerMap[key] += 1.0
}

const dangerDecay = 0.995

func (p *Planner) dangerAt(pos core.Vector) float64 {
	key := dangerCell{X: int(pos.X / dangerCellSize), Y: int(pos.Y / dangerCellSize)}
	return p.DangerMap[key]
}

func (p *Planner) decayDangerMap() {
	for k, v := range p.DangerMap {
		v *= dangerDecay
		if v < 0.01 {
			delete(p.DangerMap, k)
			continue
		}
		p.DangerMap[k] = v
	}
}

// threatReport is the output of detectThreats (spec.md §4.8 step 4).
type threatReport struct {
	baseThreatened     bool
	nearestThreatDist  float64
	harvestersUnderFire []core.EntityID
}

const baseDefenseRadius = 400.0
const threatDetectionRadius = 260.0

func (p *Planner) detectThreats(state *core.GameState, cache *perception.Cache, catalog rules.Catalog) threatReport {
	report := threatReport{nearestThreatDist: -1}

	for _, e := range cache.EnemyCombatUnits {
		d := e.Pos.Dist(p.BaseCenter)
		if d <= baseDefenseRadius {
			report.baseThreatened = true
			if report.nearestThreatDist < 0 || d < report.nearestThreatDist {
				report.nearestThreatDist = d
			}
		}
		for _, b := range cache.OwnBuildings {
			if e.Pos.Dist(b.Pos) <= threatDetectionRadius {
				report.baseThreatened = true
				break
			}
		}
	}

	for _, h := range cache.OwnHarvesters {
		underFire := h.Combat != nil && state.Tick-h.Combat.LastDamageTick < 60
		if !underFire {
			for _, e := range cache.EnemyCombatUnits {
				if h.Pos.Dist(e.Pos) <= threatDetectionRadius {
					underFire = true
					break
				}
			}
		}
		if underFire {
			report.harvestersUnderFire = append(report.harvestersUnderFire, h.ID)
			p.recordDanger(h.Pos)
		}
	}
	p.decayDangerMap()

	return report
}

const rushDetectMinTick = 600
const rushDetectMinCombatUnits = 3

// detectRushBoom is spec.md §4.8 step 6: after a warm-up period and a
// minimum own combat-unit count, score each enemy as a rush/boom target
// and, on a clear winner, force the attack strategy and seed
// enemyBaseLocation, boosting vengeance toward that owner.
func (p *Planner) detectRushBoom(state *core.GameState, cache *perception.Cache) {
	if state.Tick < rushDetectMinTick || len(cache.OwnCombatUnits) < rushDetectMinCombatUnits {
		return
	}

	type candidate struct {
		owner int
		score float64
	}
	var best *candidate
	owners := make([]int, 0, len(p.EnemyIntel))
	for owner := range p.EnemyIntel {
		owners = append(owners, owner)
	}
	sort.Ints(owners)

	for _, owner := range owners {
		intel := p.EnemyIntel[owner]
		score := 0.0
		if intel.CombatUnits == 0 && intel.DefenseCount == 0 {
			score += 3.0 // greediness
		}
		if intel.DefenseCount == 0 && intel.HasRefinery && intel.BuildingCount >= 3 {
			score += 2.0 // low defense + booming economy
		}
		outmatch := float64(len(cache.OwnCombatUnits)) - float64(intel.CombatUnits)
		if outmatch > 0 {
			score += outmatch * 0.2
		}
		if best == nil || score > best.score {
			best = &candidate{owner, score}
		}
	}

	if best == nil || best.score < 3.0 {
		return
	}
	p.Strategy = StrategyAttack
	if intel := p.EnemyIntel[best.owner]; intel != nil {
		if b := cache.ByOwnerBuildings[best.owner]; len(b) > 0 {
			loc := b[0].Pos
			p.EnemyBaseLocation = &loc
		}
	}
	p.addVengeance(best.owner, 2.0)
}

// runStrategyFSM is spec.md §4.8 step 5: transitions gated by a cooldown,
// driven by relative army size, active threats, and economy health.
func (p *Planner) runStrategyFSM(state *core.GameState, cache *perception.Cache, threats threatReport, log *logrus.Logger) {
	if state.Tick-p.lastTransitionTick < strategyCooldownTicks {
		return
	}

	player := state.Player(p.PlayerID)
	economyHealthy := player != nil && len(cache.OwnHarvesters) > 0 && player.Credits > 500

	ownArmy := len(cache.OwnCombatUnits)
	enemyArmy := 0
	for _, intel := range p.EnemyIntel {
		enemyArmy += intel.CombatUnits
	}

	eliminatedEconomy := len(cache.OwnBuildings) == 0 && len(cache.OwnHarvesters) == 0

	next := p.Strategy
	switch {
	case eliminatedEconomy && ownArmy > 0:
		next = StrategyAllIn
	case threats.baseThreatened:
		next = StrategyDefend
	case !economyHealthy:
		next = StrategyBuildup
	case float64(ownArmy) > float64(enemyArmy)*(1.3-p.Personality.AggressionBias*0.3):
		next = StrategyAttack
	case ownArmy >= p.Personality.AttackGroupMinSize/2 && p.Personality.AggressionBias > 0.3:
		next = StrategyHarass
	default:
		next = StrategyBuildup
	}

	if next != p.Strategy {
		if log != nil {
			logging.StrategyTransition(log, state.Tick, p.PlayerID, p.Strategy.String(), next.String())
		}
		p.Strategy = next
		p.lastTransitionTick = state.Tick
	}
}
