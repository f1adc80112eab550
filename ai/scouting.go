package ai

import (
	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/perception"
	"github.com/skirmish-engine/core/rules"
)

const scoutIntervalTicks = 240
const scoutMinSpeed = 35.0

// scoutingActions is spec.md §4.9 "Scouting": sends one idle fast unit
// toward the least-visited map corner on an interval, cycling corners,
// until the enemy base is known.
func scoutingActions(p *Planner, state *core.GameState, cache *perception.Cache, catalog rules.Catalog) []action.Action {
	if p.EnemyBaseLocation != nil {
		return nil
	}
	if state.Tick-p.lastScoutTick < scoutIntervalTicks {
		return nil
	}

	var scout *core.Entity
	for _, u := range cache.Own {
		if u.Kind != core.KindUnit || u.Harvester != nil || u.Engineer != nil {
			continue
		}
		if u.Movement != nil && u.Movement.MoveTarget != nil {
			continue
		}
		udef, ok := catalog.Unit(u.Key)
		if !ok || udef.Speed < scoutMinSpeed {
			continue
		}
		scout = u
		break
	}
	if scout == nil {
		return nil
	}

	corner := mapCorner(state.Config, p.scoutCorner)
	p.scoutCorner = (p.scoutCorner + 1) % 4
	p.lastScoutTick = state.Tick

	return []action.Action{{Kind: action.CommandAttackMove, PlayerID: p.PlayerID, UnitIDs: []core.EntityID{scout.ID}, X: corner.X, Y: corner.Y}}
}

func mapCorner(cfg core.WorldConfig, i int) core.Vector {
	switch i % 4 {
	case 0:
		return core.Vector{X: 0, Y: 0}
	case 1:
		return core.Vector{X: cfg.Width, Y: 0}
	case 2:
		return core.Vector{X: cfg.Width, Y: cfg.Height}
	default:
		return core.Vector{X: 0, Y: cfg.Height}
	}
}
