// Package perception builds, once per tick per automated player, a set
// of owner/type-partitioned views over the live entity store so AI
// modules get O(1) lookups instead of re-scanning all entities. New
// module grounded on spec.md §4.8.1; no teacher equivalent (its AI scans
// w.Query(...) directly every call).
package perception

import (
	"sort"

	"github.com/samber/lo"

	"github.com/skirmish-engine/core/core"
)

// Cache is the per-tick, per-viewing-player derived view over the
// EntityStore: everything an AI module needs without re-filtering the
// whole store.
type Cache struct {
	Viewer int

	Own     []*core.Entity
	Enemy   []*core.Entity
	Neutral []*core.Entity

	OwnByKind   map[core.Kind][]*core.Entity
	EnemyByKind map[core.Kind][]*core.Entity

	OwnCombatUnits  []*core.Entity
	EnemyCombatUnits []*core.Entity

	OwnBuildings   []*core.Entity
	EnemyBuildings []*core.Entity

	OwnHarvesters []*core.Entity

	// ByOwnerBuildings indexes every player's buildings by owner id, used
	// for enemy-intelligence scans across all opponents at once.
	ByOwnerBuildings map[int][]*core.Entity
	ByOwnerUnits     map[int][]*core.Entity
}

// Build partitions every live entity relative to viewer. Single pass,
// O(n), per spec.md §4.8 step 1.
func Build(store *core.EntityStore, viewer int) *Cache {
	all := store.All()

	c := &Cache{
		Viewer:           viewer,
		OwnByKind:        make(map[core.Kind][]*core.Entity),
		EnemyByKind:      make(map[core.Kind][]*core.Entity),
		ByOwnerBuildings: make(map[int][]*core.Entity),
		ByOwnerUnits:     make(map[int][]*core.Entity),
	}

	for _, e := range all {
		if e.Dead {
			continue
		}
		switch {
		case e.Owner == viewer:
			c.Own = append(c.Own, e)
			c.OwnByKind[e.Kind] = append(c.OwnByKind[e.Kind], e)
		case e.Owner < 0:
			c.Neutral = append(c.Neutral, e)
		default:
			c.Enemy = append(c.Enemy, e)
			c.EnemyByKind[e.Kind] = append(c.EnemyByKind[e.Kind], e)
		}

		if e.Kind == core.KindBuilding {
			c.ByOwnerBuildings[e.Owner] = append(c.ByOwnerBuildings[e.Owner], e)
		} else if e.Kind == core.KindUnit {
			c.ByOwnerUnits[e.Owner] = append(c.ByOwnerUnits[e.Owner], e)
		}
	}

	c.OwnCombatUnits = lo.Filter(c.OwnByKind[core.KindUnit], func(e *core.Entity, _ int) bool {
		return e.Combat != nil
	})
	c.EnemyCombatUnits = lo.Filter(c.EnemyByKind[core.KindUnit], func(e *core.Entity, _ int) bool {
		return e.Combat != nil
	})
	c.OwnBuildings = c.OwnByKind[core.KindBuilding]
	c.EnemyBuildings = c.EnemyByKind[core.KindBuilding]
	c.OwnHarvesters = lo.Filter(c.OwnByKind[core.KindUnit], func(e *core.Entity, _ int) bool {
		return e.Harvester != nil
	})

	sortByID(c.Own)
	sortByID(c.Enemy)
	sortByID(c.Neutral)
	sortByID(c.OwnCombatUnits)
	sortByID(c.EnemyCombatUnits)
	sortByID(c.OwnBuildings)
	sortByID(c.EnemyBuildings)
	sortByID(c.OwnHarvesters)

	return c
}

func sortByID(es []*core.Entity) {
	sort.Slice(es, func(i, j int) bool {
		if es[i].ID.Index != es[j].ID.Index {
			return es[i].ID.Index < es[j].ID.Index
		}
		return es[i].ID.Generation < es[j].ID.Generation
	})
}

// EnemyOwners returns the distinct owner ids present among enemy
// entities, stable-sorted, for scanning "each enemy" per spec.md §4.8
// step 3 and §4.8 step 6 (rush/boom detection).
func (c *Cache) EnemyOwners() []int {
	owners := lo.Uniq(lo.Map(c.Enemy, func(e *core.Entity, _ int) int { return e.Owner }))
	sort.Ints(owners)
	return owners
}

// ConYard returns the viewer's construction yard, if any is alive. conYardKey
// is the catalog key marking a building as a construction yard (callers
// pass rules.Catalog.Building(key).IsConYard's key, since Entity only
// stores the catalog key, not catalog-level flags).
func (c *Cache) ConYard(conYardKey string) *core.Entity {
	for _, b := range c.OwnBuildings {
		if b.Key == conYardKey {
			return b
		}
	}
	return nil
}
