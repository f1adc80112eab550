package reducer

import (
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/rules"
)

// fakeCatalog is a small, hand-authored rules.Catalog used by the scenario
// and invariant tests so each test controls exact costs/build times/HP
// instead of depending on rules.Default()'s tuning.
type fakeCatalog struct {
	units     map[string]rules.UnitDef
	buildings map[string]rules.BuildingDef
	damageMod map[string]map[rules.ArmorType]float64
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		units:     make(map[string]rules.UnitDef),
		buildings: make(map[string]rules.BuildingDef),
		damageMod: make(map[string]map[rules.ArmorType]float64),
	}
}

func (c *fakeCatalog) Unit(key string) (rules.UnitDef, bool) {
	d, ok := c.units[key]
	return d, ok
}

func (c *fakeCatalog) Building(key string) (rules.BuildingDef, bool) {
	d, ok := c.buildings[key]
	return d, ok
}

func (c *fakeCatalog) ProductionBuildings(category string) []string {
	var out []string
	for key, b := range c.buildings {
		for _, u := range b.CanProduce {
			if ud, ok := c.units[u]; ok && ud.Category == category {
				out = append(out, key)
				break
			}
		}
	}
	return out
}

func (c *fakeCatalog) DamageModifier(weaponType string, armor rules.ArmorType) float64 {
	if byArmor, ok := c.damageMod[weaponType]; ok {
		if m, ok := byArmor[armor]; ok {
			return m
		}
	}
	return 1.0
}

func (c *fakeCatalog) WeaponArchetypeOf(weaponType string) rules.WeaponArchetype {
	for _, u := range c.units {
		if u.Weapon != nil && u.Weapon.WeaponType == weaponType {
			return u.Weapon.Archetype
		}
	}
	return rules.ArchetypeHitscan
}

func (c *fakeCatalog) ArcHeightFactor(rules.WeaponArchetype) float64 { return 0 }

func (c *fakeCatalog) Wells() rules.WellRules {
	return rules.WellRules{
		SpawnRadius: 180, MaxNearbyOre: 6,
		SpawnRateMinTicks: 200, SpawnRateMaxTicks: 400,
		SpawnAttempts: 8, OreHealRate: 0.5, OreMaxHP: 500,
	}
}

func (c *fakeCatalog) Economy() rules.EconomyRules {
	return rules.EconomyRules{
		HarvesterDockTolerance: 12, HarvestTolerance: 10,
		HarvesterCongestionCap: 2, RefineryOreQueryRadius: 800,
		SellBuildingReturnPercentage: 0.4,
	}
}

// testCatalog returns a catalog with the small roster the scenario tests
// share: a fast-training soldier/engineer from a barracks, a harvester
// tuned to exhaust a small ore patch in a handful of ticks, a demo truck,
// and an inert heavy "dummy" target unit.
func testCatalog() *fakeCatalog {
	c := newFakeCatalog()

	c.units["soldier"] = rules.UnitDef{
		Key: "soldier", Category: "infantry", Cost: 100, BuildTime: 10,
		HP: 50, Speed: 30, Radius: 8, Armor: rules.ArmorLight,
	}
	c.units["engineer"] = rules.UnitDef{
		Key: "engineer", Category: "infantry", Cost: 100, BuildTime: 10,
		HP: 80, Speed: 40, Radius: 8, Armor: rules.ArmorNone,
		IsEngineer: true, RepairRate: 2,
	}
	c.units["harvester"] = rules.UnitDef{
		Key: "harvester", Category: "vehicle", Cost: 500, BuildTime: 50,
		HP: 200, Speed: 25, Radius: 4, Armor: rules.ArmorMedium,
		IsHarvester: true, HarvestRate: 5, CargoCap: 6,
	}
	c.units["demo_truck"] = rules.UnitDef{
		Key: "demo_truck", Category: "vehicle", Cost: 100, BuildTime: 10,
		HP: 200, Speed: 28, Radius: 10, Armor: rules.ArmorMedium,
		IsDemoTruck: true, DemolitionRadius: 140, DemolitionDamage: 500,
	}
	c.units["dummy"] = rules.UnitDef{
		Key: "dummy", Category: "vehicle", Cost: 100, BuildTime: 10,
		HP: 1000, Speed: 0, Radius: 10, Armor: rules.ArmorNone,
	}

	c.buildings["barracks"] = rules.BuildingDef{
		Key: "barracks", Cost: 500, BuildTime: 100, HP: 500,
		SizeX: 2, SizeY: 2, CanProduce: []string{"soldier", "engineer"}, Sellable: true,
	}
	c.buildings["refinery"] = rules.BuildingDef{
		Key: "refinery", Cost: 2000, BuildTime: 450, HP: 900,
		SizeX: 1, SizeY: 1, Sellable: true,
	}
	c.buildings["construction_yard"] = rules.BuildingDef{
		Key: "construction_yard", Cost: 0, BuildTime: 0, HP: 1000,
		SizeX: 3, SizeY: 3, IsConYard: true, Sellable: true,
	}

	c.damageMod["demo"] = map[rules.ArmorType]float64{
		rules.ArmorNone: 1.0, rules.ArmorLight: 1.0, rules.ArmorMedium: 1.0,
		rules.ArmorHeavy: 1.0, rules.ArmorBuilding: 1.0,
	}

	return c
}

func newTestContext(catalog rules.Catalog) *Context {
	return NewContext(catalog, 1, core.WorldConfig{Width: 4000, Height: 4000}, nil)
}

func newTestState(players ...*core.PlayerState) *core.GameState {
	return &core.GameState{
		Running:  true,
		Mode:     core.ModePlaying,
		Entities: core.NewEntityStore(),
		Players:  players,
		Config:   core.WorldConfig{Width: 4000, Height: 4000},
	}
}

// runTicks advances state n times with no actions, returning the final
// state (Tick mutates ctx's spatial/path scratch state but never state
// outside the returned GameState).
func runTicks(state *core.GameState, ctx *Context, n int) *core.GameState {
	for i := 0; i < n; i++ {
		state = Tick(state, nil, ctx)
	}
	return state
}
