// Package rules holds the external, immutable per-key data the reducer
// and AI consume but never mutate: unit/building costs and stats, damage
// modifiers, weapon archetypes, and well/economy constants. Grounded on
// the teacher's engine/systems/production.go TechTree, generalized to the
// full per-key record the reducer's production and combat phases need.
package rules

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// ArmorType is the defensive classification a unit or building carries;
// DamageModifiers is indexed by [weaponType][armorType].
type ArmorType string

const (
	ArmorNone     ArmorType = "none"
	ArmorLight    ArmorType = "light"
	ArmorMedium   ArmorType = "medium"
	ArmorHeavy    ArmorType = "heavy"
	ArmorBuilding ArmorType = "building"
)

// WeaponArchetype names the trajectory/interception family a weapon's
// projectiles follow.
type WeaponArchetype string

const (
	ArchetypeHitscan   WeaponArchetype = "hitscan"
	ArchetypeRocket    WeaponArchetype = "rocket"
	ArchetypeArtillery WeaponArchetype = "artillery"
	ArchetypeMissile   WeaponArchetype = "missile"
	ArchetypeBallistic WeaponArchetype = "ballistic"
	ArchetypeGrenade   WeaponArchetype = "grenade"
)

// WeaponDef is the weapon-level stats a unit or building's combat
// component draws its projectiles from.
type WeaponDef struct {
	Damage     float64
	Range      float64
	Cooldown   int // ticks between shots
	Splash     float64
	Archetype  WeaponArchetype
	WeaponType string // indexes DamageModifiers / ArcHeightFactor
	CanAttackWhileMoving bool
	TargetsAir    bool
	TargetsGround bool
}

// UnitDef is the immutable per-key data for a producible unit.
type UnitDef struct {
	Key       string
	Category  string // "infantry", "vehicle", "air" — indexes PlayerState queues
	Cost      int
	BuildTime int // ticks
	HP        float64
	Speed     float64
	Radius    float64
	Armor     ArmorType
	Vision    float64
	Prereqs   []string

	Weapon *WeaponDef // nil for unarmed support units (pure harvesters, MCVs)

	IsHarvester bool
	HarvestRate float64
	CargoCap    int

	IsEngineer bool
	RepairRate float64

	IsAirUnit bool
	MaxAmmo   int

	IsDemoTruck      bool
	DemolitionRadius float64
	DemolitionDamage float64

	IsMCV bool
}

// BuildingDef is the immutable per-key data for a placeable building.
type BuildingDef struct {
	Key        string
	Cost       int
	BuildTime  int
	HP         float64
	SizeX, SizeY int
	PowerGen   int
	PowerDraw  int
	Prereqs    []string
	CanProduce []string // unit keys this building can produce
	IsConYard  bool
	Sellable   bool
	IsDefense  bool
	Weapon     *WeaponDef
	PrefersAirTargets bool // SAM-style defense
	RepairCostPercentage float64
	RepairDuration       int // ticks to fully heal from 0
}

// WellRules are the constants governing resource-well ore spawning.
type WellRules struct {
	SpawnRadius     float64
	MaxNearbyOre    int
	SpawnRateMinTicks int
	SpawnRateMaxTicks int
	SpawnAttempts   int
	OreHealRate     float64
	OreMaxHP        float64
}

// EconomyRules are tuning constants the reducer and AI both read.
type EconomyRules struct {
	HarvesterDockTolerance       float64
	HarvestTolerance             float64
	HarvesterCongestionCap       int
	RefineryOreQueryRadius       float64
	SellBuildingReturnPercentage float64
}

// Catalog is the read-only interface the reducer and AI consume; never
// mutated after Load/Default returns it.
type Catalog interface {
	Unit(key string) (UnitDef, bool)
	Building(key string) (BuildingDef, bool)
	ProductionBuildings(category string) []string
	DamageModifier(weaponType string, armor ArmorType) float64
	WeaponArchetypeOf(weaponType string) WeaponArchetype
	ArcHeightFactor(archetype WeaponArchetype) float64
	Wells() WellRules
	Economy() EconomyRules
}

type catalogDoc struct {
	Units           map[string]UnitDef     `json:"units"`
	Buildings       map[string]BuildingDef `json:"buildings"`
	DamageModifiers map[string]map[ArmorType]float64 `json:"damageModifiers"`
	ArcHeightFactors map[WeaponArchetype]float64     `json:"arcHeightFactors"`
	Wells           WellRules   `json:"wells"`
	Economy         EconomyRules `json:"economy"`
}

type catalog struct {
	doc catalogDoc
}

// Load reads a JSON-encoded catalog document from path.
func Load(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "rules: open catalog %q", path)
	}
	defer f.Close()

	var doc catalogDoc
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, errors.Wrapf(err, "rules: decode catalog %q", path)
	}
	return &catalog{doc: doc}, nil
}

func (c *catalog) Unit(key string) (UnitDef, bool) {
	d, ok := c.doc.Units[key]
	return d, ok
}

func (c *catalog) Building(key string) (BuildingDef, bool) {
	d, ok := c.doc.Buildings[key]
	return d, ok
}

func (c *catalog) ProductionBuildings(category string) []string {
	var out []string
	for key, b := range c.doc.Buildings {
		if len(b.CanProduce) == 0 {
			continue
		}
		for _, u := range b.CanProduce {
			if ud, ok := c.doc.Units[u]; ok && ud.Category == category {
				out = append(out, key)
				break
			}
		}
	}
	return out
}

func (c *catalog) DamageModifier(weaponType string, armor ArmorType) float64 {
	if byArmor, ok := c.doc.DamageModifiers[weaponType]; ok {
		if m, ok := byArmor[armor]; ok {
			return m
		}
	}
	return 1.0
}

func (c *catalog) WeaponArchetypeOf(weaponType string) WeaponArchetype {
	for _, u := range c.doc.Units {
		if u.Weapon != nil && u.Weapon.WeaponType == weaponType {
			return u.Weapon.Archetype
		}
	}
	for _, b := range c.doc.Buildings {
		if b.Weapon != nil && b.Weapon.WeaponType == weaponType {
			return b.Weapon.Archetype
		}
	}
	return ArchetypeHitscan
}

func (c *catalog) ArcHeightFactor(archetype WeaponArchetype) float64 {
	if f, ok := c.doc.ArcHeightFactors[archetype]; ok {
		return f
	}
	return 0
}

func (c *catalog) Wells() WellRules       { return c.doc.Wells }
func (c *catalog) Economy() EconomyRules { return c.doc.Economy }
