package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogUnitLookups(t *testing.T) {
	c := Default()

	tank, ok := c.Unit("tank")
	require.True(t, ok)
	assert.Equal(t, []string{"war_factory"}, tank.Prereqs)
	assert.Equal(t, ArmorHeavy, tank.Armor)

	_, ok = c.Unit("does_not_exist")
	assert.False(t, ok)
}

func TestDefaultCatalogBuildingProductionWiring(t *testing.T) {
	c := Default()

	barracks, ok := c.Building("barracks")
	require.True(t, ok)
	assert.Contains(t, barracks.CanProduce, "rifleman")
	assert.Contains(t, barracks.CanProduce, "engineer")

	producers := c.ProductionBuildings("vehicle")
	assert.Contains(t, producers, "war_factory")
	assert.NotContains(t, producers, "barracks")
}

func TestDefaultCatalogDamageModifierFallsBackToOne(t *testing.T) {
	c := Default()

	assert.InDelta(t, 0.3, c.DamageModifier("rifle", ArmorBuilding), 1e-9)
	assert.InDelta(t, 1.0, c.DamageModifier("unknown_weapon", ArmorHeavy), 1e-9)
}

func TestDefaultCatalogWeaponArchetypeOf(t *testing.T) {
	c := Default()
	assert.Equal(t, ArchetypeRocket, c.WeaponArchetypeOf("rocket"))
	assert.Equal(t, ArchetypeHitscan, c.WeaponArchetypeOf("no_such_weapon"))
}

func TestDefaultCatalogDefensiveBuildingsGetRepairDefaults(t *testing.T) {
	c := Default()

	turret, ok := c.Building("gun_turret")
	require.True(t, ok)
	assert.Equal(t, 300, turret.RepairDuration)
	assert.InDelta(t, 0.2, turret.RepairCostPercentage, 1e-9)

	refinery, ok := c.Building("refinery")
	require.True(t, ok)
	assert.Equal(t, 400, refinery.RepairDuration)
	assert.InDelta(t, 0.15, refinery.RepairCostPercentage, 1e-9)
}

func TestDefaultCatalogWellsAndEconomyRules(t *testing.T) {
	c := Default()
	assert.Equal(t, 180.0, c.Wells().SpawnRadius)
	assert.Equal(t, 800.0, c.Economy().RefineryOreQueryRadius)
}
