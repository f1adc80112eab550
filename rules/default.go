package rules

// Default builds an in-memory starter tech tree, generalizing the
// teacher's NewTechTree() to carry the full per-key record (production
// category, weapon archetype, splash, damage modifiers) this engine's
// reducer needs that the teacher's simplified UnitDef/BuildingDef did not.
func Default() Catalog {
	doc := catalogDoc{
		Units:     make(map[string]UnitDef),
		Buildings: make(map[string]BuildingDef),
		DamageModifiers: map[string]map[ArmorType]float64{
			"rifle": {ArmorNone: 1.2, ArmorLight: 1.0, ArmorMedium: 0.7, ArmorHeavy: 0.4, ArmorBuilding: 0.3},
			"cannon": {ArmorNone: 1.0, ArmorLight: 1.1, ArmorMedium: 1.0, ArmorHeavy: 1.2, ArmorBuilding: 1.3},
			"rocket": {ArmorNone: 0.8, ArmorLight: 1.0, ArmorMedium: 1.1, ArmorHeavy: 1.3, ArmorBuilding: 1.4},
			"aa":     {ArmorNone: 1.0, ArmorLight: 1.0, ArmorMedium: 1.0, ArmorHeavy: 1.0, ArmorBuilding: 0.1},
			"demo":   {ArmorNone: 1.0, ArmorLight: 1.0, ArmorMedium: 1.0, ArmorHeavy: 1.0, ArmorBuilding: 1.5},
		},
		ArcHeightFactors: map[WeaponArchetype]float64{
			ArchetypeArtillery: 0.35,
			ArchetypeBallistic: 0.2,
			ArchetypeGrenade:   0.15,
		},
		Wells: WellRules{
			SpawnRadius:       180,
			MaxNearbyOre:      6,
			SpawnRateMinTicks: 200,
			SpawnRateMaxTicks: 400,
			SpawnAttempts:     8,
			OreHealRate:       0.5,
			OreMaxHP:          500,
		},
		Economy: EconomyRules{
			HarvesterDockTolerance:       12,
			HarvestTolerance:             10,
			HarvesterCongestionCap:       2,
			RefineryOreQueryRadius:       800,
			SellBuildingReturnPercentage: 0.5,
		},
	}

	doc.Units["rifleman"] = UnitDef{
		Key: "rifleman", Category: "infantry", Cost: 150, BuildTime: 60,
		HP: 125, Speed: 45, Radius: 8, Armor: ArmorLight, Vision: 180,
		Weapon: &WeaponDef{Damage: 15, Range: 120, Cooldown: 20, WeaponType: "rifle", Archetype: ArchetypeHitscan, TargetsGround: true},
	}
	doc.Units["grenadier"] = UnitDef{
		Key: "grenadier", Category: "infantry", Cost: 250, BuildTime: 80,
		HP: 100, Speed: 42, Radius: 8, Armor: ArmorNone, Vision: 170,
		Weapon: &WeaponDef{Damage: 30, Range: 100, Cooldown: 40, Splash: 30, WeaponType: "demo", Archetype: ArchetypeGrenade, TargetsGround: true},
	}
	doc.Units["engineer"] = UnitDef{
		Key: "engineer", Category: "infantry", Cost: 300, BuildTime: 70,
		HP: 80, Speed: 40, Radius: 8, Armor: ArmorNone, Vision: 150,
		IsEngineer: true, RepairRate: 2.0,
		Prereqs: []string{"barracks"},
	}
	doc.Units["tank"] = UnitDef{
		Key: "tank", Category: "vehicle", Cost: 700, BuildTime: 160,
		HP: 400, Speed: 30, Radius: 14, Armor: ArmorHeavy, Vision: 200,
		Weapon:  &WeaponDef{Damage: 75, Range: 140, Cooldown: 45, WeaponType: "cannon", Archetype: ArchetypeHitscan, TargetsGround: true},
		Prereqs: []string{"war_factory"},
	}
	doc.Units["rocket_buggy"] = UnitDef{
		Key: "rocket_buggy", Category: "vehicle", Cost: 600, BuildTime: 140,
		HP: 220, Speed: 50, Radius: 12, Armor: ArmorMedium, Vision: 220,
		Weapon: &WeaponDef{
			Damage: 60, Range: 220, Cooldown: 55, Splash: 20,
			WeaponType: "rocket", Archetype: ArchetypeRocket, CanAttackWhileMoving: true,
			TargetsGround: true, TargetsAir: true,
		},
		Prereqs: []string{"war_factory"},
	}
	doc.Units["harvester"] = UnitDef{
		Key: "harvester", Category: "vehicle", Cost: 1400, BuildTime: 240,
		HP: 600, Speed: 25, Radius: 16, Armor: ArmorHeavy, Vision: 140,
		IsHarvester: true, HarvestRate: 6, CargoCap: 700,
	}
	doc.Units["demo_truck"] = UnitDef{
		Key: "demo_truck", Category: "vehicle", Cost: 1200, BuildTime: 200,
		HP: 300, Speed: 28, Radius: 14, Armor: ArmorMedium, Vision: 140,
		IsDemoTruck: true, DemolitionRadius: 140, DemolitionDamage: 500,
		Prereqs: []string{"war_factory"},
	}
	doc.Units["mcv"] = UnitDef{
		Key: "mcv", Category: "vehicle", Cost: 3000, BuildTime: 400,
		HP: 1000, Speed: 16, Radius: 20, Armor: ArmorHeavy, Vision: 200,
		IsMCV: true, Prereqs: []string{"war_factory"},
	}
	doc.Units["harrier"] = UnitDef{
		Key: "harrier", Category: "air", Cost: 1500, BuildTime: 220,
		HP: 150, Speed: 90, Radius: 10, Armor: ArmorLight, Vision: 260,
		IsAirUnit: true, MaxAmmo: 3,
		Weapon:  &WeaponDef{Damage: 100, Range: 60, Cooldown: 30, WeaponType: "rocket", Archetype: ArchetypeMissile, TargetsGround: true},
		Prereqs: []string{"airbase"},
	}

	doc.Buildings["construction_yard"] = BuildingDef{
		Key: "construction_yard", Cost: 0, BuildTime: 0, HP: 1000,
		SizeX: 3, SizeY: 3, IsConYard: true, Sellable: true,
	}
	doc.Buildings["power_plant"] = BuildingDef{
		Key: "power_plant", Cost: 800, BuildTime: 300, HP: 750,
		SizeX: 2, SizeY: 2, PowerGen: 100, Prereqs: []string{"construction_yard"}, Sellable: true,
	}
	doc.Buildings["barracks"] = BuildingDef{
		Key: "barracks", Cost: 500, BuildTime: 240, HP: 500,
		SizeX: 2, SizeY: 2, PowerDraw: 20, Prereqs: []string{"power_plant"},
		CanProduce: []string{"rifleman", "grenadier", "engineer"}, Sellable: true,
	}
	doc.Buildings["refinery"] = BuildingDef{
		Key: "refinery", Cost: 2000, BuildTime: 450, HP: 900,
		SizeX: 3, SizeY: 3, PowerDraw: 30, Prereqs: []string{"power_plant"}, Sellable: true,
	}
	doc.Buildings["war_factory"] = BuildingDef{
		Key: "war_factory", Cost: 2000, BuildTime: 450, HP: 1000,
		SizeX: 3, SizeY: 3, PowerDraw: 50, Prereqs: []string{"refinery"},
		CanProduce: []string{"tank", "rocket_buggy", "harvester", "demo_truck", "mcv"}, Sellable: true,
	}
	doc.Buildings["airbase"] = BuildingDef{
		Key: "airbase", Cost: 1800, BuildTime: 420, HP: 700,
		SizeX: 3, SizeY: 2, PowerDraw: 40, Prereqs: []string{"war_factory"},
		CanProduce: []string{"harrier"}, Sellable: true,
	}
	doc.Buildings["gun_turret"] = BuildingDef{
		Key: "gun_turret", Cost: 600, BuildTime: 200, HP: 400,
		SizeX: 1, SizeY: 1, PowerDraw: 10, Prereqs: []string{"barracks"},
		IsDefense: true, Sellable: true,
		Weapon: &WeaponDef{Damage: 50, Range: 180, Cooldown: 30, WeaponType: "cannon", Archetype: ArchetypeHitscan, TargetsGround: true},
		RepairCostPercentage: 0.2, RepairDuration: 300,
	}
	doc.Buildings["sam_site"] = BuildingDef{
		Key: "sam_site", Cost: 750, BuildTime: 220, HP: 350,
		SizeX: 1, SizeY: 1, PowerDraw: 15, Prereqs: []string{"barracks"},
		IsDefense: true, Sellable: true, PrefersAirTargets: true,
		Weapon: &WeaponDef{Damage: 80, Range: 220, Cooldown: 40, WeaponType: "aa", Archetype: ArchetypeMissile, TargetsAir: true},
		RepairCostPercentage: 0.2, RepairDuration: 300,
	}

	for key, b := range doc.Buildings {
		if b.IsDefense && b.RepairDuration == 0 {
			b.RepairDuration = 300
			b.RepairCostPercentage = 0.2
			doc.Buildings[key] = b
		}
	}
	for key, b := range doc.Buildings {
		if !b.IsDefense && b.RepairDuration == 0 {
			b.RepairDuration = 400
			b.RepairCostPercentage = 0.15
			doc.Buildings[key] = b
		}
	}

	return &catalog{doc: doc}
}
