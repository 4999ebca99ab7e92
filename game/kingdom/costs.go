package kingdom

import "github.com/crownworks/kingdoms-server/model"

// Starting state for a freshly registered kingdom.
var (
	startingResources = map[string]int{
		model.ResourceGold: 1000,
		model.ResourceFood: 500,
		model.ResourceIron: 200,
	}
	startingArmy = map[string]int{
		model.UnitInfantry: 30,
		model.UnitArchers:  15,
		model.UnitCavalry:  5,
	}
	startingBuildings = []string{
		model.BuildingCastle,
		model.BuildingFarm,
		model.BuildingBarracks,
	}
)

// BuildingCosts maps each building type to its full resource cost. The castle
// is free; it is normally only created at registration.
var BuildingCosts = map[string]map[string]int{
	model.BuildingCastle: {},
	model.BuildingFarm: {
		model.ResourceGold: 100,
		model.ResourceIron: 20,
	},
	model.BuildingBarracks: {
		model.ResourceGold: 150,
		model.ResourceIron: 50,
	},
	model.BuildingMine: {
		model.ResourceGold: 200,
		model.ResourceFood: 50,
	},
	model.BuildingMarket: {
		model.ResourceGold: 250,
		model.ResourceIron: 30,
	},
	model.BuildingWall: {
		model.ResourceGold: 300,
		model.ResourceIron: 100,
	},
	model.BuildingWatchtower: {
		model.ResourceGold: 200,
		model.ResourceIron: 80,
	},
	model.BuildingStable: {
		model.ResourceGold: 180,
		model.ResourceFood: 100,
	},
	model.BuildingGranary: {
		model.ResourceGold: 120,
		model.ResourceIron: 40,
	},
}

// UnitCosts maps each unit type to its per-unit training cost.
var UnitCosts = map[string]map[string]int{
	model.UnitInfantry: {
		model.ResourceGold: 50,
		model.ResourceFood: 20,
	},
	model.UnitArchers: {
		model.ResourceGold: 80,
		model.ResourceFood: 25,
		model.ResourceIron: 10,
	},
	model.UnitCavalry: {
		model.ResourceGold: 150,
		model.ResourceFood: 50,
		model.ResourceIron: 30,
	},
}

// productionRule is one building type's per-tick output.
type productionRule struct {
	Resource string
	Base     int // per level
}

// ProductionRules maps producing building types to their output. Types not
// listed produce nothing.
var ProductionRules = map[string]productionRule{
	model.BuildingFarm:   {Resource: model.ResourceFood, Base: 10},
	model.BuildingMine:   {Resource: model.ResourceIron, Base: 5},
	model.BuildingMarket: {Resource: model.ResourceGold, Base: 8},
}

// banners a new kingdom picks from at random.
var banners = []string{"🦁", "🐺", "🦅", "🐉", "🐻", "🦊"}

// buildingScoreWeight is the per-building bonus in the leaderboard score.
const buildingScoreWeight = 50
