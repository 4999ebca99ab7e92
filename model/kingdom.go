package model

import "time"

// Resource kinds.
const (
	ResourceGold = "gold"
	ResourceFood = "food"
	ResourceIron = "iron"
)

// Resources lists every resource kind in a fixed order.
var Resources = []string{ResourceGold, ResourceFood, ResourceIron}

// Unit kinds.
const (
	UnitInfantry = "infantry"
	UnitArchers  = "archers"
	UnitCavalry  = "cavalry"
)

// Units lists every unit kind in a fixed order.
var Units = []string{UnitInfantry, UnitArchers, UnitCavalry}

// Building types.
const (
	BuildingCastle     = "castle"
	BuildingFarm       = "farm"
	BuildingBarracks   = "barracks"
	BuildingMine       = "mine"
	BuildingMarket     = "market"
	BuildingWall       = "wall"
	BuildingWatchtower = "watchtower"
	BuildingStable     = "stable"
	BuildingGranary    = "granary"
)

// Position is a fixed world-map coordinate assigned at kingdom creation.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Building is one constructed building. Buildings are append-only; new
// constructions start at level 1.
type Building struct {
	Type  string `json:"type"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Level int    `json:"level"`
}

// Kingdom is a player's owned economic and military entity. ID equals the
// owning user's ID; there is exactly one kingdom per user.
type Kingdom struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Owner      string         `json:"owner"`
	Level      int            `json:"level"`
	XP         int64          `json:"xp"`
	Resources  map[string]int `json:"resources"`
	Army       map[string]int `json:"army"`
	Buildings  []Building     `json:"buildings"`
	Banner     string         `json:"banner"`
	AllianceID string         `json:"alliance_id,omitempty"`
	Position   Position       `json:"position"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Clone returns a deep copy of the kingdom.
func (k *Kingdom) Clone() *Kingdom {
	cp := *k
	cp.Resources = make(map[string]int, len(k.Resources))
	for r, v := range k.Resources {
		cp.Resources[r] = v
	}
	cp.Army = make(map[string]int, len(k.Army))
	for u, v := range k.Army {
		cp.Army[u] = v
	}
	cp.Buildings = make([]Building, len(k.Buildings))
	copy(cp.Buildings, k.Buildings)
	return &cp
}

// MapView is the public world-map projection of a kingdom.
type MapView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Owner      string   `json:"owner"`
	Level      int      `json:"level"`
	Banner     string   `json:"banner"`
	AllianceID string   `json:"alliance_id,omitempty"`
	Position   Position `json:"position"`
}

// Map returns the public map projection of the kingdom.
func (k *Kingdom) Map() MapView {
	return MapView{
		ID:         k.ID,
		Name:       k.Name,
		Owner:      k.Owner,
		Level:      k.Level,
		Banner:     k.Banner,
		AllianceID: k.AllianceID,
		Position:   k.Position,
	}
}
