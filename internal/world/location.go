package world

import (
	"fmt"
	"slices"

	"github.com/pixil98/go-errors"
)

// LocationType classifies a location. The set of types is closed.
type LocationType string

const (
	LocationTown           LocationType = "town"
	LocationVillage        LocationType = "village"
	LocationFarmland       LocationType = "farmland"
	LocationMeadow         LocationType = "meadow"
	LocationForest         LocationType = "forest"
	LocationHills          LocationType = "hills"
	LocationPath           LocationType = "path"
	LocationRuins          LocationType = "ruins"
	LocationDarkForest     LocationType = "dark_forest"
	LocationSwamp          LocationType = "swamp"
	LocationCanyon         LocationType = "canyon"
	LocationAbandonedTower LocationType = "abandoned_tower"
	LocationDungeon        LocationType = "dungeon"
	LocationNecropolis     LocationType = "necropolis"
	LocationDemonCave      LocationType = "demon_cave"
	LocationCursedTemple   LocationType = "cursed_temple"
	LocationDragonLair     LocationType = "dragon_lair"
	LocationAncientTemple  LocationType = "ancient_temple"
	LocationVoidPortal     LocationType = "void_portal"
	LocationThroneRoom     LocationType = "throne_room"
	LocationMountain       LocationType = "mountain"
	LocationCave           LocationType = "cave"
)

var locationTypes = []LocationType{
	LocationTown, LocationVillage, LocationFarmland, LocationMeadow,
	LocationForest, LocationHills, LocationPath, LocationRuins,
	LocationDarkForest, LocationSwamp, LocationCanyon, LocationAbandonedTower,
	LocationDungeon, LocationNecropolis, LocationDemonCave, LocationCursedTemple,
	LocationDragonLair, LocationAncientTemple, LocationVoidPortal, LocationThroneRoom,
	LocationMountain, LocationCave,
}

// Valid reports whether t is one of the known location types.
func (t LocationType) Valid() bool {
	return slices.Contains(locationTypes, t)
}

// Coordinates is a position on the world grid.
type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NPC describes a non-player character placed at a location.
type NPC struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Health      int    `json:"health"`
}

// Object describes an item or fixture placed at a location.
type Object struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Location is a node in the world graph. Locations are shared between
// readers and must not be modified after the graph is built.
type Location struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Region      string       `json:"region"`
	Coordinates Coordinates  `json:"coordinates"`
	Type        LocationType `json:"type"`
	Connections []string     `json:"connections"`
	NPCs        []NPC        `json:"npcs"`
	Objects     []Object     `json:"objects"`
}

// Clone returns a deep copy of the location.
func (l *Location) Clone() *Location {
	c := *l
	c.Connections = slices.Clone(l.Connections)
	c.NPCs = slices.Clone(l.NPCs)
	c.Objects = slices.Clone(l.Objects)
	return &c
}

// ConnectsTo reports whether id is a direct connection of the location.
func (l *Location) ConnectsTo(id string) bool {
	return slices.Contains(l.Connections, id)
}

// Validate checks the fields of a single location. References to other
// locations are checked by the graph.
func (l *Location) Validate() error {
	el := errors.NewErrorList()

	if l.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if !l.Type.Valid() {
		el.Add(fmt.Errorf("invalid type %q", l.Type))
	}
	for i, npc := range l.NPCs {
		if npc.Name == "" {
			el.Add(fmt.Errorf("npc %d: name is required", i))
		}
		if npc.Health <= 0 {
			el.Add(fmt.Errorf("npc %d: health must be positive", i))
		}
	}
	for i, obj := range l.Objects {
		if obj.Name == "" {
			el.Add(fmt.Errorf("object %d: name is required", i))
		}
	}

	return el.Err()
}
