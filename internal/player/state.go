package player

import (
	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/world"
)

// State is what a player sees from where they stand.
type State struct {
	Session            game.Session      `json:"player"`
	Location           *world.Location   `json:"currentLocation"`
	OtherPlayers       []game.Session    `json:"playersInLocation"`
	ConnectedLocations []*world.Location `json:"connectedLocations"`
	Stats              game.WorldStats   `json:"worldStats"`
}

// Occupant is the public view of a session in the world snapshot.
type Occupant struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

// Snapshot is the whole world with everyone in it.
type Snapshot struct {
	World              world.Meta                 `json:"world"`
	Locations          map[string]*world.Location `json:"worldData"`
	PlayersByLocation  map[string][]Occupant      `json:"playersByLocation"`
	TotalActivePlayers int                        `json:"totalActivePlayers"`
}

// State returns userID's view of the world, or false when userID has no
// session.
func (m *Manager) State(userID string) (State, bool) {
	s, ok := m.registry.Get(userID)
	if !ok {
		return State{}, false
	}

	info, ok := m.inspector.LocationInfo(s.LocationID)
	if !ok {
		return State{}, false
	}

	others := make([]game.Session, 0, len(info.Occupants))
	for _, o := range info.Occupants {
		if o.UserID != userID {
			others = append(others, o)
		}
	}

	return State{
		Session:            s,
		Location:           info.Location,
		OtherPlayers:       others,
		ConnectedLocations: info.Connected,
		Stats:              m.inspector.WorldStats(),
	}, true
}

// LocationInfo describes locationID and who is there.
func (m *Manager) LocationInfo(locationID string) (game.LocationInfo, bool) {
	return m.inspector.LocationInfo(locationID)
}

// WorldStats returns aggregate counts for the world.
func (m *Manager) WorldStats() game.WorldStats {
	return m.inspector.WorldStats()
}

// Snapshot returns every location with its occupants. Occupants and the
// total come from the same registry snapshot.
func (m *Manager) Snapshot() Snapshot {
	byLocation, total := m.inspector.Occupancy()

	players := make(map[string][]Occupant, len(byLocation))
	for locID, sessions := range byLocation {
		occupants := make([]Occupant, 0, len(sessions))
		for _, s := range sessions {
			occupants = append(occupants, Occupant{ID: s.ID, Name: s.Name, UserID: s.UserID})
		}
		players[locID] = occupants
	}

	return Snapshot{
		World:              m.graph.Meta(),
		Locations:          m.graph.Locations(),
		PlayersByLocation:  players,
		TotalActivePlayers: total,
	}
}
