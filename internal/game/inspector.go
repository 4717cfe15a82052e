package game

import (
	"github.com/pixil98/go-realm/internal/world"
)

// LocationInfo is a read-only view of a location and who is there.
type LocationInfo struct {
	Location        *world.Location   `json:"location"`
	Occupants       []Session         `json:"playersHere"`
	Connected       []*world.Location `json:"connectedLocations"`
	OccupantCount   int               `json:"playerCount"`
	ConnectionCount int               `json:"connectionCount"`
}

// WorldStats summarises the world and its population.
type WorldStats struct {
	TotalLocations int    `json:"totalLocations"`
	ActiveSessions int    `json:"activePlayers"`
	WorldName      string `json:"worldName"`
	WorldVersion   string `json:"worldVersion"`
}

// Inspector answers read-only questions about the world and its sessions.
type Inspector struct {
	graph    *world.Graph
	registry *Registry
}

// NewInspector creates an Inspector over the given graph and registry.
func NewInspector(g *world.Graph, r *Registry) *Inspector {
	return &Inspector{graph: g, registry: r}
}

// Graph returns the world graph being inspected.
func (i *Inspector) Graph() *world.Graph {
	return i.graph
}

// LocationInfo describes locationID. The occupant list and count come from
// the same registry snapshot. Locations in the result are copies.
func (i *Inspector) LocationInfo(locationID string) (LocationInfo, bool) {
	loc, ok := i.graph.Locate(locationID)
	if !ok {
		return LocationInfo{}, false
	}

	occupants := i.registry.InLocation(locationID)
	neighbors := i.graph.Neighbors(locationID)

	connected := make([]*world.Location, 0, len(neighbors))
	for _, n := range neighbors {
		connected = append(connected, n.Clone())
	}

	return LocationInfo{
		Location:        loc.Clone(),
		Occupants:       occupants,
		Connected:       connected,
		OccupantCount:   len(occupants),
		ConnectionCount: len(connected),
	}, true
}

// WorldStats returns aggregate counts for the world.
func (i *Inspector) WorldStats() WorldStats {
	meta := i.graph.Meta()
	return WorldStats{
		TotalLocations: i.graph.Len(),
		ActiveSessions: i.registry.Count(),
		WorldName:      meta.Name,
		WorldVersion:   meta.Version,
	}
}

// Occupancy groups a single snapshot of all sessions by location and returns
// the grouping along with the total number of sessions in the snapshot.
func (i *Inspector) Occupancy() (map[string][]Session, int) {
	all := i.registry.All()

	byLocation := make(map[string][]Session)
	for _, s := range all {
		byLocation[s.LocationID] = append(byLocation[s.LocationID], s)
	}
	return byLocation, len(all)
}
