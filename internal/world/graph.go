package world

import (
	"fmt"
	"maps"
	"slices"

	"github.com/pixil98/go-errors"
)

// Meta describes the loaded world dataset.
type Meta struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// Graph is the static world map. It is built once and never modified, so it
// is safe for concurrent use without locking.
type Graph struct {
	meta      Meta
	locations map[string]*Location
}

// NewGraph builds a graph from a set of locations keyed by identifier. Every
// location is validated and every connection must reference a location in
// the set.
func NewGraph(meta Meta, locations map[string]*Location) (*Graph, error) {
	el := errors.NewErrorList()

	if meta.Name == "" {
		el.Add(fmt.Errorf("meta: name is required"))
	}
	if len(locations) == 0 {
		el.Add(fmt.Errorf("at least one location is required"))
	}

	locs := make(map[string]*Location, len(locations))
	for id, loc := range locations {
		if loc == nil {
			el.Add(fmt.Errorf("location %q: definition is missing", id))
			continue
		}
		if err := loc.Validate(); err != nil {
			el.Add(fmt.Errorf("location %q: %w", id, err))
		}

		l := loc.Clone()
		l.ID = id
		locs[id] = l
	}

	for _, id := range slices.Sorted(maps.Keys(locs)) {
		for _, conn := range locs[id].Connections {
			if _, ok := locs[conn]; !ok {
				el.Add(fmt.Errorf("location %q: connection %q does not exist", id, conn))
			}
		}
	}

	if err := el.Err(); err != nil {
		return nil, err
	}

	return &Graph{meta: meta, locations: locs}, nil
}

// Meta returns the dataset metadata.
func (g *Graph) Meta() Meta {
	return g.meta
}

// Len returns the number of locations.
func (g *Graph) Len() int {
	return len(g.locations)
}

// Locate returns the location with the given identifier. The returned
// location is shared with the graph and must not be modified; use Clone to
// hand it outside the process.
func (g *Graph) Locate(id string) (*Location, bool) {
	loc, ok := g.locations[id]
	return loc, ok
}

// Neighbors returns the locations directly connected to id, in connection
// order. Connections that do not resolve are skipped. The locations are
// shared with the graph, as with Locate.
func (g *Graph) Neighbors(id string) []*Location {
	loc, ok := g.locations[id]
	if !ok {
		return nil
	}

	neighbors := make([]*Location, 0, len(loc.Connections))
	for _, conn := range loc.Connections {
		if n, ok := g.locations[conn]; ok {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

// ByRegion returns all locations tagged with region, ordered by identifier.
// The locations are shared with the graph, as with Locate.
func (g *Graph) ByRegion(region string) []*Location {
	var locs []*Location
	for _, id := range slices.Sorted(maps.Keys(g.locations)) {
		if g.locations[id].Region == region {
			locs = append(locs, g.locations[id])
		}
	}
	return locs
}

// Locations returns a deep copy of the identifier to location mapping.
func (g *Graph) Locations() map[string]*Location {
	locs := make(map[string]*Location, len(g.locations))
	for id, loc := range g.locations {
		locs[id] = loc.Clone()
	}
	return locs
}
