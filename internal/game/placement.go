package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-realm/internal/world"
)

// DefaultEntryPoints are the four corners of the standard 10x10 world grid.
var DefaultEntryPoints = []string{"cell_0_0", "cell_0_9", "cell_9_0", "cell_9_9"}

// Placer decides where joining players appear.
type Placer struct {
	graph       *world.Graph
	registry    *Registry
	entryPoints []string
	pick        func(n int) int
}

type PlacerOpt func(*Placer)

// WithPicker replaces the random choice among entry points. pick must return
// a value in [0, n).
func WithPicker(pick func(n int) int) PlacerOpt {
	return func(p *Placer) {
		p.pick = pick
	}
}

// NewPlacer creates a placer that spawns players at one of entryPoints when
// they have no usable preferred location.
func NewPlacer(g *world.Graph, r *Registry, entryPoints []string, opts ...PlacerOpt) *Placer {
	p := &Placer{
		graph:       g,
		registry:    r,
		entryPoints: slices.Clone(entryPoints),
		pick:        rand.IntN,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// EntryPoints returns the configured entry point identifiers.
func (p *Placer) EntryPoints() []string {
	return slices.Clone(p.entryPoints)
}

// Validate reports entry points that do not resolve in the world graph.
func (p *Placer) Validate() error {
	el := errors.NewErrorList()

	if len(p.entryPoints) == 0 {
		el.Add(fmt.Errorf("no entry points configured"))
	}
	for _, id := range p.entryPoints {
		if _, ok := p.graph.Locate(id); !ok {
			el.Add(fmt.Errorf("entry point %q does not exist", id))
		}
	}

	return el.Err()
}

// Place puts userID into the world. A user who already has a session keeps
// their current position and only has their activity refreshed. Otherwise the
// preferred location is used when it exists, falling back to a random entry
// point.
func (p *Placer) Place(userID, name, preferred string) (Session, error) {
	s, _, err := p.Spawn(userID, name, preferred)
	return s, err
}

// Spawn behaves like Place and also reports whether a new session was
// created.
func (p *Placer) Spawn(userID, name, preferred string) (Session, bool, error) {
	if p.registry.Touch(userID) {
		if s, ok := p.registry.Get(userID); ok {
			return s, false, nil
		}
	}

	locationID := preferred
	if _, ok := p.graph.Locate(locationID); locationID == "" || !ok {
		if len(p.entryPoints) == 0 {
			return Session{}, false, &PlacementError{UserID: userID}
		}
		locationID = p.entryPoints[p.pick(len(p.entryPoints))]
	}

	loc, ok := p.graph.Locate(locationID)
	if !ok {
		slog.Error("entry point does not exist", "userId", userID, "location", locationID)
		return Session{}, false, &PlacementError{UserID: userID, LocationID: locationID}
	}

	s, created := p.registry.UpsertOnSpawn(userID, name, loc)
	if created {
		slog.Info("player spawned", "userId", userID, "name", name, "location", loc.ID)
	}
	return s, created, nil
}
