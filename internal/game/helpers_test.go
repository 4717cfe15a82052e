package game

import (
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-realm/internal/world"
)

// newTestGraph builds the line A <-> B <-> C plus an isolated entry point E.
func newTestGraph(t *testing.T) *world.Graph {
	t.Helper()

	g, err := world.NewGraph(world.Meta{Name: "Test World", Version: "1.2.3"}, map[string]*world.Location{
		"A": {Name: "Alpha", Type: world.LocationTown, Coordinates: world.Coordinates{X: 0, Y: 0}, Connections: []string{"B"}},
		"B": {Name: "Bravo", Type: world.LocationForest, Coordinates: world.Coordinates{X: 1, Y: 0}, Connections: []string{"A", "C"}},
		"C": {Name: "Charlie", Type: world.LocationCave, Coordinates: world.Coordinates{X: 2, Y: 0}, Connections: []string{"B"}},
		"E": {Name: "Echo", Type: world.LocationVillage, Coordinates: world.Coordinates{X: 9, Y: 9}},
	})
	if err != nil {
		t.Fatalf("building test graph: %v", err)
	}
	return g
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func mustLocate(t *testing.T, g *world.Graph, id string) *world.Location {
	t.Helper()
	loc, ok := g.Locate(id)
	if !ok {
		t.Fatalf("location %q not found", id)
	}
	return loc
}
