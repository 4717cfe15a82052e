package game

import (
	"maps"
	"slices"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestInspector_LocationInfo(t *testing.T) {
	g := newTestGraph(t)
	r := NewRegistry()
	i := NewInspector(g, r)

	r.UpsertOnSpawn("u1", "Ada", mustLocate(t, g, "B"))
	r.UpsertOnSpawn("u2", "Bea", mustLocate(t, g, "B"))
	r.UpsertOnSpawn("u3", "Cy", mustLocate(t, g, "A"))

	info, ok := i.LocationInfo("B")
	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "location", info.Location.ID, "B")
	testutil.AssertEqual(t, "occupant count", info.OccupantCount, 2)
	testutil.AssertEqual(t, "occupants", len(info.Occupants), info.OccupantCount)
	testutil.AssertEqual(t, "connection count", info.ConnectionCount, 2)

	var conns []string
	for _, l := range info.Connected {
		conns = append(conns, l.ID)
	}
	testutil.AssertEqual(t, "connections", conns, []string{"A", "C"})

	_, ok = i.LocationInfo("Z")
	testutil.AssertEqual(t, "found missing", ok, false)
}

func TestInspector_LocationInfoAfterDespawn(t *testing.T) {
	g := newTestGraph(t)
	r := NewRegistry()
	i := NewInspector(g, r)

	r.UpsertOnSpawn("u1", "Ada", mustLocate(t, g, "A"))
	r.Remove("u1")

	info, _ := i.LocationInfo("A")
	testutil.AssertEqual(t, "occupant count", info.OccupantCount, 0)
	testutil.AssertEqual(t, "occupants", len(info.Occupants), 0)
	testutil.AssertEqual(t, "occupants not nil", info.Occupants != nil, true)
}

func TestInspector_LocationInfoLeavesGraphUntouched(t *testing.T) {
	g := newTestGraph(t)
	i := NewInspector(g, NewRegistry())

	info, _ := i.LocationInfo("B")
	info.Location.Name = "Changed"
	info.Location.Connections[0] = "Z"
	info.Connected[0].Name = "Changed too"

	b := mustLocate(t, g, "B")
	testutil.AssertEqual(t, "name", b.Name, "Bravo")
	testutil.AssertEqual(t, "connects to A", b.ConnectsTo("A"), true)
	testutil.AssertEqual(t, "neighbor name", mustLocate(t, g, "A").Name, "Alpha")
}

func TestInspector_WorldStats(t *testing.T) {
	g := newTestGraph(t)
	r := NewRegistry()
	i := NewInspector(g, r)
	r.UpsertOnSpawn("u1", "Ada", mustLocate(t, g, "A"))

	testutil.AssertEqual(t, "stats", i.WorldStats(), WorldStats{
		TotalLocations: 4,
		ActiveSessions: 1,
		WorldName:      "Test World",
		WorldVersion:   "1.2.3",
	})
}

func TestInspector_Occupancy(t *testing.T) {
	g := newTestGraph(t)
	r := NewRegistry()
	i := NewInspector(g, r)
	r.UpsertOnSpawn("u1", "Ada", mustLocate(t, g, "A"))
	r.UpsertOnSpawn("u2", "Bea", mustLocate(t, g, "A"))
	r.UpsertOnSpawn("u3", "Cy", mustLocate(t, g, "C"))

	byLocation, total := i.Occupancy()
	testutil.AssertEqual(t, "total", total, 3)
	testutil.AssertEqual(t, "locations", slices.Sorted(maps.Keys(byLocation)), []string{"A", "C"})
	testutil.AssertEqual(t, "at A", len(byLocation["A"]), 2)
	testutil.AssertEqual(t, "at C", len(byLocation["C"]), 1)
}
