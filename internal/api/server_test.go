package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-realm/internal/characters"
	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/player"
	"github.com/pixil98/go-realm/internal/world"
)

const (
	userAda  = "0b6f3c1e-5f7a-4c7e-9f51-2f0e8f1b2a3c"
	userBrin = "6f1c2a9e-3b7d-4e21-9c55-0d8e4f7a1b23"
)

func newTestManager(t *testing.T) *player.Manager {
	t.Helper()

	g, err := world.NewGraph(world.Meta{Name: "Test World", Version: "0.1.0"}, map[string]*world.Location{
		"A": {Name: "Alpha", Type: world.LocationTown, Connections: []string{"B"}},
		"B": {Name: "Bravo", Type: world.LocationForest, Coordinates: world.Coordinates{X: 1}, Connections: []string{"A", "C"}},
		"C": {Name: "Charlie", Type: world.LocationCave, Coordinates: world.Coordinates{X: 2}, Connections: []string{"B"}},
	})
	if err != nil {
		t.Fatalf("building test graph: %v", err)
	}
	r := game.NewRegistry()
	return player.NewManager(g, r, game.NewPlacer(g, r, []string{"A"}))
}

type result struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Removed bool   `json:"removed"`
}

func do(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, result) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var res result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return rec, res
}

func TestServer_Spawn(t *testing.T) {
	tests := map[string]struct {
		body      any
		expStatus int
		expErr    string
	}{
		"spawned": {
			body:      map[string]string{"userId": userAda, "name": "Ada"},
			expStatus: http.StatusOK,
		},
		"user id not a uuid": {
			body:      map[string]string{"userId": "ada", "name": "Ada"},
			expStatus: http.StatusBadRequest,
			expErr:    "userId must be a uuid",
		},
		"missing user id": {
			body:      map[string]string{"name": "Ada"},
			expStatus: http.StatusBadRequest,
			expErr:    "userId is required",
		},
		"no character": {
			body:      map[string]string{"userId": userAda},
			expStatus: http.StatusBadRequest,
			expErr:    "No player character found",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			h := NewServer(newTestManager(t)).Handler()

			rec, res := do(t, h, http.MethodPost, "/api/world/spawn", tt.body)

			testutil.AssertEqual(t, "status", rec.Code, tt.expStatus)
			testutil.AssertEqual(t, "success", res.Success, tt.expErr == "")
			if tt.expErr != "" {
				testutil.AssertEqual(t, "error mentions", strings.Contains(res.Error, tt.expErr), true)
			}
		})
	}
}

func TestServer_MalformedBody(t *testing.T) {
	h := NewServer(newTestManager(t)).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/world/move", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	testutil.AssertEqual(t, "status", rec.Code, http.StatusBadRequest)
}

func TestServer_MoveFlow(t *testing.T) {
	h := NewServer(newTestManager(t)).Handler()

	rec, _ := do(t, h, http.MethodPost, "/api/world/move", map[string]string{"userId": userAda, "targetLocationId": "B"})
	testutil.AssertEqual(t, "move before spawn", rec.Code, http.StatusBadRequest)

	do(t, h, http.MethodPost, "/api/world/spawn", map[string]string{"userId": userAda, "name": "Ada"})

	rec, res := do(t, h, http.MethodPost, "/api/world/move", map[string]string{"userId": userAda, "targetLocationId": "C"})
	testutil.AssertEqual(t, "not connected status", rec.Code, http.StatusBadRequest)
	testutil.AssertEqual(t, "not connected message", res.Error, "You can't get there from here.")

	rec, res = do(t, h, http.MethodPost, "/api/world/move", map[string]string{"userId": userAda, "targetLocationId": "B"})
	testutil.AssertEqual(t, "moved status", rec.Code, http.StatusOK)
	testutil.AssertEqual(t, "moved", res.Success, true)

	var body struct {
		Player game.Session `json:"player"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	testutil.AssertEqual(t, "location", body.Player.LocationID, "B")
}

func TestServer_State(t *testing.T) {
	h := NewServer(newTestManager(t)).Handler()

	rec, _ := do(t, h, http.MethodGet, "/api/world/player/"+userAda+"/state", nil)
	testutil.AssertEqual(t, "absent", rec.Code, http.StatusNotFound)

	do(t, h, http.MethodPost, "/api/world/spawn", map[string]string{"userId": userAda, "name": "Ada"})
	do(t, h, http.MethodPost, "/api/world/spawn", map[string]string{"userId": userBrin, "name": "Brin"})

	rec, _ = do(t, h, http.MethodGet, "/api/world/player/"+userAda+"/state", nil)
	testutil.AssertEqual(t, "present", rec.Code, http.StatusOK)

	var body struct {
		Player       game.Session   `json:"player"`
		Location     world.Location `json:"currentLocation"`
		OtherPlayers []game.Session `json:"playersInLocation"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	testutil.AssertEqual(t, "location", body.Location.ID, "A")
	testutil.AssertEqual(t, "others", len(body.OtherPlayers), 1)
	testutil.AssertEqual(t, "other", body.OtherPlayers[0].Name, "Brin")

	rec, _ = do(t, h, http.MethodGet, "/api/world/player/not-a-uuid/state", nil)
	testutil.AssertEqual(t, "bad id", rec.Code, http.StatusBadRequest)
}

func TestServer_Despawn(t *testing.T) {
	h := NewServer(newTestManager(t)).Handler()

	do(t, h, http.MethodPost, "/api/world/spawn", map[string]string{"userId": userAda, "name": "Ada"})

	rec, res := do(t, h, http.MethodPost, "/api/world/despawn", map[string]string{"userId": userAda})
	testutil.AssertEqual(t, "status", rec.Code, http.StatusOK)
	testutil.AssertEqual(t, "success", res.Success, true)
	testutil.AssertEqual(t, "removed", res.Removed, true)

	rec, res = do(t, h, http.MethodPost, "/api/world/despawn", map[string]string{"userId": userAda})
	testutil.AssertEqual(t, "status again", rec.Code, http.StatusOK)
	testutil.AssertEqual(t, "success again", res.Success, true)
	testutil.AssertEqual(t, "removed again", res.Removed, false)
}

func TestServer_Activity(t *testing.T) {
	h := NewServer(newTestManager(t)).Handler()
	path := "/api/world/player/" + userAda + "/activity"

	rec, _ := do(t, h, http.MethodPost, path, nil)
	testutil.AssertEqual(t, "absent", rec.Code, http.StatusNotFound)

	do(t, h, http.MethodPost, "/api/world/spawn", map[string]string{"userId": userAda, "name": "Ada"})

	rec, _ = do(t, h, http.MethodPost, path, nil)
	testutil.AssertEqual(t, "present", rec.Code, http.StatusOK)
}

func TestServer_Queries(t *testing.T) {
	h := NewServer(newTestManager(t)).Handler()
	do(t, h, http.MethodPost, "/api/world/spawn", map[string]string{"userId": userAda, "name": "Ada"})

	rec, _ := do(t, h, http.MethodGet, "/api/world/data", nil)
	testutil.AssertEqual(t, "data status", rec.Code, http.StatusOK)
	var data struct {
		WorldData          map[string]world.Location   `json:"worldData"`
		PlayersByLocation  map[string][]player.Occupant `json:"playersByLocation"`
		TotalActivePlayers int                          `json:"totalActivePlayers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	testutil.AssertEqual(t, "locations", len(data.WorldData), 3)
	testutil.AssertEqual(t, "total", data.TotalActivePlayers, 1)
	testutil.AssertEqual(t, "at A", data.PlayersByLocation["A"][0].UserID, userAda)

	rec, _ = do(t, h, http.MethodGet, "/api/world/locations/B", nil)
	testutil.AssertEqual(t, "location status", rec.Code, http.StatusOK)
	var loc struct {
		PlayerCount     int `json:"playerCount"`
		ConnectionCount int `json:"connectionCount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &loc); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	testutil.AssertEqual(t, "players at B", loc.PlayerCount, 0)
	testutil.AssertEqual(t, "empty players list", strings.Contains(rec.Body.String(), `"playersHere":[]`), true)
	testutil.AssertEqual(t, "connections from B", loc.ConnectionCount, 2)

	rec, _ = do(t, h, http.MethodGet, "/api/world/locations/Z", nil)
	testutil.AssertEqual(t, "unknown location", rec.Code, http.StatusNotFound)

	rec, _ = do(t, h, http.MethodGet, "/api/world/stats", nil)
	testutil.AssertEqual(t, "stats status", rec.Code, http.StatusOK)
	var stats game.WorldStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	testutil.AssertEqual(t, "stats", stats, game.WorldStats{
		TotalLocations: 3,
		ActiveSessions: 1,
		WorldName:      "Test World",
		WorldVersion:   "0.1.0",
	})

	rec, _ = do(t, h, http.MethodGet, "/healthz", nil)
	testutil.AssertEqual(t, "health", rec.Code, http.StatusOK)
}

func TestServer_CreateCharacterWithoutStore(t *testing.T) {
	h := NewServer(newTestManager(t)).Handler()

	rec, res := do(t, h, http.MethodPost, "/api/characters", map[string]string{
		"userId": userAda, "name": "Ada", "characterClass": "bard",
	})
	testutil.AssertEqual(t, "status", rec.Code, http.StatusBadRequest)
	testutil.AssertEqual(t, "success", res.Success, false)
}

func TestServer_CreateCharacterTwice(t *testing.T) {
	store, err := characters.OpenFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	g, err := world.NewGraph(world.Meta{Name: "Test World"}, map[string]*world.Location{
		"A": {Name: "Alpha", Type: world.LocationTown},
	})
	if err != nil {
		t.Fatalf("building test graph: %v", err)
	}
	r := game.NewRegistry()
	m := player.NewManager(g, r, game.NewPlacer(g, r, []string{"A"}), player.WithCharacterStore(store))
	h := NewServer(m).Handler()

	body := map[string]string{"userId": userAda, "name": "Ada", "characterClass": "bard"}

	rec, res := do(t, h, http.MethodPost, "/api/characters", body)
	testutil.AssertEqual(t, "first status", rec.Code, http.StatusCreated)
	testutil.AssertEqual(t, "first success", res.Success, true)

	rec, res = do(t, h, http.MethodPost, "/api/characters", body)
	testutil.AssertEqual(t, "second status", rec.Code, http.StatusConflict)
	testutil.AssertEqual(t, "second error", res.Error, "Player already exists")
}

type fakeSubscriber struct {
	subscribed chan func([]byte)
}

func (f *fakeSubscriber) Subscribe(subject string, handler func([]byte)) (func(), error) {
	f.subscribed <- handler
	return func() {}, nil
}

func TestServer_EventStream(t *testing.T) {
	sub := &fakeSubscriber{subscribed: make(chan func([]byte), 1)}
	srv := httptest.NewServer(NewServer(newTestManager(t), WithEventSource(sub)).Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/world/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing: %v", err)
	}
	defer conn.Close()

	var publish func([]byte)
	select {
	case publish = <-sub.subscribed:
	case <-time.After(5 * time.Second):
		t.Fatal("stream never subscribed")
	}

	publish([]byte(`{"type":"spawned","userId":"u1"}`))

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading: %v", err)
	}
	testutil.AssertEqual(t, "event", string(msg), `{"type":"spawned","userId":"u1"}`)
}

func TestServer_EventStreamEndsOnShutdown(t *testing.T) {
	sub := &fakeSubscriber{subscribed: make(chan func([]byte), 1)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := httptest.NewUnstartedServer(NewServer(newTestManager(t), WithEventSource(sub)).Handler())
	srv.Config.BaseContext = func(net.Listener) context.Context { return ctx }
	srv.Start()
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/world/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing: %v", err)
	}
	defer conn.Close()

	select {
	case <-sub.subscribed:
	case <-time.After(5 * time.Second):
		t.Fatal("stream never subscribed")
	}

	cancel()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	testutil.AssertEqual(t, "going away", websocket.IsCloseError(err, websocket.CloseGoingAway), true)
}

func TestServer_EventStreamDisabled(t *testing.T) {
	h := NewServer(newTestManager(t)).Handler()

	rec, _ := do(t, h, http.MethodGet, "/api/world/events", nil)
	testutil.AssertEqual(t, "status", rec.Code, http.StatusServiceUnavailable)
}
