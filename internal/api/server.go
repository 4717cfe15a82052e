package api

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pixil98/go-realm/internal/characters"
	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/player"
)

// World is the set of operations the HTTP surface exposes.
type World interface {
	Spawn(ctx context.Context, userID, name, preferred string) (game.Session, error)
	Move(ctx context.Context, userID, target string) (game.Session, error)
	Despawn(ctx context.Context, userID string) bool
	Touch(userID string) bool
	State(userID string) (player.State, bool)
	LocationInfo(locationID string) (game.LocationInfo, bool)
	WorldStats() game.WorldStats
	Snapshot() player.Snapshot
	CreateCharacter(ctx context.Context, userID, name, class string) (*characters.Character, error)
}

// Subscriber delivers raw messages published on a subject.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// Server serves the world over HTTP.
type Server struct {
	world    World
	events   Subscriber
	upgrader websocket.Upgrader

	pingInterval time.Duration
}

type ServerOpt func(*Server)

// WithEventSource enables the websocket event stream.
func WithEventSource(sub Subscriber) ServerOpt {
	return func(s *Server) {
		s.events = sub
	}
}

// WithPingInterval sets how often idle event streams are pinged.
func WithPingInterval(d time.Duration) ServerOpt {
	return func(s *Server) {
		s.pingInterval = d
	}
}

func NewServer(w World, opts ...ServerOpt) *Server {
	s := &Server{
		world: w,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		pingInterval: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/world/data", s.handleWorldData)
	mux.HandleFunc("GET /api/world/stats", s.handleStats)
	mux.HandleFunc("GET /api/world/locations/{locationId}", s.handleLocation)
	mux.HandleFunc("POST /api/world/spawn", s.handleSpawn)
	mux.HandleFunc("POST /api/world/move", s.handleMove)
	mux.HandleFunc("POST /api/world/despawn", s.handleDespawn)
	mux.HandleFunc("GET /api/world/player/{userId}/state", s.handleState)
	mux.HandleFunc("POST /api/world/player/{userId}/activity", s.handleActivity)
	mux.HandleFunc("GET /api/world/events", s.handleEvents)

	mux.HandleFunc("POST /api/characters", s.handleCreateCharacter)

	return logRequests(mux)
}

// envelope is the common shape of every JSON response.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("writing response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.DebugContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
