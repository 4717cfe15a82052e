package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-realm/internal/characters"
	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/world"
)

var ErrNoCharacter = errors.New("no player character found, please create a character first")

// LocationWriter accepts best-effort location writes without blocking.
type LocationWriter interface {
	Enqueue(userID, locationID string) bool
}

// Manager is the service facing side of the world: it composes placement,
// movement, sweeping and queries with the character store, the location
// writer and the event publisher.
type Manager struct {
	graph     *world.Graph
	registry  *game.Registry
	placer    *game.Placer
	mover     *game.Mover
	sweeper   *game.Sweeper
	inspector *game.Inspector

	chars       characters.Store
	writer      LocationWriter
	publisher   game.Publisher
	idleTimeout time.Duration
}

type ManagerOpt func(*Manager)

// WithCharacterStore sets where character records are looked up on spawn.
func WithCharacterStore(s characters.Store) ManagerOpt {
	return func(m *Manager) {
		m.chars = s
	}
}

// WithLocationWriter sets the sink for best-effort location writes.
func WithLocationWriter(w LocationWriter) ManagerOpt {
	return func(m *Manager) {
		m.writer = w
	}
}

// WithPublisher sets the destination for session events.
func WithPublisher(p game.Publisher) ManagerOpt {
	return func(m *Manager) {
		m.publisher = p
	}
}

// WithIdleTimeout sets how long a session may go without activity before
// Tick expires it.
func WithIdleTimeout(d time.Duration) ManagerOpt {
	return func(m *Manager) {
		m.idleTimeout = d
	}
}

func NewManager(g *world.Graph, r *game.Registry, placer *game.Placer, opts ...ManagerOpt) *Manager {
	m := &Manager{
		graph:       g,
		registry:    r,
		placer:      placer,
		mover:       game.NewMover(g, r),
		sweeper:     game.NewSweeper(r),
		inspector:   game.NewInspector(g, r),
		idleTimeout: game.DefaultIdleTimeout,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Graph returns the world being managed.
func (m *Manager) Graph() *world.Graph {
	return m.graph
}

// Spawn enters userID into the world. A user already present keeps their
// session. Otherwise an empty name or preferred location is filled from the
// user's character; without a name and without a character the spawn fails
// with ErrNoCharacter.
func (m *Manager) Spawn(ctx context.Context, userID, name, preferred string) (game.Session, error) {
	if _, ok := m.registry.Get(userID); !ok && (name == "" || preferred == "") {
		char, err := m.lookupCharacter(ctx, userID)
		switch {
		case err == nil:
			if name == "" {
				name = char.Name
			}
			if preferred == "" {
				preferred = char.Location
			}
		case name == "":
			return game.Session{}, err
		default:
			slog.DebugContext(ctx, "spawning without character record", "userId", userID, "error", err)
		}
	}

	s, created, err := m.placer.Spawn(userID, name, preferred)
	if err != nil {
		return game.Session{}, err
	}

	if created {
		m.publish(ctx, game.Event{Type: game.EventSpawned, UserID: userID, Name: s.Name, To: s.LocationID, At: s.JoinedAt})
	}
	return s, nil
}

func (m *Manager) lookupCharacter(ctx context.Context, userID string) (*characters.Character, error) {
	if m.chars == nil {
		return nil, ErrNoCharacter
	}

	char, err := m.chars.Get(ctx, userID)
	if errors.Is(err, characters.ErrCharacterNotFound) {
		return nil, ErrNoCharacter
	}
	if err != nil {
		return nil, fmt.Errorf("looking up character: %w", err)
	}
	return char, nil
}

// CreateCharacter stores a new character for userID.
func (m *Manager) CreateCharacter(ctx context.Context, userID, name, class string) (*characters.Character, error) {
	if m.chars == nil {
		return nil, fmt.Errorf("no character store configured")
	}

	char := characters.NewCharacter(userID, name, class)
	if err := m.chars.Create(ctx, char); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "character created", "userId", userID, "name", name, "class", class)
	return char, nil
}

// Move steps userID to target. The new location is handed to the location
// writer without waiting for it to be stored.
func (m *Manager) Move(ctx context.Context, userID, target string) (game.Session, error) {
	s, from, err := m.mover.Step(userID, target)
	if err != nil {
		return game.Session{}, err
	}

	m.saveLocation(userID, s.LocationID)
	m.publish(ctx, game.Event{Type: game.EventMoved, UserID: userID, Name: s.Name, From: from, To: s.LocationID, At: s.LastActivity})
	return s, nil
}

// Despawn removes userID from the world and reports whether a session was
// removed.
func (m *Manager) Despawn(ctx context.Context, userID string) bool {
	s, ok := m.registry.Remove(userID)
	if !ok {
		return false
	}

	slog.InfoContext(ctx, "player despawned", "userId", userID, "location", s.LocationID)
	m.saveLocation(userID, s.LocationID)
	m.publish(ctx, game.Event{Type: game.EventDespawned, UserID: userID, Name: s.Name, From: s.LocationID, At: m.registry.Now()})
	return true
}

// Touch records activity for userID. It reports whether a session exists.
func (m *Manager) Touch(userID string) bool {
	return m.registry.Touch(userID)
}

// Tick expires idle sessions. It is driven by the driver at the sweep
// interval.
func (m *Manager) Tick(ctx context.Context) error {
	expired := m.sweeper.Expire(m.idleTimeout)
	if len(expired) == 0 {
		return nil
	}

	now := m.registry.Now()
	for _, s := range expired {
		m.saveLocation(s.UserID, s.LocationID)
		m.publish(ctx, game.Event{Type: game.EventExpired, UserID: s.UserID, Name: s.Name, From: s.LocationID, At: now})
	}

	slog.InfoContext(ctx, "expired idle sessions", "count", len(expired), "timeout", m.idleTimeout)
	return nil
}

func (m *Manager) saveLocation(userID, locationID string) {
	if m.writer == nil {
		return
	}
	m.writer.Enqueue(userID, locationID)
}

func (m *Manager) publish(ctx context.Context, ev game.Event) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.PublishEvent(ev); err != nil {
		slog.WarnContext(ctx, "publishing session event failed", "type", ev.Type, "userId", ev.UserID, "error", err)
	}
}
