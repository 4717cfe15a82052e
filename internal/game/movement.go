package game

import (
	"errors"
	"log/slog"
	"time"

	"github.com/pixil98/go-realm/internal/world"
)

// Mover moves sessions between directly connected locations.
type Mover struct {
	graph    *world.Graph
	registry *Registry
}

// NewMover creates a Mover over the given graph and registry.
func NewMover(g *world.Graph, r *Registry) *Mover {
	return &Mover{graph: g, registry: r}
}

// Move moves userID to target. The check and the update happen under the
// registry lock, so a move is always validated against the live location.
// A rejected move returns a *MoveError.
func (m *Mover) Move(userID, target string) (Session, error) {
	s, _, err := m.Step(userID, target)
	return s, err
}

// Step behaves like Move and also returns the location the session left.
func (m *Mover) Step(userID, target string) (Session, string, error) {
	var from string
	s, err := m.registry.Update(userID, func(s *Session, now time.Time) error {
		from = s.LocationID

		current, ok := m.graph.Locate(s.LocationID)
		if !ok {
			slog.Error("session references unknown location", "userId", userID, "location", s.LocationID)
			return &MoveError{Reason: ErrInvalidLocation, UserID: userID, From: from, To: target}
		}

		dest, ok := m.graph.Locate(target)
		if !ok {
			return &MoveError{Reason: ErrInvalidLocation, UserID: userID, From: from, To: target}
		}

		if !current.ConnectsTo(dest.ID) {
			return &MoveError{Reason: ErrNotConnected, UserID: userID, From: from, To: target}
		}

		s.moveTo(dest)
		s.markActive(now)
		return nil
	})
	if errors.Is(err, ErrSessionNotFound) {
		return Session{}, "", &MoveError{Reason: ErrNoSession, UserID: userID, To: target}
	}
	if err != nil {
		return Session{}, "", err
	}

	slog.Info("player moved", "userId", userID, "from", from, "to", s.LocationID)
	return s, from, nil
}
