package game

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-realm/internal/world"
)

// Registry holds every active session keyed by user id. It is the only
// mutable shared state in the game; all access goes through its methods.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	now func() time.Time
}

type RegistryOpt func(*Registry)

// WithClock replaces the time source used for join and activity timestamps.
func WithClock(now func() time.Time) RegistryOpt {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOpt) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Now returns the current time according to the registry clock.
func (r *Registry) Now() time.Time {
	return r.now()
}

// Get returns a copy of the session for userID.
func (r *Registry) Get(userID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[userID]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// UpsertOnSpawn creates a session for userID at loc. If the user already has
// a session only its activity is refreshed; the location is left alone since
// the live session already holds the correct position. The returned bool is
// true when a new session was created.
func (r *Registry) UpsertOnSpawn(userID, name string, loc *world.Location) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if s, ok := r.sessions[userID]; ok {
		s.markActive(now)
		return *s, false
	}

	s := &Session{
		ID:           uuid.New().String(),
		UserID:       userID,
		Name:         name,
		JoinedAt:     now,
		LastActivity: now,
	}
	s.moveTo(loc)
	r.sessions[userID] = s
	return *s, true
}

// Remove deletes the session for userID and returns the removed session.
func (r *Registry) Remove(userID string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.removeLocked(userID)
}

// Touch resets the idle timer for userID. It reports whether a session exists.
func (r *Registry) Touch(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[userID]
	if !ok {
		return false
	}
	s.markActive(r.now())
	return true
}

// Update applies fn to a copy of the session for userID while holding the
// registry lock. The copy replaces the stored session only if fn returns nil,
// so a rejected update leaves no partial state behind.
func (r *Registry) Update(userID string, fn func(s *Session, now time.Time) error) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[userID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}

	updated := *s
	if err := fn(&updated, r.now()); err != nil {
		return *s, err
	}
	*s = updated
	return updated, nil
}

// All returns a snapshot of every session.
func (r *Registry) All() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, *s)
	}
	return all
}

// InLocation returns a snapshot of the sessions at locationID.
func (r *Registry) InLocation(locationID string) []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	here := []Session{}
	for _, s := range r.sessions {
		if s.LocationID == locationID {
			here = append(here, *s)
		}
	}
	return here
}

// Count returns the number of active sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// removeIdle removes the session for userID only if it is still idle at
// cutoff when the lock is held. A refresh that lands before the removal wins.
func (r *Registry) removeIdle(userID string, cutoff time.Time) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[userID]
	if !ok || !s.IdleSince(cutoff) {
		return Session{}, false
	}
	return r.removeLocked(userID)
}

func (r *Registry) removeLocked(userID string) (Session, bool) {
	s, ok := r.sessions[userID]
	if !ok {
		return Session{}, false
	}
	delete(r.sessions, userID)
	return *s, true
}
