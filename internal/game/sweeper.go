package game

import (
	"time"
)

// DefaultIdleTimeout is how long a session may go without activity before it
// is swept.
const DefaultIdleTimeout = 30 * time.Minute

// Sweeper evicts sessions that have been idle for too long. It does not own
// a timer; the surrounding service decides when to sweep.
type Sweeper struct {
	registry *Registry
}

// NewSweeper creates a sweeper over r.
func NewSweeper(r *Registry) *Sweeper {
	return &Sweeper{registry: r}
}

// Sweep removes every session whose last activity is strictly older than
// now - timeout and returns how many were removed.
func (s *Sweeper) Sweep(timeout time.Duration) int {
	return len(s.Expire(timeout))
}

// Expire removes idle sessions like Sweep and returns the removed sessions.
func (s *Sweeper) Expire(timeout time.Duration) []Session {
	cutoff := s.registry.Now().Add(-timeout)

	var expired []Session
	for _, sess := range s.registry.All() {
		if !sess.IdleSince(cutoff) {
			continue
		}
		// Recheck under the lock: the session may have been touched since
		// the snapshot was taken.
		if removed, ok := s.registry.removeIdle(sess.UserID, cutoff); ok {
			expired = append(expired, removed)
		}
	}
	return expired
}
