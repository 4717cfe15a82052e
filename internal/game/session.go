package game

import (
	"time"

	"github.com/pixil98/go-realm/internal/world"
)

// Session is the live record of a connected player. The Registry owns every
// Session; callers only ever receive copies.
type Session struct {
	ID           string            `json:"id"`
	UserID       string            `json:"userId"`
	Name         string            `json:"name"`
	LocationID   string            `json:"locationId"`
	Coordinates  world.Coordinates `json:"coordinates"`
	JoinedAt     time.Time         `json:"joinedAt"`
	LastActivity time.Time         `json:"lastActive"`
}

// IdleSince reports whether the session's last activity is strictly before cutoff.
func (s Session) IdleSince(cutoff time.Time) bool {
	return s.LastActivity.Before(cutoff)
}

// moveTo places the session at loc. The coordinates always follow the location.
func (s *Session) moveTo(loc *world.Location) {
	s.LocationID = loc.ID
	s.Coordinates = loc.Coordinates
}

// markActive advances the activity timestamp, never moving it backwards.
func (s *Session) markActive(now time.Time) {
	if now.After(s.LastActivity) {
		s.LastActivity = now
	}
}
