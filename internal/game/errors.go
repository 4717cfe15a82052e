package game

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrLocationNotFound = errors.New("location not found")

	// Placement failures.
	ErrNoValidSpawn = errors.New("no valid spawn location")

	// Movement failures.
	ErrNoSession       = errors.New("no active session")
	ErrInvalidLocation = errors.New("invalid location")
	ErrNotConnected    = errors.New("not connected")
)

// PlacementError reports that a user could not be placed in the world.
// It matches ErrNoValidSpawn with errors.Is.
type PlacementError struct {
	UserID     string
	LocationID string
}

func (e *PlacementError) Error() string {
	if e.LocationID == "" {
		return fmt.Sprintf("placing %s: %s: no entry points configured", e.UserID, ErrNoValidSpawn)
	}
	return fmt.Sprintf("placing %s: %s: %q does not exist", e.UserID, ErrNoValidSpawn, e.LocationID)
}

func (e *PlacementError) Is(target error) bool {
	return target == ErrNoValidSpawn
}

// MoveError reports why a move was rejected. Reason is one of ErrNoSession,
// ErrInvalidLocation or ErrNotConnected.
type MoveError struct {
	Reason error
	UserID string
	From   string
	To     string
}

func (e *MoveError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("moving %s to %q: %s", e.UserID, e.To, e.Reason)
	}
	return fmt.Sprintf("moving %s from %q to %q: %s", e.UserID, e.From, e.To, e.Reason)
}

func (e *MoveError) Unwrap() error {
	return e.Reason
}
