package characters

import "context"

// Store is the durable home of player characters, keyed by user id. Only
// one active character per user is visible through a Store; Create returns
// ErrCharacterExists rather than adding a second one.
type Store interface {
	Get(ctx context.Context, userID string) (*Character, error)
	Create(ctx context.Context, c *Character) error
	LocationSaver
}

// LocationSaver persists a user's last known location.
type LocationSaver interface {
	SaveLocation(ctx context.Context, userID, locationID string) error
}
