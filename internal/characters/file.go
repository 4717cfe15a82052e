package characters

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pixil98/go-realm/internal/storage"
)

// FileStore is a Store keeping one JSON asset per user in a directory.
type FileStore struct {
	assets storage.Storer[*Character]
	now    func() time.Time

	// serialises read-modify-write cycles against assets
	mu sync.Mutex
}

// OpenFileStore loads every character asset under dir, creating dir first
// if it does not exist.
func OpenFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating character directory: %w", err)
	}

	assets, err := storage.NewFileStore[*Character](dir)
	if err != nil {
		return nil, fmt.Errorf("loading characters: %w", err)
	}
	return NewFileStore(assets), nil
}

func NewFileStore(assets storage.Storer[*Character]) *FileStore {
	return &FileStore{
		assets: assets,
		now:    time.Now,
	}
}

func (s *FileStore) Get(_ context.Context, userID string) (*Character, error) {
	c, ok := s.assets.Get(userID)
	if !ok || !c.Active {
		return nil, ErrCharacterNotFound
	}

	cp := *c
	return &cp, nil
}

func (s *FileStore) Create(_ context.Context, c *Character) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validating character: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.assets.Get(c.UserID); ok && existing.Active {
		return fmt.Errorf("user %s: %w", c.UserID, ErrCharacterExists)
	}

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := s.now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	cp := *c
	return s.assets.Save(c.UserID, &cp)
}

func (s *FileStore) SaveLocation(_ context.Context, userID, locationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.assets.Get(userID)
	if !ok || !c.Active {
		return ErrCharacterNotFound
	}

	cp := *c
	cp.Location = locationID
	cp.UpdatedAt = s.now().UTC()
	return s.assets.Save(userID, &cp)
}
