package characters

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "characters")
	s, err := OpenFileStore(dir)
	if err != nil {
		t.Fatalf("unexpected error opening store: %v", err)
	}
	s.now = func() time.Time { return testNow }
	return s, dir
}

func TestFileStore_CreateAndGet(t *testing.T) {
	s, dir := newTestFileStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, testUserID)
	testutil.AssertEqual(t, "missing before create", errors.Is(err, ErrCharacterNotFound), true)

	if err := s.Create(ctx, NewCharacter(testUserID, "Dorian", "rogue")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.Get(ctx, testUserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "name", got.Name, "Dorian")
	testutil.AssertEqual(t, "created at", got.CreatedAt, testNow)
	testutil.AssertEqual(t, "id assigned", got.ID != "", true)

	_, err = os.Stat(filepath.Join(dir, testUserID+".json"))
	testutil.AssertEqual(t, "asset written", err == nil, true)
}

func TestFileStore_CreateDuplicate(t *testing.T) {
	s, _ := newTestFileStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, NewCharacter(testUserID, "Dorian", "rogue")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := s.Create(ctx, NewCharacter(testUserID, "Dorian II", "rogue"))
	testutil.AssertEqual(t, "is exists error", errors.Is(err, ErrCharacterExists), true)
}

func TestFileStore_SaveLocation(t *testing.T) {
	tests := map[string]struct {
		seed   *Character
		expErr error
		expLoc string
	}{
		"active character": {
			seed:   NewCharacter(testUserID, "Dorian", "rogue"),
			expLoc: "cell_9_0",
		},
		"no character": {
			expErr: ErrCharacterNotFound,
		},
		"inactive character": {
			seed: func() *Character {
				c := NewCharacter(testUserID, "Dorian", "rogue")
				c.Active = false
				return c
			}(),
			expErr: ErrCharacterNotFound,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, dir := newTestFileStore(t)
			if tt.seed != nil {
				tt.seed.ID = "seeded"
				if err := s.assets.Save(testUserID, tt.seed); err != nil {
					t.Fatalf("seeding: %v", err)
				}
			}

			err := s.SaveLocation(context.Background(), testUserID, "cell_9_0")
			if tt.expErr != nil {
				testutil.AssertEqual(t, "is expected error", errors.Is(err, tt.expErr), true)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			reopened, err := OpenFileStore(dir)
			if err != nil {
				t.Fatalf("unexpected error reopening: %v", err)
			}
			got, err := reopened.Get(context.Background(), testUserID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "location", got.Location, tt.expLoc)
		})
	}
}

func TestFileStore_GetReturnsCopy(t *testing.T) {
	s, _ := newTestFileStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, NewCharacter(testUserID, "Dorian", "rogue")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.Get(ctx, testUserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got.Location = "tampered"

	again, err := s.Get(ctx, testUserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "location", again.Location, "")
}
