package characters

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const playersTable = "players"

var playerColumns = []string{
	"id", "user_id", "name", "character_class", "level", "health", "max_health",
	"experience", "location", "stats", "is_active", "created_at", "updated_at",
}

// OpenSQLite opens (creating if needed) the character database at path.
func OpenSQLite(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("applying %q: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			character_class TEXT NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			health INTEGER NOT NULL DEFAULT 100,
			max_health INTEGER NOT NULL DEFAULT 100,
			experience INTEGER NOT NULL DEFAULT 0,
			location TEXT NOT NULL DEFAULT '',
			stats TEXT NOT NULL DEFAULT '{}',
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_players_user_active ON players(user_id, is_active);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_players_one_active ON players(user_id) WHERE is_active = 1;`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// SQLiteStore is a Store backed by the players table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore wraps an open database. The schema must already exist;
// OpenSQLite creates it.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		db:  db,
		now: time.Now,
	}
}

// Get returns the active character belonging to userID.
func (s *SQLiteStore) Get(ctx context.Context, userID string) (*Character, error) {
	query, args, err := sq.Select(playerColumns...).
		From(playersTable).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"is_active": true}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	c, err := scanCharacter(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCharacterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying character for %s: %w", userID, err)
	}
	return c, nil
}

// Create inserts c, assigning an id when it has none. It returns
// ErrCharacterExists when the user already has an active character.
func (s *SQLiteStore) Create(ctx context.Context, c *Character) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validating character: %w", err)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := s.now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	stats, err := json.Marshal(c.Stats)
	if err != nil {
		return fmt.Errorf("marshalling stats: %w", err)
	}

	countQuery, countArgs, err := sq.Select("COUNT(*)").
		From(playersTable).
		Where(sq.Eq{"user_id": c.UserID}).
		Where(sq.Eq{"is_active": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	insertQuery, insertArgs, err := sq.Insert(playersTable).
		Columns(playerColumns...).
		Values(c.ID, c.UserID, c.Name, c.Class, c.Level, c.Health, c.MaxHealth,
			c.Experience, c.Location, string(stats), c.Active,
			formatTime(c.CreatedAt), formatTime(c.UpdatedAt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if c.Active {
		var active int
		if err := tx.QueryRowContext(ctx, countQuery, countArgs...).Scan(&active); err != nil {
			return fmt.Errorf("checking existing character: %w", err)
		}
		if active > 0 {
			return fmt.Errorf("user %s: %w", c.UserID, ErrCharacterExists)
		}
	}

	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", c.UserID, ErrCharacterExists)
		}
		return fmt.Errorf("inserting character: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing character: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// SaveLocation records locationID as the last location of userID's active
// character.
func (s *SQLiteStore) SaveLocation(ctx context.Context, userID, locationID string) error {
	query, args, err := sq.Update(playersTable).
		Set("location", locationID).
		Set("updated_at", formatTime(s.now().UTC())).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"is_active": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating location: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

func scanCharacter(row *sql.Row) (*Character, error) {
	var (
		c                    Character
		stats                string
		createdAt, updatedAt string
	)
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Class, &c.Level, &c.Health, &c.MaxHealth,
		&c.Experience, &c.Location, &stats, &c.Active, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(stats), &c.Stats); err != nil {
		return nil, fmt.Errorf("decoding stats: %w", err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("decoding created_at: %w", err)
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("decoding updated_at: %w", err)
	}
	return &c, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
