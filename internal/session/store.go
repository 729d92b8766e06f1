package session

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// Store persists the bearer token and the lightly-parsed user blob across
// process restarts. This is the only client-owned durable state.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// OpenStore opens (or creates) the session database at path.
func OpenStore(path string, logger zerolog.Logger) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to session database: %w", err)
	}

	s := &Store{db: db, logger: logger.With().Str("component", "session-store").Logger()}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	s.logger.Info().Str("path", path).Msg("session store initialized")
	return s, nil
}

func (s *Store) createTables() error {
	// Single-row table: at most one signed-in identity per process.
	const query = `CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		token TEXT NOT NULL,
		user_json TEXT NOT NULL DEFAULT '',
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	_, err := s.db.Exec(query)
	return err
}

// Save upserts the token and user blob.
func (s *Store) Save(ctx context.Context, token, userJSON string) error {
	const query = `INSERT INTO session (id, token, user_json, updated_at)
		VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET token = excluded.token,
			user_json = excluded.user_json, updated_at = CURRENT_TIMESTAMP`
	_, err := s.db.ExecContext(ctx, query, token, userJSON)
	return err
}

// Load returns the persisted token and user blob, or empty strings when no
// session was saved.
func (s *Store) Load(ctx context.Context) (token, userJSON string, err error) {
	const query = `SELECT token, user_json FROM session WHERE id = 1`
	err = s.db.QueryRowContext(ctx, query).Scan(&token, &userJSON)
	if err == sql.ErrNoRows {
		return "", "", nil
	}
	return token, userJSON, err
}

// Clear removes the persisted session.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`)
	return err
}

// PingContext reports store health for the readiness probe.
func (s *Store) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
