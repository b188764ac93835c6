// Package sqlite implements the bookmark and user stores on an embedded
// SQLite database (pure-Go driver, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps the connection pool and provides the bookmark and user
// operations. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// New opens the database at path (":memory:" for tests), applies pragmas and
// runs migrations.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in flight.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Ping checks the database connection, for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			display_name  TEXT NOT NULL DEFAULT '',
			photo_url     TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// UNIQUE(user_id, normalized_url) is what makes create/toggle race-free:
	// the de-duplication check and the insert commit atomically.
	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS bookmarks (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL REFERENCES users(id),
			url            TEXT NOT NULL,
			normalized_url TEXT NOT NULL,
			title          TEXT NOT NULL DEFAULT '',
			favicon        TEXT NOT NULL DEFAULT '',
			description    TEXT NOT NULL DEFAULT '',
			created_at     DATETIME NOT NULL,
			archived_at    DATETIME,
			UNIQUE(user_id, normalized_url)
		);
		CREATE INDEX IF NOT EXISTS idx_bookmarks_user_created
			ON bookmarks(user_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_bookmarks_user_archived
			ON bookmarks(user_id, archived_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("creating bookmarks table: %w", err)
	}

	return nil
}
