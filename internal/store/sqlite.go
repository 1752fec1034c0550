// Package store implements core.Store on SQLite with embedded
// goose migrations.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/gridhub-labs/gridhub/pkg/core"
)

// SQLiteStore implements core.Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the SQLite database at path and runs
// pending migrations. Use ":memory:" for an in-memory database.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// modernc's driver does not support concurrent writers on one file.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Ping checks database connectivity, for health probes.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	return s.db.PingContext(ctx)
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func generateID() string {
	return uuid.New().String()
}

// Ensure SQLiteStore implements core.Store.
var _ core.Store = (*SQLiteStore)(nil)
