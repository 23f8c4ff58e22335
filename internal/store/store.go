// Package store provides SQLite-backed persistence for tasknest.
//
// It owns five entity groups:
//   - Users: account records for the HTTP gateway's auth endpoints
//   - Tasks: per-user todo items, always filtered by owning user id
//   - Conversations: chat threads owned by exactly one user
//   - Messages: ordered turns within a conversation, immutable once written
//   - Tool calls: append-only audit records linked to assistant messages
//
// Every task- and conversation-scoped query takes the caller's user id as a
// mandatory filter; a lookup by row id alone is never exposed.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store wraps the SQLite database handle.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path and applies
// pragmas and the schema. Idempotent; safe to call on an existing database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent turns.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// now returns the current UTC time truncated to microseconds, which is the
// precision SQLite round-trips reliably through its TEXT timestamp format.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// CountRows returns the number of rows in the named table. Used by the
// status command; table must be one of the schema's fixed table names.
func (s *Store) CountRows(ctx context.Context, table string) (int, error) {
	switch table {
	case "users", "tasks", "conversations", "messages", "tool_calls":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
