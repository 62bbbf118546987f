package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// pragmas are applied to the connection before the schema.
var pragmas = []struct{ name, value string }{
	{"journal_mode", "WAL"},
	{"synchronous", "NORMAL"},
	{"busy_timeout", "5000"},
	{"foreign_keys", "ON"},
}

// migrations[i] takes a database from user_version i to i+1. Append only.
var migrations = []string{
	// The stacks listing orders by update time.
	`CREATE INDEX IF NOT EXISTS idx_stacks_updated_at ON stacks(updated_at)`,
}

// schemaVersion is the user_version of a fully migrated database.
var schemaVersion = len(migrations)

// Store persists named stacks in a SQLite database.
// It satisfies engine.StackStore.
type Store struct {
	db      *sql.DB
	session string
	now     func() time.Time
}

// Open opens the stack database at path, creating and migrating it as
// needed. Pass ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite has a single writer, and every ":memory:"
	// connection would get its own empty database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := prepare(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

// prepare connects, configures the connection and brings the schema up
// to schemaVersion.
func prepare(db *sql.DB) error {
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, p := range pragmas {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			return fmt.Errorf("failed to set pragma %s: %w", p.name, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	for v := version; v < schemaVersion; v++ {
		if _, err := db.Exec(migrations[v]); err != nil {
			return fmt.Errorf("failed to migrate stack schema to v%d: %w", v+1, err)
		}
	}
	if version != schemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	}
	return nil
}

// WithSession returns a view of the store that stamps every write with
// the given session id. The view shares the connection; close only one.
func (s *Store) WithSession(id string) *Store {
	c := *s
	c.session = id
	return &c
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
