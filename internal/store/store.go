// Package store owns the local SQLite event mirror: opening the
// database, schema migration, and the append-only event repositories
// built on the generated ent client.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/carhythm/carhythm/ent"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// sqlitePragmas tune SQLite for a single-user client process. WAL lets
// the status command read while the TUI writes.
var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
	"PRAGMA synchronous = NORMAL",
}

// Store wraps the ent client over the mirror database.
type Store struct {
	db     *sql.DB
	client *ent.Client
}

// Open connects to the SQLite database at dsn, applies pragmas, and
// migrates the schema to the current version.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for _, p := range sqlitePragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	client := ent.NewClient(ent.Driver(entsql.OpenDB(dialect.SQLite, db)))
	if err := client.Schema.Create(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db, client: client}, nil
}

// Client exposes the ent client for typed queries.
func (s *Store) Client() *ent.Client {
	return s.client
}

// DB exposes the raw connection for queries ent cannot express.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.client.Close()
}

// EventRepo builds an event repository over this store, seeding its
// sequence counter from the highest sequence already on disk.
func (s *Store) EventRepo() (EventRepo, error) {
	seq, err := newSequenceCounter(s.db)
	if err != nil {
		return nil, err
	}
	return &eventRepo{client: s.client, seq: seq}, nil
}

// DefaultDBPath resolves where the mirror database lives:
// CARHYTHM_DB, then $XDG_DATA_HOME/carhythm/carhythm.db, then
// ~/.local/share/carhythm/carhythm.db.
func DefaultDBPath() (string, error) {
	if p := os.Getenv("CARHYTHM_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "carhythm", "carhythm.db")
	return p, EnsureDir(p)
}

// EnsureDir creates path's parent directory when missing.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
