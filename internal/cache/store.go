// Package cache persists resolved queries in SQLite so that slow resolvers
// run once per query and TTL.
package cache

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/leapstack-labs/leapcompat/pkg/targets"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Entry is one cached query result.
type Entry struct {
	Resolver   string
	Query      string
	Pairs      []targets.Pair
	ResolvedAt time.Time
}

// Store is a SQLite-backed query cache.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the cache database at path and applies migrations.
// Use ":memory:" for an in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := ":memory:?_time_format=sqlite"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create cache directory: %w", err)
			}
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if path == ":memory:" {
		// Every connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate runs all pending migrations.
func (s *Store) Migrate(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// MigrationVersion returns the current schema version.
func (s *Store) MigrationVersion(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite"); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}
	return goose.GetDBVersionContext(ctx, s.db)
}

// Path returns the database path given to Open.
func (s *Store) Path() string { return s.path }

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the cached entry for resolver and query. ok is false on a miss.
func (s *Store) Get(ctx context.Context, resolver, query string) (entry Entry, ok bool, err error) {
	var raw string
	err = s.db.QueryRowContext(ctx,
		`SELECT pairs, resolved_at FROM query_results WHERE resolver = ? AND query = ?`,
		resolver, query,
	).Scan(&raw, &entry.ResolvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to read cached query %q: %w", query, err)
	}
	if err := json.Unmarshal([]byte(raw), &entry.Pairs); err != nil {
		return Entry{}, false, fmt.Errorf("corrupt cache entry for %q: %w", query, err)
	}
	entry.Resolver = resolver
	entry.Query = query
	return entry, true, nil
}

// Put stores or replaces an entry.
func (s *Store) Put(ctx context.Context, e Entry) error {
	pairs := e.Pairs
	if pairs == nil {
		pairs = []targets.Pair{}
	}
	raw, err := json.Marshal(pairs)
	if err != nil {
		return fmt.Errorf("failed to encode pairs: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO query_results (resolver, query, pairs, resolved_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (resolver, query) DO UPDATE SET pairs = excluded.pairs, resolved_at = excluded.resolved_at`,
		e.Resolver, e.Query, string(raw), e.ResolvedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to cache query %q: %w", e.Query, err)
	}
	return nil
}

// Entries lists every entry, oldest first.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT resolver, query, pairs, resolved_at FROM query_results ORDER BY resolved_at, resolver, query`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var e Entry
		var raw string
		if err := rows.Scan(&e.Resolver, &e.Query, &raw, &e.ResolvedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &e.Pairs); err != nil {
			return nil, fmt.Errorf("corrupt cache entry for %q: %w", e.Query, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Purge deletes entries resolved before cutoff. A zero cutoff deletes
// everything.
func (s *Store) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if cutoff.IsZero() {
		res, err = s.db.ExecContext(ctx, `DELETE FROM query_results`)
	} else {
		res, err = s.db.ExecContext(ctx, `DELETE FROM query_results WHERE resolved_at < ?`, cutoff.UTC())
	}
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return res.RowsAffected()
}
