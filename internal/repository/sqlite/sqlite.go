// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside your Go binary as a single file.
// No separate database server to install, configure, or manage. The catalog is a
// few dozen rows that are read far more than written, which is exactly where an
// embedded store shines. Tests use ":memory:" for a throwaway database.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go translation
// of the SQLite C code — no C compiler needed, works everywhere Go works.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements repository.ProjectRepository.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and makes sure the
// projects table exists.
//
// dbPath examples:
//   - "data/catalog.db"  → file-based database (persistent)
//   - ":memory:"         → in-memory database (tests; lost on close)
//
// sql.Open() does NOT actually open a connection — it just creates a pool manager.
// We call Ping() to force an immediate connection and verify it works.
func New(dbPath string) (*DB, error) {
	memory := dbPath == ":memory:"

	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every new connection to ":memory:" is a brand new, empty database.
	// Pinning the pool to one connection keeps the whole test on the same data.
	if memory {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: creating schema: %w", err)
	}

	return db, nil
}

// dsn adds connection pragmas for file databases.
//
// WAL (Write-Ahead Logging) lets readers keep going while the admin endpoint
// writes a patch; busy_timeout makes a writer wait for a lock instead of
// failing immediately with SQLITE_BUSY. Pragmas passed in the DSN are applied
// to every connection the pool opens, not just the first one.
func dsn(dbPath string) string {
	if dbPath == ":memory:" || strings.HasPrefix(dbPath, "file:") {
		return dbPath
	}
	return "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database still answers.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}
	return nil
}

// migrate creates the projects table.
//
// CREATE TABLE IF NOT EXISTS is safe to run on every start. There is no
// migration history: the schema has one shape and never changes in place.
//
// AUTOINCREMENT (not just INTEGER PRIMARY KEY) guarantees SQLite never hands
// out an id that was used before, even if the highest row were removed.
// technologies/features hold JSON arrays as TEXT (see model.StringList).
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS projects (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			name            TEXT NOT NULL,
			description     TEXT NOT NULL,
			category        TEXT NOT NULL,
			technologies    TEXT NOT NULL DEFAULT '[]',
			features        TEXT NOT NULL DEFAULT '[]',
			source_code_url TEXT NOT NULL DEFAULT '',
			live_demo_url   TEXT NOT NULL DEFAULT '',
			html_code       TEXT,
			css_code        TEXT,
			js_code         TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_projects_category ON projects(category);
	`)
	if err != nil {
		return fmt.Errorf("creating projects table: %w", err)
	}
	return nil
}
