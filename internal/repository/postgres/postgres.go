// Package postgres implements repository.ProjectRepository on PostgreSQL
// using a pgx connection pool.
//
// The catalog was first deployed against a hosted Postgres; this adapter
// keeps that deployment option. Column layout matches the SQLite adapter so
// both read and write the same JSON-in-TEXT list columns.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB holds the pgx pool. It owns the pool and closes it in Close.
type DB struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
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
CREATE INDEX IF NOT EXISTS idx_projects_category ON projects (category);
`

// New connects to databaseURL, verifies the connection and creates the
// projects table if needed.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: connecting: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: pinging: %w", err)
	}

	db := &DB{pool: pool}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: creating schema: %w", err)
	}
	return db, nil
}

// Ping checks that the database still answers.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}

// Close releases every pooled connection. pgxpool.Close does not report errors.
func (db *DB) Close() error {
	db.pool.Close()
	return nil
}
