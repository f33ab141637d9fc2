// Package store opens the configured Record Store adapter.
//
// Both entry points (the HTTP server and the seed CLI) need the same
// "driver name → concrete adapter" switch, so it lives here instead of
// being copied into each main package.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sakif/snippet-catalog/internal/config"
	"github.com/sakif/snippet-catalog/internal/repository"
	"github.com/sakif/snippet-catalog/internal/repository/postgres"
	"github.com/sakif/snippet-catalog/internal/repository/sqlite"
)

// Options selects and addresses a store.
type Options struct {
	Driver      string // config.DriverSQLite or config.DriverPostgres
	DBPath      string // SQLite file, or ":memory:"
	DatabaseURL string // Postgres DSN
}

// Open connects to the store described by opts and makes sure the projects
// table exists. The caller owns the result and must Close it.
func Open(ctx context.Context, opts Options) (repository.ProjectRepository, error) {
	switch opts.Driver {
	case config.DriverSQLite, "":
		if opts.DBPath != ":memory:" {
			// os.MkdirAll is a no-op when the directory already exists (like `mkdir -p`).
			if err := os.MkdirAll(filepath.Dir(opts.DBPath), 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		db, err := sqlite.New(opts.DBPath)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DriverPostgres:
		if opts.DatabaseURL == "" {
			return nil, errors.New("postgres driver needs a database URL")
		}
		db, err := postgres.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

// FromConfig builds Options from the loaded configuration.
func FromConfig(cfg *config.Config) Options {
	return Options{
		Driver:      cfg.StoreDriver,
		DBPath:      cfg.DBPath,
		DatabaseURL: cfg.DatabaseURL,
	}
}
