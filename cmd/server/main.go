// Package main is the entry point for the snippet catalog server.
//
// MAIN PACKAGE IN GO:
// The main package should be kept minimal. Its job is to:
// 1. Read configuration (from env vars)
// 2. Create dependencies (logger, store)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/service, etc.).
//
// WHY cmd/server/?
// The cmd/ directory is a Go convention for executable entry points.
// This project has two: cmd/server (the HTTP API) and cmd/seed (the seeding CLI).
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sakif/snippet-catalog/internal/config"
	"github.com/sakif/snippet-catalog/internal/logging"
	"github.com/sakif/snippet-catalog/internal/seed"
	"github.com/sakif/snippet-catalog/internal/server"
	"github.com/sakif/snippet-catalog/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// SIGINT (Ctrl+C) and SIGTERM (docker stop, systemd) cancel ctx, which
	// Server.Start treats as the cue for a graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === 1. CONFIGURATION ===
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// === 2. LOGGING ===
	logger, logCloser, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		return err
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	// === 3. STORE ===
	// The server takes ownership after server.New and closes it on shutdown.
	repo, err := store.Open(ctx, store.FromConfig(cfg))
	if err != nil {
		return err
	}
	logger.Info("store opened",
		slog.String("driver", cfg.StoreDriver),
		slog.String("database", cfg.DBPath),
	)

	// === 4. SEED ===
	// Idempotent: a populated table is left untouched.
	if cfg.SeedOnStart {
		if _, err := seed.Run(ctx, repo, logger); err != nil {
			repo.Close()
			return err
		}
	}

	// === 5. SERVE ===
	srv := server.New(server.Config{
		Port:            cfg.Port,
		ShutdownTimeout: cfg.ShutdownTimeout,
		CORSOrigins:     cfg.CORSOrigins,
	}, logger, repo)

	return srv.Start(ctx)
}
