// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer. It connects handlers, middleware and
// routes, and decides how the server starts and stops.
//
// WHY SEPARATE FROM main.go?
// Tests build the exact production router through New + Handler without
// opening a port, and cmd/server stays a short list of steps.
//
// DEPENDENCY INJECTION FLOW:
// main.go opens the store (SQLite or Postgres, chosen by config) and passes
// it in as a repository.ProjectRepository:
//
//	store → ProjectService → ProjectHandler
//	store → HealthHandler
//
// This is the "composition root" pattern: all dependencies are wired in one
// place (New/setupRoutes) rather than through package-level globals.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/snippet-catalog/internal/handler"
	"github.com/sakif/snippet-catalog/internal/middleware"
	"github.com/sakif/snippet-catalog/internal/repository"
	"github.com/sakif/snippet-catalog/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port            int
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the store once New succeeds and closes it when Start
// returns, after in-flight requests have drained.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	store  repository.ProjectRepository
}

// New creates a new Server around an already opened store.
func New(cfg Config, logger *slog.Logger, store repository.ProjectRepository) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET    /health                      → store ping (200 / 503)
// GET    /api/projects                → list, ?search= wins over ?category=
// GET    /api/projects/{id}           → single project
// PATCH  /api/projects/{id}           → patch embedded code
// PATCH  /api/projects/{id}/code      → same, path used by the admin page
// GET    /api/categories              → category values and labels
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID: assigns an xid so every later log line can carry it
// 2. RealIP: extracts the client IP from proxy headers
// 3. Logger: logs each request with timing info
// 4. Recoverer: turns panics into 500 instead of crashing
// 5. CORS: answers preflights before routing sees the OPTIONS request
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Set before Route so the /api sub-router inherits them on Mount.
	s.router.NotFound(handler.NotFound)
	s.router.MethodNotAllowed(handler.MethodNotAllowed)

	projectService := service.NewProjectService(s.store, s.logger)
	projectHandler := handler.NewProjectHandler(projectService, s.logger)
	healthHandler := handler.NewHealthHandler(s.store, s.logger)

	s.router.Get("/health", healthHandler.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/projects", projectHandler.HandleList)
		r.Get("/projects/{id}", projectHandler.HandleGet)
		r.Patch("/projects/{id}", projectHandler.HandleUpdateCode)
		r.Patch("/projects/{id}/code", projectHandler.HandleUpdateCode)
		r.Get("/categories", projectHandler.HandleCategories)
	})
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new connections
// 2. Wait up to ShutdownTimeout for in-flight requests
// 3. Close the store (flushes the SQLite WAL / drains the pgx pool)
//
// main.go derives ctx from signal.NotifyContext, so SIGINT and SIGTERM
// land here as a cancelled context.
func (s *Server) Start(ctx context.Context) error {
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}
	return nil
}
