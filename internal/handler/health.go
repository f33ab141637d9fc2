package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/snippet-catalog/internal/apperror"
)

// Pinger is satisfied by both store adapters.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the store answers.
type HealthHandler struct {
	store  Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

// HandleHealth answers 200 {"status":"ok"}, or 503 with the standard error
// body when the store ping fails.
//
// HTTP: GET /health
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", slog.String("error", err.Error()))
		writeError(w, r, h.logger, apperror.Unavailable("store is not answering"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
