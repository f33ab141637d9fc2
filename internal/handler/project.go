package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/snippet-catalog/internal/apperror"
	"github.com/sakif/snippet-catalog/internal/model"
	"github.com/sakif/snippet-catalog/internal/service"
)

// maxPatchBody bounds a PATCH body: three snippets at the service limit
// plus room for JSON escaping.
const maxPatchBody = 4 * service.MaxCodeLength

// ProjectHandler serves the catalog endpoints.
//
// The handler only translates HTTP to service calls and back. Which query
// runs for a given ?search=&category= combination is decided by
// ProjectService.List, not here.
type ProjectHandler struct {
	service *service.ProjectService
	logger  *slog.Logger
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(svc *service.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{service: svc, logger: logger}
}

// HandleList returns the catalog, optionally filtered.
//
// HTTP: GET /api/projects?category=games
//
//	GET /api/projects?search=tic
//
// A non-empty search wins over category; an unknown category lists
// everything. The response is always 200 with a JSON array, "[]" when
// nothing matches.
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	projects, err := h.service.List(r.Context(), service.Filter{
		Search:   query.Get("search"),
		Category: query.Get("category"),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// HandleGet returns one project with its full snippet text.
//
// HTTP: GET /api/projects/{id}
func (h *ProjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	project, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// HandleUpdateCode patches the embedded snippets of a project.
//
// HTTP: PATCH /api/projects/{id}
//
//	PATCH /api/projects/{id}/code
//
// REQUEST BODY: any subset of {"htmlCode": "...", "cssCode": null, "jsCode": "..."}
//
// A key that is absent leaves the column alone, a null clears it. Unknown
// keys are ignored; a body with none of the three keys is rejected.
func (h *ProjectHandler) HandleUpdateCode(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var patch model.CodePatch
	r.Body = http.MaxBytesReader(w, r.Body, maxPatchBody)
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.logger.Warn("invalid code patch body",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, r, h.logger, decodeError(err))
		return
	}

	project, err := h.service.UpdateCode(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// HandleCategories returns the filterable categories with display labels.
//
// HTTP: GET /api/categories
func (h *ProjectHandler) HandleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Categories())
}

// projectID parses the {id} URL parameter. Only a non-integer is rejected;
// whether the id exists is the store's answer (404), not a parse error.
func projectID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.ValidationFailed("id", "invalid project id: "+strconv.Quote(raw))
	}
	return id, nil
}

// decodeError turns a JSON decode failure into a client-facing validation error.
func decodeError(err error) error {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return apperror.ValidationFailed("body",
			"no fields to update: expected at least one of htmlCode, cssCode, jsCode")
	case errors.As(err, &maxErr):
		return apperror.ValidationFailed("body", "request body too large")
	default:
		return apperror.ValidationFailed("body", "invalid JSON body: "+err.Error())
	}
}
