// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, picks the query, enforces rules
//	Repository (Data layer)  → reads/writes the projects table
//
// ProjectService takes a repository.ProjectRepository (interface), NOT a
// concrete *sqlite.DB, so tests inject an in-memory mock and production
// picks SQLite or Postgres in main.go without this package changing.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sakif/snippet-catalog/internal/apperror"
	"github.com/sakif/snippet-catalog/internal/model"
	"github.com/sakif/snippet-catalog/internal/repository"
)

// MaxCodeLength caps each embedded snippet (~256KB of source).
const MaxCodeLength = 256 * 1024

// Filter is the listing intent of a request. Both fields are raw user input.
//
// PRECEDENCE: a non-empty Search wins and Category is ignored entirely
// (not validated, not combined). This matches how the catalog has always
// behaved; combining them with AND would be a product change.
type Filter struct {
	Search   string
	Category string
}

// ProjectService answers catalog queries and applies code patches.
type ProjectService struct {
	repo   repository.ProjectRepository
	logger *slog.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(repo repository.ProjectRepository, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		repo:   repo,
		logger: logger,
	}
}

// List returns the projects matching filter, ordered by id.
//
// Dispatch, in order:
//  1. Search is non-empty       → substring search (Category ignored)
//  2. Category is a known value → exact category match
//  3. anything else             → everything
//
// An unknown category never reaches the store; it is treated like "all".
// Search text is passed through as typed (no trimming), so " " searches for
// a space.
func (s *ProjectService) List(ctx context.Context, filter Filter) ([]model.Project, error) {
	if query := filter.Search; query != "" {
		projects, err := s.repo.Search(ctx, s.normalizeQuery(query))
		if err != nil {
			s.logger.Error("failed to search projects",
				slog.String("query", query),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("searching projects: %w", err)
		}
		return projects, nil
	}

	if filter.Category == "" {
		return s.listAll(ctx)
	}

	category, ok := model.ParseCategory(filter.Category)
	if !ok {
		s.logger.Debug("unknown category, listing all projects",
			slog.String("category", filter.Category))
		return s.listAll(ctx)
	}
	if category == model.CategoryAll {
		return s.listAll(ctx)
	}

	projects, err := s.repo.GetByCategory(ctx, category)
	if err != nil {
		s.logger.Error("failed to list projects by category",
			slog.String("category", string(category)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing projects by category: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) listAll(ctx context.Context) ([]model.Project, error) {
	projects, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list projects", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// normalizeQuery lowercases with Unicode rules. SQL LOWER() in SQLite only
// folds ASCII, so "ÉCLAIR" must already be "éclair" when it reaches the store.
// A Caser keeps state, so each call gets its own instead of sharing one
// across concurrent requests.
func (s *ProjectService) normalizeQuery(query string) string {
	return cases.Lower(language.Und).String(query)
}

// Get returns a single project. Returns apperror.ErrNotFound if it doesn't exist.
//
// Any parsed id is looked up; ids the store never assigns (0, negatives)
// simply come back as not found.
func (s *ProjectService) Get(ctx context.Context, id int64) (*model.Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		// NotFound is a normal answer, not a failure worth an error log.
		if !errors.Is(err, apperror.ErrNotFound) {
			s.logger.Error("failed to get project",
				slog.Int64("id", id),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}
	return project, nil
}

// UpdateCode applies a code patch and returns the updated project.
//
// Validation happens before the store is touched: an empty patch or an
// oversized snippet never reaches the repository.
func (s *ProjectService) UpdateCode(ctx context.Context, id int64, patch model.CodePatch) (*model.Project, error) {
	if patch.IsEmpty() {
		return nil, apperror.ValidationFailed("patch",
			"no fields to update: expected at least one of htmlCode, cssCode, jsCode")
	}
	for field, value := range map[string]model.NullableString{
		"htmlCode": patch.HTMLCode,
		"cssCode":  patch.CSSCode,
		"jsCode":   patch.JSCode,
	} {
		if value.Value != nil && len(*value.Value) > MaxCodeLength {
			return nil, apperror.ValidationFailed(field,
				fmt.Sprintf("%s must be %d bytes or less", field, MaxCodeLength))
		}
	}

	project, err := s.repo.UpdateCode(ctx, id, patch)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update project code",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating project code: %w", err)
	}

	s.logger.Info("project code updated",
		slog.Int64("id", project.ID),
		slog.String("name", project.Name),
		slog.Bool("html", patch.HTMLCode.Set),
		slog.Bool("css", patch.CSSCode.Set),
		slog.Bool("js", patch.JSCode.Set),
	)
	return project, nil
}

// Categories lists the filterable categories with labels, "all" first.
func (s *ProjectService) Categories() []model.CategoryInfo {
	return model.Categories()
}
