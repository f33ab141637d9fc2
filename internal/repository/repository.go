// Package repository declares the storage contract for catalog projects.
// Implementations live in subpackages (sqlite, postgres); the service layer
// depends only on the interface.
package repository

import (
	"context"

	"github.com/sakif/snippet-catalog/internal/model"
)

// ProjectRepository persists and retrieves catalog projects.
//
// Every list method returns projects ordered by ascending id and a non-nil
// (possibly empty) slice. GetByID and UpdateCode return an
// apperror.ErrNotFound error when the id does not exist.
type ProjectRepository interface {
	GetAll(ctx context.Context) ([]model.Project, error)
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	GetByCategory(ctx context.Context, category model.Category) ([]model.Project, error)

	// Search matches query case-insensitively as a substring of name,
	// description or the serialized technologies text.
	Search(ctx context.Context, query string) ([]model.Project, error)

	// UpdateCode writes only the fields present in patch, in a single
	// statement, and returns the reloaded project.
	UpdateCode(ctx context.Context, id int64, patch model.CodePatch) (*model.Project, error)

	// Seed inserts projects only when the table is empty and returns how
	// many rows it inserted (0 when skipped). Ids are assigned by the store.
	Seed(ctx context.Context, projects []model.Project) (int, error)

	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Close() error
}
