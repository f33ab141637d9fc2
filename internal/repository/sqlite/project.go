package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sakif/snippet-catalog/internal/apperror"
	"github.com/sakif/snippet-catalog/internal/model"
	"github.com/sakif/snippet-catalog/internal/repository"
)

// Compile-time check that *DB implements repository.ProjectRepository.
var _ repository.ProjectRepository = (*DB)(nil)

// projectColumns is the SELECT list shared by every read. scanProject
// depends on this exact order.
const projectColumns = `id, name, description, category, technologies, features,
	source_code_url, live_demo_url, html_code, css_code, js_code`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanProject reads one row into a model.Project.
//
// technologies/features scan through model.StringList's Scan method, which
// decodes the JSON text. The code columns are nullable, so they scan into
// **string: database/sql sets the pointer to nil for NULL.
func scanProject(row rowScanner) (model.Project, error) {
	var (
		p        model.Project
		category string
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&category,
		&p.Technologies,
		&p.Features,
		&p.SourceCodeURL,
		&p.LiveDemoURL,
		&p.HTMLCode,
		&p.CSSCode,
		&p.JSCode,
	)
	p.Category = model.Category(category)
	return p, err
}

// queryProjects runs a SELECT and collects every row. The result is never nil,
// so an empty match encodes as [] rather than null.
func (db *DB) queryProjects(ctx context.Context, op, query string, args ...any) ([]model.Project, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %s: %w", op, err)
	}
	// CRITICAL: always close rows when done, or the connection never returns to the pool.
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating projects: %w", err)
	}
	return projects, nil
}

// GetAll returns every project ordered by id.
func (db *DB) GetAll(ctx context.Context) ([]model.Project, error) {
	return db.queryProjects(ctx, "listing projects",
		`SELECT `+projectColumns+` FROM projects ORDER BY id`)
}

// GetByID retrieves a single project.
// sql.ErrNoRows is translated to apperror.NotFound so the handler can answer 404.
func (db *DB) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	p, err := scanProject(db.conn.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("project", id)
		}
		return nil, fmt.Errorf("sqlite: getting project %d: %w", id, err)
	}
	return &p, nil
}

// GetByCategory returns the projects whose category equals category exactly.
func (db *DB) GetByCategory(ctx context.Context, category model.Category) ([]model.Project, error) {
	return db.queryProjects(ctx, "listing projects by category",
		`SELECT `+projectColumns+` FROM projects WHERE category = ? ORDER BY id`,
		string(category))
}

// Search matches the query against name, description and the raw JSON text
// of technologies.
//
// Matching the JSON text (not each tag) is an accepted approximation: "css"
// matches a project tagged "CSS", but so does a query that spans two tags
// like `html","css`.
func (db *DB) Search(ctx context.Context, query string) ([]model.Project, error) {
	pattern := repository.ContainsPattern(query)
	return db.queryProjects(ctx, "searching projects",
		`SELECT `+projectColumns+` FROM projects
		 WHERE LOWER(name) LIKE ? ESCAPE '\'
		    OR LOWER(description) LIKE ? ESCAPE '\'
		    OR LOWER(technologies) LIKE ? ESCAPE '\'
		 ORDER BY id`,
		pattern, pattern, pattern)
}

// UpdateCode sets only the code columns present in patch.
//
// The UPDATE is a single statement, so SQLite applies it atomically; the
// reload afterwards is a separate read. RowsAffected == 0 means the id does
// not exist. Concurrent patches to the same project: last write wins.
func (db *DB) UpdateCode(ctx context.Context, id int64, patch model.CodePatch) (*model.Project, error) {
	assignments := repository.CodeAssignments(patch)
	if len(assignments) == 0 {
		return nil, apperror.ValidationFailed("patch", "no fields to update")
	}

	sets := make([]string, 0, len(assignments))
	args := make([]any, 0, len(assignments)+1)
	for _, a := range assignments {
		sets = append(sets, a.Column+" = ?")
		args = append(args, a.Value)
	}
	args = append(args, id)

	result, err := db.conn.ExecContext(ctx,
		`UPDATE projects SET `+strings.Join(sets, ", ")+` WHERE id = ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating code for project %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperror.NotFound("project", id)
	}

	return db.GetByID(ctx, id)
}

// Seed inserts projects when the table is empty.
//
// The emptiness check and the inserts share one transaction, so a partially
// seeded table is never visible: either every row lands or none does.
// The ID field of the input is ignored; SQLite assigns ids in input order.
func (db *DB) Seed(ctx context.Context, projects []model.Project) (int, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: beginning seed transaction: %w", err)
	}
	// Rollback after Commit is a no-op, so this is safe on every path.
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite: counting projects: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO projects (name, description, category, technologies, features,
		                       source_code_url, live_demo_url, html_code, css_code, js_code)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("sqlite: preparing seed insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range projects {
		if _, err := stmt.ExecContext(ctx,
			p.Name,
			p.Description,
			string(p.Category),
			p.Technologies,
			p.Features,
			p.SourceCodeURL,
			p.LiveDemoURL,
			p.HTMLCode,
			p.CSSCode,
			p.JSCode,
		); err != nil {
			return 0, fmt.Errorf("sqlite: seeding project %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: committing seed: %w", err)
	}
	return len(projects), nil
}

// Count returns the number of stored projects.
func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting projects: %w", err)
	}
	return n, nil
}
