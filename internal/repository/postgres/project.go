package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sakif/snippet-catalog/internal/apperror"
	"github.com/sakif/snippet-catalog/internal/model"
	"github.com/sakif/snippet-catalog/internal/repository"
)

var _ repository.ProjectRepository = (*DB)(nil)

const projectColumns = `id, name, description, category, technologies, features,
	source_code_url, live_demo_url, html_code, css_code, js_code`

// scanProject reads one row. pgx hands TEXT values to model.StringList's
// sql.Scanner implementation and sets **string targets to nil on NULL.
func scanProject(row pgx.Row) (model.Project, error) {
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

func (db *DB) queryProjects(ctx context.Context, op, query string, args ...any) ([]model.Project, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: %s: %w", op, err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: %s: %w", op, err)
	}
	return projects, nil
}

func (db *DB) GetAll(ctx context.Context) ([]model.Project, error) {
	return db.queryProjects(ctx, "listing projects",
		`SELECT `+projectColumns+` FROM projects ORDER BY id`)
}

func (db *DB) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	p, err := scanProject(db.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("project", id)
		}
		return nil, fmt.Errorf("postgres: getting project %d: %w", id, err)
	}
	return &p, nil
}

func (db *DB) GetByCategory(ctx context.Context, category model.Category) ([]model.Project, error) {
	return db.queryProjects(ctx, "listing projects by category",
		`SELECT `+projectColumns+` FROM projects WHERE category = $1 ORDER BY id`,
		string(category))
}

// Search uses LOWER(...) LIKE rather than ILIKE so both adapters share the
// same escaped pattern and the same matching rules.
func (db *DB) Search(ctx context.Context, query string) ([]model.Project, error) {
	return db.queryProjects(ctx, "searching projects",
		`SELECT `+projectColumns+` FROM projects
		 WHERE LOWER(name) LIKE $1 ESCAPE '\'
		    OR LOWER(description) LIKE $1 ESCAPE '\'
		    OR LOWER(technologies) LIKE $1 ESCAPE '\'
		 ORDER BY id`,
		repository.ContainsPattern(query))
}

// UpdateCode writes the present code columns and returns the new row in the
// same statement via RETURNING, so the result is exactly what was committed.
func (db *DB) UpdateCode(ctx context.Context, id int64, patch model.CodePatch) (*model.Project, error) {
	assignments := repository.CodeAssignments(patch)
	if len(assignments) == 0 {
		return nil, apperror.ValidationFailed("patch", "no fields to update")
	}

	sets := make([]string, 0, len(assignments))
	args := make([]any, 0, len(assignments)+1)
	for i, a := range assignments {
		sets = append(sets, fmt.Sprintf("%s = $%d", a.Column, i+1))
		args = append(args, a.Value)
	}
	args = append(args, id)

	p, err := scanProject(db.pool.QueryRow(ctx,
		fmt.Sprintf(`UPDATE projects SET %s WHERE id = $%d RETURNING %s`,
			strings.Join(sets, ", "), len(args), projectColumns),
		args...,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("project", id)
		}
		return nil, fmt.Errorf("postgres: updating code for project %d: %w", id, err)
	}
	return &p, nil
}

// Seed inserts projects when the table is empty.
//
// The table lock serialises concurrent seeders (two replicas starting at the
// same time): the second one waits, then sees a non-empty table and skips.
func (db *DB) Seed(ctx context.Context, projects []model.Project) (int, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: beginning seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `LOCK TABLE projects IN EXCLUSIVE MODE`); err != nil {
		return 0, fmt.Errorf("postgres: locking projects: %w", err)
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres: counting projects: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, p := range projects {
		batch.Queue(
			`INSERT INTO projects (name, description, category, technologies, features,
			                       source_code_url, live_demo_url, html_code, css_code, js_code)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			p.Name, p.Description, string(p.Category), p.Technologies, p.Features,
			p.SourceCodeURL, p.LiveDemoURL, p.HTMLCode, p.CSSCode, p.JSCode,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for _, p := range projects {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return 0, fmt.Errorf("postgres: seeding project %q: %w", p.Name, err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("postgres: closing seed batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("postgres: committing seed: %w", err)
	}
	return len(projects), nil
}

func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: counting projects: %w", err)
	}
	return n, nil
}
