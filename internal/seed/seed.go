// Package seed holds the catalog's initial project list.
//
// The list lives in projects.yaml next to this file and is compiled into the
// binary with go:embed, so a fresh deployment can populate an empty database
// without shipping extra files. YAML block scalars keep the embedded HTML/CSS
// snippets readable in review.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sakif/snippet-catalog/internal/model"
)

//go:embed projects.yaml
var projectsYAML []byte

// entry mirrors one item of projects.yaml. Missing code keys stay nil,
// which the store writes as NULL.
type entry struct {
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description"`
	Category      string   `yaml:"category"`
	Technologies  []string `yaml:"technologies"`
	Features      []string `yaml:"features"`
	SourceCodeURL string   `yaml:"sourceCodeUrl"`
	LiveDemoURL   string   `yaml:"liveDemoUrl"`
	HTMLCode      *string  `yaml:"htmlCode"`
	CSSCode       *string  `yaml:"cssCode"`
	JSCode        *string  `yaml:"jsCode"`
}

// Projects decodes and validates the embedded seed list.
func Projects() ([]model.Project, error) {
	return Parse(bytes.NewReader(projectsYAML))
}

// Parse decodes a seed list from r. Unknown keys are rejected so a typo in
// the file (say "categroy") fails loudly instead of seeding empty fields.
func Parse(r io.Reader) ([]model.Project, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var entries []entry
	if err := dec.Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return []model.Project{}, nil
		}
		return nil, fmt.Errorf("seed: decoding projects: %w", err)
	}

	projects := make([]model.Project, 0, len(entries))
	for i, e := range entries {
		p, err := e.toProject()
		if err != nil {
			return nil, fmt.Errorf("seed: entry %d (%q): %w", i, e.Name, err)
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (e entry) toProject() (model.Project, error) {
	if strings.TrimSpace(e.Name) == "" {
		return model.Project{}, errors.New("name is required")
	}
	if strings.TrimSpace(e.Description) == "" {
		return model.Project{}, errors.New("description is required")
	}
	category := model.Category(e.Category)
	if !category.IsStored() {
		return model.Project{}, fmt.Errorf("unknown category %q", e.Category)
	}

	return model.Project{
		Name:          e.Name,
		Description:   e.Description,
		Category:      category,
		Technologies:  append(model.StringList{}, e.Technologies...),
		Features:      append(model.StringList{}, e.Features...),
		SourceCodeURL: e.SourceCodeURL,
		LiveDemoURL:   e.LiveDemoURL,
		HTMLCode:      e.HTMLCode,
		CSSCode:       e.CSSCode,
		JSCode:        e.JSCode,
	}, nil
}

// Seeder is the part of the store the seed run needs.
type Seeder interface {
	Seed(ctx context.Context, projects []model.Project) (int, error)
	Count(ctx context.Context) (int, error)
}

// Result summarises one seed run.
type Result struct {
	Inserted int // rows written by this run (0 when the table was not empty)
	Total    int // rows in the table afterwards
}

// Run seeds store with the embedded project list. It is safe to call on
// every start: a non-empty table is left untouched.
func Run(ctx context.Context, store Seeder, logger *slog.Logger) (Result, error) {
	projects, err := Projects()
	if err != nil {
		return Result{}, err
	}

	inserted, err := store.Seed(ctx, projects)
	if err != nil {
		return Result{}, fmt.Errorf("seeding projects: %w", err)
	}

	total, err := store.Count(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("counting projects after seed: %w", err)
	}

	if inserted == 0 {
		logger.Info("seed skipped, catalog already populated", slog.Int("projects", total))
	} else {
		logger.Info("catalog seeded", slog.Int("inserted", inserted), slog.Int("projects", total))
	}
	return Result{Inserted: inserted, Total: total}, nil
}
