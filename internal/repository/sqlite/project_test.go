package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sakif/snippet-catalog/internal/apperror"
	"github.com/sakif/snippet-catalog/internal/model"
)

// newTestDB opens a fresh in-memory database. t.Cleanup closes it when the
// test (or subtest) finishes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(s string) *string { return &s }

// fixtures is a small catalog covering every category plus a project with code.
func fixtures() []model.Project {
	return []model.Project{
		{
			Name: "Simple 404 Page", Description: "A clean 404 page.",
			Category:     model.CategoryHTMLCSS,
			Technologies: model.StringList{"HTML", "CSS"},
			Features:     model.StringList{"Responsive design", "Back to home button"},
			HTMLCode:     strPtr("<h1>404</h1>"), CSSCode: strPtr("h1{color:red}"),
		},
		{
			Name: "Tic Tac Toe JavaScript", Description: "Classic two-player game.",
			Category:     model.CategoryGames,
			Technologies: model.StringList{"HTML", "CSS", "JavaScript"},
			Features:     model.StringList{"Win detection"},
		},
		{
			Name: "Neon Light Text", Description: "Glowing text with 100% CSS.",
			Category:     model.CategoryAnimations,
			Technologies: model.StringList{"HTML", "CSS"},
			Features:     model.StringList{},
		},
		{
			Name: "Glassmorphism Login Form", Description: "Frosted glass login.",
			Category:     model.CategoryFormsUI,
			Technologies: model.StringList{"HTML", "CSS", "Bootstrap"},
			Features:     model.StringList{"Backdrop blur"},
		},
		{
			Name: "Drawing App", Description: "Canvas drawing tool.",
			Category:     model.CategoryJavaScript,
			Technologies: model.StringList{"HTML", "CSS", "JavaScript"},
			Features:     model.StringList{"Brush sizes", "Brush sizes"},
		},
	}
}

func seedFixtures(t *testing.T, db *DB) []model.Project {
	t.Helper()
	n, err := db.Seed(context.Background(), fixtures())
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if n != len(fixtures()) {
		t.Fatalf("Seed() inserted %d, want %d", n, len(fixtures()))
	}
	all, err := db.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	return all
}

func names(projects []model.Project) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.Name
	}
	return out
}

func assertAscendingIDs(t *testing.T, projects []model.Project) {
	t.Helper()
	for i := 1; i < len(projects); i++ {
		if projects[i-1].ID >= projects[i].ID {
			t.Fatalf("ids not ascending at %d: %d then %d", i, projects[i-1].ID, projects[i].ID)
		}
	}
}

// =========================================================================
// SEED
// =========================================================================

func TestSeed_EmptyTableInsertsAll(t *testing.T) {
	db := newTestDB(t)
	seedFixtures(t, db)

	count, err := db.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != len(fixtures()) {
		t.Errorf("Count() = %d, want %d", count, len(fixtures()))
	}
}

func TestSeed_NonEmptyTableIsNoop(t *testing.T) {
	db := newTestDB(t)
	seedFixtures(t, db)

	n, err := db.Seed(context.Background(), fixtures())
	if err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}
	if n != 0 {
		t.Errorf("second Seed() inserted %d, want 0", n)
	}

	count, _ := db.Count(context.Background())
	if count != len(fixtures()) {
		t.Errorf("Count() after reseed = %d, want %d", count, len(fixtures()))
	}
}

func TestSeed_AssignsIDsInInputOrder(t *testing.T) {
	db := newTestDB(t)
	all := seedFixtures(t, db)

	assertAscendingIDs(t, all)
	for i, want := range fixtures() {
		if all[i].Name != want.Name {
			t.Errorf("row %d = %q, want %q", i, all[i].Name, want.Name)
		}
	}
}

func TestNew_FileDatabasePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	db, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	seedFixtures(t, db)
	db.Close()

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	count, err := reopened.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != len(fixtures()) {
		t.Errorf("Count() after reopen = %d, want %d", count, len(fixtures()))
	}
}

// =========================================================================
// READS
// =========================================================================

func TestGetAll_Empty(t *testing.T) {
	db := newTestDB(t)

	projects, err := db.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if projects == nil {
		t.Error("GetAll() returned nil slice, want empty slice")
	}
	if len(projects) != 0 {
		t.Errorf("GetAll() len = %d, want 0", len(projects))
	}
}

func TestGetByID_RoundTripsListsAndCode(t *testing.T) {
	db := newTestDB(t)
	all := seedFixtures(t, db)

	got, err := db.GetByID(context.Background(), all[0].ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	want := fixtures()[0]
	if len(got.Technologies) != 2 || got.Technologies[0] != "HTML" || got.Technologies[1] != "CSS" {
		t.Errorf("Technologies = %v, want %v", got.Technologies, want.Technologies)
	}
	if len(got.Features) != len(want.Features) {
		t.Errorf("Features = %v, want %v", got.Features, want.Features)
	}
	if got.HTMLCode == nil || *got.HTMLCode != "<h1>404</h1>" {
		t.Errorf("HTMLCode = %v, want <h1>404</h1>", got.HTMLCode)
	}
	if got.JSCode != nil {
		t.Errorf("JSCode = %q, want nil", *got.JSCode)
	}
	if got.Category != model.CategoryHTMLCSS {
		t.Errorf("Category = %q, want %q", got.Category, model.CategoryHTMLCSS)
	}
}

func TestGetByID_DuplicateFeaturesSurvive(t *testing.T) {
	db := newTestDB(t)
	all := seedFixtures(t, db)

	got, err := db.GetByID(context.Background(), all[4].ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(got.Features) != 2 || got.Features[0] != "Brush sizes" || got.Features[1] != "Brush sizes" {
		t.Errorf("Features = %v, want duplicates preserved", got.Features)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	p, err := db.GetByID(context.Background(), 999)
	if p != nil {
		t.Errorf("GetByID() returned %v, want nil", p)
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestGetByCategory_OnlyMatchingAscending(t *testing.T) {
	db := newTestDB(t)
	seedFixtures(t, db)

	for _, c := range model.StoredCategories() {
		t.Run(string(c), func(t *testing.T) {
			projects, err := db.GetByCategory(context.Background(), c)
			if err != nil {
				t.Fatalf("GetByCategory() error = %v", err)
			}
			if len(projects) == 0 {
				t.Fatalf("GetByCategory(%q) returned nothing", c)
			}
			for _, p := range projects {
				if p.Category != c {
					t.Errorf("project %q has category %q, want %q", p.Name, p.Category, c)
				}
			}
			assertAscendingIDs(t, projects)
		})
	}
}

func TestGetByCategory_UnknownReturnsEmpty(t *testing.T) {
	db := newTestDB(t)
	seedFixtures(t, db)

	projects, err := db.GetByCategory(context.Background(), "all")
	if err != nil {
		t.Fatalf("GetByCategory() error = %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("GetByCategory(all) = %v, want none (all is never stored)", names(projects))
	}
}

// =========================================================================
// SEARCH
// =========================================================================

func TestSearch(t *testing.T) {
	db := newTestDB(t)
	seedFixtures(t, db)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "name, case-insensitive", query: "TIC", want: []string{"Tic Tac Toe JavaScript"}},
		{name: "description", query: "frosted", want: []string{"Glassmorphism Login Form"}},
		{name: "technology tag", query: "bootstrap", want: []string{"Glassmorphism Login Form"}},
		{
			name:  "serialized technologies spanning two tags",
			query: `css","javascript`,
			want:  []string{"Tic Tac Toe JavaScript", "Drawing App"},
		},
		{name: "percent is literal", query: "100%", want: []string{"Neon Light Text"}},
		{name: "underscore is literal", query: "a_p", want: []string{}},
		{name: "no match", query: "kubernetes", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projects, err := db.Search(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			got := names(projects)
			if len(got) != len(tt.want) {
				t.Fatalf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Search(%q)[%d] = %q, want %q", tt.query, i, got[i], tt.want[i])
				}
			}
			assertAscendingIDs(t, projects)
		})
	}
}

// =========================================================================
// UPDATE CODE
// =========================================================================

func TestUpdateCode_OnlyTouchesPresentFields(t *testing.T) {
	db := newTestDB(t)
	all := seedFixtures(t, db)
	id := all[0].ID

	got, err := db.UpdateCode(context.Background(), id, model.CodePatch{
		JSCode: model.NewNullableString("x"),
	})
	if err != nil {
		t.Fatalf("UpdateCode() error = %v", err)
	}

	if got.JSCode == nil || *got.JSCode != "x" {
		t.Errorf("JSCode = %v, want x", got.JSCode)
	}
	if got.HTMLCode == nil || *got.HTMLCode != "<h1>404</h1>" {
		t.Errorf("HTMLCode changed to %v", got.HTMLCode)
	}
	if got.CSSCode == nil || *got.CSSCode != "h1{color:red}" {
		t.Errorf("CSSCode changed to %v", got.CSSCode)
	}
	if got.Name != all[0].Name || len(got.Technologies) != len(all[0].Technologies) {
		t.Errorf("metadata changed: %+v", got)
	}
}

func TestUpdateCode_NullClears(t *testing.T) {
	db := newTestDB(t)
	all := seedFixtures(t, db)

	got, err := db.UpdateCode(context.Background(), all[0].ID, model.CodePatch{
		CSSCode: model.Null(),
	})
	if err != nil {
		t.Fatalf("UpdateCode() error = %v", err)
	}
	if got.CSSCode != nil {
		t.Errorf("CSSCode = %q, want nil", *got.CSSCode)
	}
	if got.HTMLCode == nil {
		t.Error("HTMLCode cleared, want unchanged")
	}

	// Reading again proves the NULL was persisted, not just returned.
	reloaded, _ := db.GetByID(context.Background(), all[0].ID)
	if reloaded.CSSCode != nil {
		t.Errorf("persisted CSSCode = %q, want nil", *reloaded.CSSCode)
	}
}

func TestUpdateCode_EmptyStringIsNotNull(t *testing.T) {
	db := newTestDB(t)
	all := seedFixtures(t, db)

	got, err := db.UpdateCode(context.Background(), all[1].ID, model.CodePatch{
		HTMLCode: model.NewNullableString(""),
	})
	if err != nil {
		t.Fatalf("UpdateCode() error = %v", err)
	}
	if got.HTMLCode == nil || *got.HTMLCode != "" {
		t.Errorf("HTMLCode = %v, want empty string", got.HTMLCode)
	}
}

func TestUpdateCode_NotFound(t *testing.T) {
	db := newTestDB(t)
	seedFixtures(t, db)

	_, err := db.UpdateCode(context.Background(), 999, model.CodePatch{
		HTMLCode: model.NewNullableString("<p>"),
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateCode() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateCode_EmptyPatchRejected(t *testing.T) {
	db := newTestDB(t)
	all := seedFixtures(t, db)

	_, err := db.UpdateCode(context.Background(), all[0].ID, model.CodePatch{})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("UpdateCode() error = %v, want ErrValidation", err)
	}
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
