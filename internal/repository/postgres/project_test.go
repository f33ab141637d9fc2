package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sakif/snippet-catalog/internal/apperror"
	"github.com/sakif/snippet-catalog/internal/model"
)

// startPostgres runs a throwaway Postgres container for the duration of the
// test. It skips under -short and when no Docker daemon is reachable, so the
// unit suite stays runnable on machines without Docker.
func startPostgres(t *testing.T) *DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("catalog_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminating postgres container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// reset empties the table and restarts the identity so each subtest sees
// ids starting at 1.
func reset(t *testing.T, db *DB) {
	t.Helper()
	_, err := db.pool.Exec(context.Background(), `TRUNCATE projects RESTART IDENTITY`)
	require.NoError(t, err)
}

func strPtr(s string) *string { return &s }

func fixtures() []model.Project {
	return []model.Project{
		{
			Name: "Simple 404 Page", Description: "A clean 404 page.",
			Category:     model.CategoryHTMLCSS,
			Technologies: model.StringList{"HTML", "CSS"},
			Features:     model.StringList{"Responsive design"},
			HTMLCode:     strPtr("<h1>404</h1>"), CSSCode: strPtr("h1{}"),
		},
		{
			Name: "Tic Tac Toe JavaScript", Description: "Classic two-player game.",
			Category:     model.CategoryGames,
			Technologies: model.StringList{"HTML", "CSS", "JavaScript"},
			Features:     model.StringList{"Win detection", "Win detection"},
		},
		{
			Name: "Neon Light Text", Description: "Glowing text with 100% CSS.",
			Category:     model.CategoryAnimations,
			Technologies: model.StringList{"HTML", "CSS"},
			Features:     model.StringList{},
		},
	}
}

func TestPostgresRepository(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	t.Run("seed is idempotent", func(t *testing.T) {
		reset(t, db)

		n, err := db.Seed(ctx, fixtures())
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		n, err = db.Seed(ctx, fixtures())
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		count, err := db.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("reads round trip lists and nullable code", func(t *testing.T) {
		reset(t, db)
		_, err := db.Seed(ctx, fixtures())
		require.NoError(t, err)

		all, err := db.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []int64{1, 2, 3}, []int64{all[0].ID, all[1].ID, all[2].ID})

		assert.Equal(t, model.StringList{"HTML", "CSS"}, all[0].Technologies)
		assert.Equal(t, model.StringList{"Win detection", "Win detection"}, all[1].Features)
		assert.Equal(t, model.StringList{}, all[2].Features)
		require.NotNil(t, all[0].HTMLCode)
		assert.Equal(t, "<h1>404</h1>", *all[0].HTMLCode)
		assert.Nil(t, all[0].JSCode)
	})

	t.Run("category filter and search", func(t *testing.T) {
		reset(t, db)
		_, err := db.Seed(ctx, fixtures())
		require.NoError(t, err)

		games, err := db.GetByCategory(ctx, model.CategoryGames)
		require.NoError(t, err)
		require.Len(t, games, 1)
		assert.Equal(t, "Tic Tac Toe JavaScript", games[0].Name)

		found, err := db.Search(ctx, "TIC")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Tic Tac Toe JavaScript", found[0].Name)

		found, err = db.Search(ctx, "100%")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Neon Light Text", found[0].Name)

		found, err = db.Search(ctx, "css")
		require.NoError(t, err)
		assert.Len(t, found, 3, "every fixture lists CSS in technologies")
	})

	t.Run("update code is partial", func(t *testing.T) {
		reset(t, db)
		_, err := db.Seed(ctx, fixtures())
		require.NoError(t, err)

		got, err := db.UpdateCode(ctx, 1, model.CodePatch{
			JSCode:  model.NewNullableString("x"),
			CSSCode: model.Null(),
		})
		require.NoError(t, err)
		require.NotNil(t, got.JSCode)
		assert.Equal(t, "x", *got.JSCode)
		assert.Nil(t, got.CSSCode)
		require.NotNil(t, got.HTMLCode)
		assert.Equal(t, "<h1>404</h1>", *got.HTMLCode)

		_, err = db.UpdateCode(ctx, 999, model.CodePatch{JSCode: model.NewNullableString("x")})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("missing id is not found", func(t *testing.T) {
		reset(t, db)
		p, err := db.GetByID(ctx, 42)
		assert.Nil(t, p)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}
