package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sakif/snippet-catalog/internal/config"
	"github.com/sakif/snippet-catalog/internal/model"
	"github.com/sakif/snippet-catalog/internal/repository"
	"github.com/sakif/snippet-catalog/internal/seed"
	"github.com/sakif/snippet-catalog/internal/store"
)

// storeFlags are shared by every command that opens a store. Empty values
// fall back to the environment (see internal/config).
type storeFlags struct {
	driver      string
	dbPath      string
	databaseURL string
	verbose     bool
}

func (f *storeFlags) options() (store.Options, error) {
	cfg, err := config.Load()
	if err != nil {
		return store.Options{}, err
	}
	opts := store.FromConfig(cfg)
	if f.driver != "" {
		opts.Driver = f.driver
	}
	if f.dbPath != "" {
		opts.DBPath = f.dbPath
	}
	if f.databaseURL != "" {
		opts.DatabaseURL = f.databaseURL
	}
	return opts, nil
}

func (f *storeFlags) open(ctx context.Context) (repository.ProjectRepository, error) {
	opts, err := f.options()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, opts)
}

func (f *storeFlags) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newRootCmd() *cobra.Command {
	flags := &storeFlags{}

	root := &cobra.Command{
		Use:   "seed",
		Short: "Seed the project catalog",
		Long: `seed creates the projects table if needed and inserts the embedded
catalog when the table is empty. Running it again is a no-op.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			repo, err := flags.open(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			result, err := seed.Run(ctx, repo, flags.logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d projects (%d total)\n", result.Inserted, result.Total)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flags.driver, "driver", "", "store driver: sqlite or postgres (default $STORE_DRIVER)")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "SQLite database file (default $DB_PATH)")
	root.PersistentFlags().StringVar(&flags.databaseURL, "database-url", "", "Postgres connection URL (default $DATABASE_URL)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log seed progress")

	root.AddCommand(newCountCmd(flags), newValidateCmd())
	return root
}

func newCountCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of stored projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			repo, err := flags.open(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			n, err := repo.Count(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the embedded project list without touching a store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projects, err := seed.Projects()
			if err != nil {
				return err
			}

			perCategory := make(map[model.Category]int)
			for _, p := range projects {
				perCategory[p.Category]++
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d projects OK\n", len(projects))
			for _, c := range model.StoredCategories() {
				fmt.Fprintf(out, "  %-18s %d\n", c.Label(), perCategory[c])
			}
			return nil
		},
	}
}
