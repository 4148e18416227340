package cli

import (
	"context"
	"fmt"

	"watchlist/internal/adapters/storage"
	accountStore "watchlist/internal/adapters/storage/account"
	movieStore "watchlist/internal/adapters/storage/movie"
	"watchlist/internal/application/orchestrators"
)

// runInitDB applies the schema, or with -drop migrates down to nothing first.
func runInitDB(ctx context.Context, env *Env, args []string) error {
	fs := newFlagSet("initdb", env)
	env.Config.RegisterDBFlag(fs)
	drop := fs.Bool("drop", false, "drop all tables before creating them")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := storage.Open(ctx, env.Config.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if *drop {
		err = storage.Reset(ctx, db)
	} else {
		err = storage.Migrate(ctx, db)
	}
	if err != nil {
		return fmt.Errorf("initdb: %w", err)
	}
	fmt.Fprintln(env.Stdout, "Initialized database.")
	return nil
}

// runForge loads the demo list.
func runForge(ctx context.Context, env *Env, args []string) error {
	fs := newFlagSet("forge", env)
	env.Config.RegisterDBFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openDB(ctx, env.Config.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	deps := orchestrators.SeedMoviesDeps{
		AccountStore: accountStore.NewSQLiteStore(db),
		MovieStore:   movieStore.NewSQLiteStore(db),
	}
	if _, err := orchestrators.ExecuteSeedMovies(ctx, deps); err != nil {
		return fmt.Errorf("forge: %w", err)
	}
	fmt.Fprintln(env.Stdout, "Done.")
	return nil
}
