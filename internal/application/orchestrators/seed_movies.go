package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"watchlist/internal/domain/account"
	"watchlist/internal/domain/movie"
)

// DemoMovies is the watchlist loaded by the forge command.
var DemoMovies = []movie.Movie{
	{Title: "My Neighbor Totoro", Year: "1988"},
	{Title: "Dead Poets Society", Year: "1989"},
	{Title: "A Perfect World", Year: "1993"},
	{Title: "Leon", Year: "1994"},
	{Title: "Mahjong", Year: "1996"},
	{Title: "Swallowtail Butterfly", Year: "1996"},
	{Title: "King of Comedy", Year: "1999"},
	{Title: "Devils on the Doorstep", Year: "1999"},
	{Title: "WALL-E", Year: "2008"},
	{Title: "The Pork of Music", Year: "2012"},
}

// MovieStoreForSeed defines the store interface needed by SeedMovies.
type MovieStoreForSeed interface {
	Create(ctx context.Context, m movie.Movie) (int64, error)
	Count(ctx context.Context) (int, error)
}

// SeedMoviesDeps holds dependencies for SeedMovies.
type SeedMoviesDeps struct {
	AccountStore AccountStoreForUpsert
	MovieStore   MovieStoreForSeed
}

// SeedMoviesResult reports what the seed wrote.
type SeedMoviesResult struct {
	AccountCreated bool
	MoviesCreated  int
}

// ExecuteSeedMovies loads the demo watchlist.
// PRE: Database is initialized
// POST: An account row exists (a name-only placeholder when none was
// provisioned) and DemoMovies are stored if the movie table was empty
func ExecuteSeedMovies(ctx context.Context, deps SeedMoviesDeps) (SeedMoviesResult, error) {
	var result SeedMoviesResult

	_, err := deps.AccountStore.Get(ctx)
	switch {
	case errors.Is(err, account.ErrNotFound):
		placeholder := account.Account{ID: account.AdminID, Name: account.PlaceholderName}
		if err := deps.AccountStore.Save(ctx, placeholder); err != nil {
			return result, fmt.Errorf("seed account: %w", err)
		}
		result.AccountCreated = true
	case err != nil:
		return result, fmt.Errorf("load admin: %w", err)
	}

	count, err := deps.MovieStore.Count(ctx)
	if err != nil {
		return result, err
	}
	if count > 0 {
		slog.Info("seed_skipped", "reason", "movies_exist", "count", count)
		return result, nil
	}

	for _, m := range DemoMovies {
		if _, err := deps.MovieStore.Create(ctx, m); err != nil {
			return result, fmt.Errorf("seed movie %q: %w", m.Title, err)
		}
		result.MoviesCreated++
	}

	slog.Info("seed_complete", "movies", result.MoviesCreated, "account_created", result.AccountCreated)
	return result, nil
}
