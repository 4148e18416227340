package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"watchlist/internal/domain/movie"
)

// MovieStoreForWrite defines the store interface needed by the movie orchestrators.
type MovieStoreForWrite interface {
	GetByID(ctx context.Context, id int64) (movie.Movie, error)
	Create(ctx context.Context, m movie.Movie) (int64, error)
	Update(ctx context.Context, m movie.Movie) error
	Delete(ctx context.Context, id int64) error
}

// MovieDeps holds dependencies for the movie orchestrators.
type MovieDeps struct {
	MovieStore MovieStoreForWrite
}

// CreateMovieInput carries input for CreateMovie.
type CreateMovieInput struct {
	Title string
	Year  string
}

// ExecuteCreateMovie validates and appends a new entry.
// PRE: caller is authenticated
// POST: A new movie exists, or ErrInvalidInput and the store is unchanged
func ExecuteCreateMovie(ctx context.Context, input CreateMovieInput, deps MovieDeps) (int64, error) {
	m := movie.Movie{Title: input.Title, Year: input.Year}
	if err := m.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	id, err := deps.MovieStore.Create(ctx, m)
	if err != nil {
		return 0, err
	}

	slog.Info("movie_created", "id", id, "title", m.Title)
	return id, nil
}

// EditMovieInput carries input for EditMovie.
type EditMovieInput struct {
	ID    int64
	Title string
	Year  string
}

// ExecuteEditMovie overwrites an existing entry.
// PRE: caller is authenticated
// POST: Only the row with input.ID changes. An absent id yields ErrNotFound
// before any validation; invalid fields yield ErrInvalidInput.
func ExecuteEditMovie(ctx context.Context, input EditMovieInput, deps MovieDeps) error {
	m, err := deps.MovieStore.GetByID(ctx, input.ID)
	if err != nil {
		return wrapNotFound(err)
	}

	m.Title = input.Title
	m.Year = input.Year
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := deps.MovieStore.Update(ctx, m); err != nil {
		return wrapNotFound(err)
	}

	slog.Info("movie_updated", "id", m.ID, "title", m.Title)
	return nil
}

// ExecuteDeleteMovie removes an entry unconditionally.
// PRE: caller is authenticated
// POST: Row removed, or ErrNotFound when absent
func ExecuteDeleteMovie(ctx context.Context, id int64, deps MovieDeps) error {
	if err := deps.MovieStore.Delete(ctx, id); err != nil {
		return wrapNotFound(err)
	}
	slog.Info("movie_deleted", "id", id)
	return nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, movie.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
