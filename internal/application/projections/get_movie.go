package projections

import (
	"context"
	"errors"
	"fmt"

	domainMovie "watchlist/internal/domain/movie"
)

// ErrNotFound is returned when the requested movie does not exist.
var ErrNotFound = errors.New("not found")

// GetMovieDeps holds dependencies for GetMovie.
type GetMovieDeps struct {
	MovieStore MovieStore
}

// QueryGetMovie loads a single movie for the edit form.
// PRE: id > 0
// POST: Returns the row or an error wrapping ErrNotFound
func QueryGetMovie(ctx context.Context, id int64, deps GetMovieDeps) (MovieRow, error) {
	m, err := deps.MovieStore.GetByID(ctx, id)
	if errors.Is(err, domainMovie.ErrNotFound) {
		return MovieRow{}, fmt.Errorf("%w: movie %d", ErrNotFound, id)
	}
	if err != nil {
		return MovieRow{}, fmt.Errorf("get movie %d: %w", id, err)
	}
	return toMovieRow(m), nil
}
