package projections

import (
	"context"
	"fmt"

	domainMovie "watchlist/internal/domain/movie"
)

// MovieRow is one entry on the list page.
type MovieRow struct {
	ID      int64
	Title   string
	Year    string
	IMDbURL string
}

// GetMovieListResult carries the query result.
type GetMovieListResult struct {
	Movies []MovieRow
	Count  int
}

// GetMovieListDeps holds dependencies for GetMovieList.
type GetMovieListDeps struct {
	MovieStore MovieStore
}

// QueryGetMovieList retrieves every movie in insertion order.
// PRE: none
// POST: Count == len(Movies); Movies is non-nil
func QueryGetMovieList(ctx context.Context, deps GetMovieListDeps) (GetMovieListResult, error) {
	movies, err := deps.MovieStore.List(ctx)
	if err != nil {
		return GetMovieListResult{}, fmt.Errorf("list movies: %w", err)
	}

	rows := make([]MovieRow, 0, len(movies))
	for _, m := range movies {
		rows = append(rows, toMovieRow(m))
	}
	return GetMovieListResult{Movies: rows, Count: len(rows)}, nil
}

func toMovieRow(m domainMovie.Movie) MovieRow {
	return MovieRow{
		ID:      m.ID,
		Title:   m.Title,
		Year:    m.Year,
		IMDbURL: m.IMDbSearchURL(),
	}
}
