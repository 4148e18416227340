package movie

import (
	"context"

	domain "watchlist/internal/domain/movie"
)

// Store persists watchlist entries.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Movie, error)
	List(ctx context.Context) ([]domain.Movie, error)
	Create(ctx context.Context, value domain.Movie) (int64, error)
	Update(ctx context.Context, value domain.Movie) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
