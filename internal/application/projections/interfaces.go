package projections

import (
	"context"

	domainAccount "watchlist/internal/domain/account"
	domainMovie "watchlist/internal/domain/movie"
)

// MovieStore interface for movie queries.
type MovieStore interface {
	GetByID(ctx context.Context, id int64) (domainMovie.Movie, error)
	List(ctx context.Context) ([]domainMovie.Movie, error)
}

// AccountStore interface for account queries.
type AccountStore interface {
	Get(ctx context.Context) (domainAccount.Account, error)
}
