package account

import (
	"context"

	domain "watchlist/internal/domain/account"
)

// Store persists the single administrator Account.
type Store interface {
	Get(ctx context.Context) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	Exists(ctx context.Context) (bool, error)
}
