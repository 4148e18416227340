package projections

import (
	"context"
	"errors"
	"fmt"

	domainAccount "watchlist/internal/domain/account"
)

// GetAdminNameDeps holds dependencies for GetAdminName.
type GetAdminNameDeps struct {
	AccountStore AccountStore
}

// QueryGetAdminName returns the display name shown in the page header.
// PRE: none
// POST: Returns "" when no account has been provisioned
func QueryGetAdminName(ctx context.Context, deps GetAdminNameDeps) (string, error) {
	acct, err := deps.AccountStore.Get(ctx)
	if errors.Is(err, domainAccount.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get admin name: %w", err)
	}
	return acct.Name, nil
}
