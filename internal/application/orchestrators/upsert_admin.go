package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"watchlist/internal/domain/account"
)

// AccountStoreForUpsert defines the store interface needed by UpsertAdmin.
type AccountStoreForUpsert interface {
	Get(ctx context.Context) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// UpsertAdminInput carries input for the admin provisioning command.
// Name is optional; when empty an existing name is kept and a new
// account gets account.DefaultName.
type UpsertAdminInput struct {
	Username string
	Password string
	Name     string
}

// UpsertAdminResult reports whether the account row was created or updated.
type UpsertAdminResult struct {
	Created bool
}

// UpsertAdminDeps holds dependencies for UpsertAdmin.
type UpsertAdminDeps struct {
	AccountStore AccountStoreForUpsert
}

// ExecuteUpsertAdmin creates the admin account or overwrites its credentials.
// PRE: Database is initialized
// POST: The single account has the given username and a fresh password hash
// INVARIANT: At most one account row exists
func ExecuteUpsertAdmin(ctx context.Context, input UpsertAdminInput, deps UpsertAdminDeps) (UpsertAdminResult, error) {
	if input.Username == "" {
		return UpsertAdminResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, account.ErrEmptyUsername)
	}

	acct, err := deps.AccountStore.Get(ctx)
	created := false
	switch {
	case errors.Is(err, account.ErrNotFound):
		created = true
		acct = account.Account{ID: account.AdminID, Name: account.DefaultName}
	case err != nil:
		return UpsertAdminResult{}, fmt.Errorf("load admin: %w", err)
	}

	if input.Name != "" {
		acct.Name = input.Name
	}
	if err := acct.Validate(); err != nil {
		return UpsertAdminResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	acct.Username = input.Username
	if err := acct.SetPassword(input.Password); err != nil {
		if errors.Is(err, account.ErrEmptyPassword) {
			return UpsertAdminResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return UpsertAdminResult{}, err
	}

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return UpsertAdminResult{}, fmt.Errorf("save admin: %w", err)
	}

	event := "admin_updated"
	if created {
		event = "admin_created"
	}
	slog.Info("auth_event", "event", event, "username", input.Username)

	return UpsertAdminResult{Created: created}, nil
}
