package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"watchlist/internal/domain/account"
)

// AccountStoreForLogin defines the store interface needed by Login.
type AccountStoreForLogin interface {
	Get(ctx context.Context) (account.Account, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	AccountID int64
	Username  string
	Name      string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore AccountStoreForLogin
}

// ExecuteLogin validates credentials against the single admin account.
// PRE: none
// POST: Returns account info on success; ErrInvalidInput for blank fields,
// ErrInvalidCredentials for any mismatch or when no admin is provisioned
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Username == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidInput
	}

	acct, err := deps.AccountStore.Get(ctx)
	if errors.Is(err, account.ErrNotFound) {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "no_admin")
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("load admin: %w", err)
	}

	if err := acct.CheckCredentials(input.Username, input.Password); err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "bad_credentials")
		return LoginResult{}, ErrInvalidCredentials
	}

	slog.Info("auth_event", "event", "login_success", "username", input.Username)

	return LoginResult{
		AccountID: acct.ID,
		Username:  acct.Username,
		Name:      acct.Name,
	}, nil
}
