package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"watchlist/internal/domain/account"
)

// UpdateSettingsInput carries input for the settings form.
type UpdateSettingsInput struct {
	Name string
}

// UpdateSettingsDeps holds dependencies for UpdateSettings.
type UpdateSettingsDeps struct {
	AccountStore AccountStoreForUpsert
}

// ExecuteUpdateSettings changes the admin's display name.
// PRE: caller is authenticated
// POST: Name is updated; ErrInvalidInput leaves the store untouched
func ExecuteUpdateSettings(ctx context.Context, input UpdateSettingsInput, deps UpdateSettingsDeps) error {
	if err := account.ValidateName(input.Name); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	acct, err := deps.AccountStore.Get(ctx)
	if errors.Is(err, account.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if err != nil {
		return fmt.Errorf("load admin: %w", err)
	}

	acct.Name = input.Name
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	slog.Info("settings_updated", "name", input.Name)
	return nil
}
