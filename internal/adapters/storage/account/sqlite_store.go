package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"watchlist/internal/adapters/storage"
	domain "watchlist/internal/domain/account"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new AccountStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves the administrator account.
// PRE: none
// POST: Returns the account or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context) (domain.Account, error) {
	query := "SELECT id, name, username, password_hash FROM account WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, domain.AdminID)

	var entity domain.Account
	err := row.Scan(&entity.ID, &entity.Name, &entity.Username, &entity.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}
	return entity, nil
}

// Save upserts the administrator account. The id is always domain.AdminID.
// PRE: entity has been validated
// POST: The single account row holds entity's fields
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save account: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO account (id, name, username, password_hash) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			username=excluded.username,
			password_hash=excluded.password_hash`

	_, err = tx.ExecContext(ctx, query,
		domain.AdminID,
		entity.Name,
		entity.Username,
		entity.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	return tx.Commit()
}

// Exists reports whether the account row has been created.
func (s *SQLiteStore) Exists(ctx context.Context) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count accounts: %w", err)
	}
	return count > 0, nil
}
