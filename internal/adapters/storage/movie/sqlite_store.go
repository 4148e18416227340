package movie

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"watchlist/internal/adapters/storage"
	domain "watchlist/internal/domain/movie"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new MovieStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Movie by its ID.
// PRE: id > 0
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Movie, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, title, year FROM movie WHERE id = ?", id)

	entity, err := scanMovie(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Movie{}, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return domain.Movie{}, fmt.Errorf("get movie %d: %w", id, err)
	}
	return entity, nil
}

// List retrieves every Movie in insertion order.
// PRE: none
// POST: Returns all entities, empty slice when there are none
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Movie, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, year FROM movie ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	results := []domain.Movie{}
	for rows.Next() {
		entity, err := scanMovie(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return results, nil
}

// Create inserts a new Movie and returns its assigned id.
// PRE: entity has been validated
// POST: A new row exists; entity.ID is ignored
func (s *SQLiteStore) Create(ctx context.Context, entity domain.Movie) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create movie: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "INSERT INTO movie (title, year) VALUES (?, ?)", entity.Title, entity.Year)
	if err != nil {
		return 0, fmt.Errorf("insert movie: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert movie id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit movie: %w", err)
	}
	return id, nil
}

// Update overwrites the title and year of an existing Movie.
// PRE: entity has been validated, entity.ID > 0
// POST: Row with entity.ID is updated, or domain.ErrNotFound when absent
func (s *SQLiteStore) Update(ctx context.Context, entity domain.Movie) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update movie: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "UPDATE movie SET title = ?, year = ? WHERE id = ?", entity.Title, entity.Year, entity.ID)
	if err != nil {
		return fmt.Errorf("update movie %d: %w", entity.ID, err)
	}
	if err := requireOneRow(res, entity.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a Movie from the database.
// PRE: id > 0
// POST: Row with given id is removed, or domain.ErrNotFound when absent
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM movie WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete movie %d: %w", id, err)
	}
	return requireOneRow(res, id)
}

// Count returns the total number of movies.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movie").Scan(&count); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return count, nil
}

func requireOneRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
	}
	return nil
}

// scanMovie extracts a Movie from a row scanner function.
func scanMovie(scan func(dest ...any) error) (domain.Movie, error) {
	var entity domain.Movie
	if err := scan(&entity.ID, &entity.Title, &entity.Year); err != nil {
		return domain.Movie{}, err
	}
	return entity, nil
}
