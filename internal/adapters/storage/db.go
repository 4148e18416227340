package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"watchlist/internal/adapters/storage/migrations"
)

// Open opens the SQLite database file with WAL mode, foreign keys, and a busy timeout.
// PRE: path is a file path or ":memory:"
// POST: Returns a pinged connection pool
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}

func newProvider(db *sql.DB) (*goose.Provider, error) {
	p, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		return nil, fmt.Errorf("create migration provider: %w", err)
	}
	return p, nil
}

// Migrate applies all pending schema migrations.
// PRE: db is a valid database connection
// POST: account and movie tables exist at the latest schema version
func Migrate(ctx context.Context, db *sql.DB) error {
	p, err := newProvider(db)
	if err != nil {
		return err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logResults(results)
	return nil
}

// Reset drops every table by migrating down to version 0, then migrates up again.
// PRE: db is a valid database connection
// POST: Schema is at the latest version with no rows
func Reset(ctx context.Context, db *sql.DB) error {
	p, err := newProvider(db)
	if err != nil {
		return err
	}
	results, err := p.DownTo(ctx, 0)
	if err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	logResults(results)
	return Migrate(ctx, db)
}

// SchemaVersion returns the applied schema version.
func SchemaVersion(ctx context.Context, db *sql.DB) (int64, error) {
	p, err := newProvider(db)
	if err != nil {
		return 0, err
	}
	return p.GetDBVersion(ctx)
}

// LatestSchemaVersion returns the highest embedded migration version.
func LatestSchemaVersion(db *sql.DB) int64 {
	p, err := newProvider(db)
	if err != nil {
		return 0
	}
	sources := p.ListSources()
	if len(sources) == 0 {
		return 0
	}
	return sources[len(sources)-1].Version
}

func logResults(results []*goose.MigrationResult) {
	for _, r := range results {
		if r.Source == nil {
			continue
		}
		slog.Info("migration",
			"version", r.Source.Version,
			"direction", r.Direction,
			"duration_ms", r.Duration.Milliseconds(),
		)
	}
}
