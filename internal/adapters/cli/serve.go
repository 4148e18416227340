package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	web "watchlist/internal/adapters/http"
	"watchlist/internal/adapters/http/perf"
	"watchlist/internal/adapters/storage"
	accountStore "watchlist/internal/adapters/storage/account"
	movieStore "watchlist/internal/adapters/storage/movie"
)

const shutdownTimeout = 10 * time.Second

// runServe runs the web server until ctx is cancelled.
func runServe(ctx context.Context, env *Env, args []string) error {
	cfg := env.Config
	fs := newFlagSet("serve", env)
	cfg.RegisterServeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	secret, err := cfg.SecretKey()
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	collector := perf.NewCollector()
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQueryMs)
	stores := &web.Stores{
		AccountStore: accountStore.NewSQLiteStore(timedDB),
		MovieStore:   movieStore.NewSQLiteStore(timedDB),
	}
	app, err := web.NewApp(stores, web.Options{
		SecretKey:     secret,
		SecureCookies: cfg.IsProduction(),
		SessionTTL:    cfg.SessionTTL,
		SlowRequestMs: cfg.SlowRequestMs,
		Collector:     collector,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	slog.Info("server_start",
		"version", env.Version,
		"addr", cfg.Addr,
		"env", cfg.Env,
		"db", cfg.DBPath,
		"schema", storage.LatestSchemaVersion(db),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	slog.Info("server_stop", "reason", context.Cause(ctx))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
