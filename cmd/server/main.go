package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"watchlist/internal/adapters/cli"
	"watchlist/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("config_error", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.NewLogger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = cli.Run(ctx, os.Args[1:], cli.Env{
		Config:  cfg,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Version: version,
	})
	if err != nil {
		slog.Error("command_failed", "error", err)
		stop()
		os.Exit(1)
	}
}
