// Package cli is the administrative command line: serve, initdb, forge and admin.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"watchlist/internal/adapters/storage"
	"watchlist/internal/config"
)

// Env is what every command runs against.
type Env struct {
	Config  *config.Config
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Version string

	in *bufio.Reader
}

// Command is one entry in the command table.
type Command struct {
	Name    string
	Summary string
	Run     func(ctx context.Context, env *Env, args []string) error
}

// commands is the explicit command table. The first entry runs when no
// command is given.
var commands = []Command{
	{Name: "serve", Summary: "run the web server (default)", Run: runServe},
	{Name: "initdb", Summary: "create the schema; -drop rebuilds it from empty", Run: runInitDB},
	{Name: "forge", Summary: "load the demo movies into an empty list", Run: runForge},
	{Name: "admin", Summary: "create or update the login account", Run: runAdmin},
}

// Run dispatches args[0] to its command.
// PRE: env.Config is loaded
// POST: Returns the command's error; unknown commands print usage and fail
func Run(ctx context.Context, args []string, env Env) error {
	if env.Stdin == nil {
		env.Stdin = strings.NewReader("")
	}
	env.in = bufio.NewReader(env.Stdin)

	name := commands[0].Name
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		name, args = args[0], args[1:]
	}
	if name == "help" {
		printUsage(env.Stdout)
		return nil
	}
	for _, c := range commands {
		if c.Name == name {
			err := c.Run(ctx, &env, args)
			if errors.Is(err, flag.ErrHelp) {
				return nil
			}
			return err
		}
	}
	printUsage(env.Stderr)
	return fmt.Errorf("unknown command %q", name)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: watchlist <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.Name, c.Summary)
	}
}

func newFlagSet(name string, env *Env) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	return fs
}

// openDB opens the configured database and applies pending migrations.
func openDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
