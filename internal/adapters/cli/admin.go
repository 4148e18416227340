package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	accountStore "watchlist/internal/adapters/storage/account"
	"watchlist/internal/application/orchestrators"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// ErrPasswordMismatch is returned when the confirmation differs.
var ErrPasswordMismatch = errors.New("passwords do not match")

// runAdmin creates the single account or overwrites its credentials.
func runAdmin(ctx context.Context, env *Env, args []string) error {
	fs := newFlagSet("admin", env)
	env.Config.RegisterDBFlag(fs)
	username := fs.String("username", "", "login name (prompted when empty)")
	name := fs.String("name", "", "display name shown in the header")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		u, err := promptLine(env.in, "Username: ", env.Stdout)
		if err != nil {
			return err
		}
		*username = u
	}
	password, err := promptPassword(env, "Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword(env, "Repeat for confirmation: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return ErrPasswordMismatch
	}

	db, err := openDB(ctx, env.Config.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	store := accountStore.NewSQLiteStore(db)

	exists, err := store.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		fmt.Fprintln(env.Stdout, "Updating user...")
	} else {
		fmt.Fprintln(env.Stdout, "Creating user...")
	}

	input := orchestrators.UpsertAdminInput{Username: *username, Password: password, Name: *name}
	if _, err := orchestrators.ExecuteUpsertAdmin(ctx, input, orchestrators.UpsertAdminDeps{AccountStore: store}); err != nil {
		return fmt.Errorf("admin: %w", err)
	}
	fmt.Fprintln(env.Stdout, "Done.")
	return nil
}

// promptLine prints prompt and reads one trimmed line. A final line without
// a newline is accepted.
func promptLine(r *bufio.Reader, prompt string, w io.Writer) (string, error) {
	fmt.Fprint(w, prompt)
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(prompt), ": "), err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when stdin is a terminal and
// as a plain line otherwise, so provisioning can be scripted.
func promptPassword(env *Env, prompt string) (string, error) {
	f, ok := env.Stdin.(*os.File)
	if !ok || !isTerminal(int(f.Fd())) {
		return promptLine(env.in, prompt, env.Stdout)
	}

	fmt.Fprint(env.Stdout, prompt)
	pw, err := readPassword(int(f.Fd()))
	fmt.Fprintln(env.Stdout)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}
