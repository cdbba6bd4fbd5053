package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tetrics/internal/auth"
	"github.com/vovakirdan/tui-tetrics/internal/core"
	"github.com/vovakirdan/tui-tetrics/internal/httpapi"
	"github.com/vovakirdan/tui-tetrics/internal/platform/tui"
	"github.com/vovakirdan/tui-tetrics/internal/scores"
	"github.com/vovakirdan/tui-tetrics/internal/storage"
)

// backend bundles the score and identity services for one CLI run. Exactly one
// of store and client is set.
type backend struct {
	scores   *scores.Service
	auth     auth.Provider
	accounts *auth.Accounts
	store    *storage.Store
	client   *httpapi.Client
}

// openBackend connects to --api when set and reachable, or opens the local
// database.
func openBackend(logger *log.Logger) (*backend, error) {
	if flagAPI != "" {
		c := httpapi.NewClient(flagAPI, nil)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Health(ctx); err != nil {
			return nil, fmt.Errorf("backend %s is not reachable: %w", flagAPI, err)
		}
		if tok, err := loadSessionToken(); err == nil {
			c.SetToken(tok)
		}
		return &backend{
			scores: scores.NewService(c, logger),
			auth:   c,
			client: c,
		}, nil
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, err
	}
	accounts := auth.NewAccounts(store, logger)
	return &backend{
		scores:   scores.NewService(scores.NewStoreBackend(store), logger),
		auth:     auth.NewLocalProvider(accounts),
		accounts: accounts,
		store:    store,
	}, nil
}

func (b *backend) Close() {
	if b != nil && b.store != nil {
		b.store.Close()
	}
}

// services returns the TUI services, tolerating a nil backend.
func (b *backend) services(logger *log.Logger) tui.Services {
	if b == nil {
		return tui.Services{Logger: logger}
	}
	return tui.Services{Scores: b.scores, Auth: b.auth, Logger: logger}
}

// newLogger creates a charm logger. Interactive commands log to --log-file or
// nowhere so output does not tear the game screen.
func newLogger(prefix string, interactive bool) (*log.Logger, func()) {
	var w io.Writer = os.Stderr
	closer := func() {}
	if interactive {
		w = io.Discard
		if flagLogFile != "" {
			f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
			} else {
				w = f
				closer = func() { f.Close() }
			}
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if lvl, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	return logger, closer
}

// runtimeConfig builds the runtime config from the terminal and global flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// resolvePlayer signs in with --login when given and returns the player.
func resolvePlayer(ctx context.Context, b *backend, login, fallback string) (tui.Player, error) {
	if b == nil {
		return tui.ResolvePlayer(ctx, nil, fallback), nil
	}
	if login != "" {
		password, err := readSecret("Password: ")
		if err != nil {
			return tui.Player{}, err
		}
		if _, err := b.auth.SignIn(ctx, login, password); err != nil {
			return tui.Player{}, fmt.Errorf("sign in failed: %w", err)
		}
		if b.client != nil {
			if err := saveSessionToken(b.client.Token()); err != nil {
				return tui.Player{}, err
			}
		}
	}
	return tui.ResolvePlayer(ctx, b.auth, fallback), nil
}

// readSecret prompts for a value without echo on a terminal.
func readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return string(b), err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func sessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tetrics", "session"), nil
}

// saveSessionToken keeps the remote backend token between runs.
func saveSessionToken(token string) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

func loadSessionToken() (string, error) {
	path, err := sessionPath()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	tok := strings.TrimSpace(string(b))
	if tok == "" {
		return "", os.ErrNotExist
	}
	return tok, nil
}

func clearSessionToken() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
