package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetrics/internal/auth"
	"github.com/vovakirdan/tui-tetrics/internal/httpapi"
	"github.com/vovakirdan/tui-tetrics/internal/scores"
	"github.com/vovakirdan/tui-tetrics/internal/storage"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the score and account HTTP backend",
	Long: `Start the HTTP backend that stores scores and player accounts.

Configuration comes from the environment, or a .env file in the working
directory:
  PORT              Listen port (default 5175)
  TETRICS_DB        Database path (default ~/.tetrics/scores.db)
  JWT_SECRET        Token signing secret
  JWT_EXPIRES_DAYS  Token lifetime in days (default 14)
  CLIENT_ORIGIN     Allowed CORS origin (default any)
  LOG_LEVEL         debug, info, warn or error

Clients connect with --api, for example:
  tetrics menu --api http://localhost:5175`,
	RunE: runAPI,
}

func runAPI(_ *cobra.Command, _ []string) error {
	_ = godotenv.Load()
	env := httpapi.LoadEnv()

	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(env.LogLevel).
		With().Timestamp().Logger()
	logger, _ := newLogger("tetrics-api", false)

	if env.InsecureSecret() {
		zl.Warn().Msg("JWT_SECRET is not set; using the development secret")
	}

	store, err := storage.Open(env.DBPath)
	if err != nil {
		zl.Error().Err(err).Str("db", env.DBPath).Msg("cannot open database")
		return err
	}
	defer store.Close()

	srv := httpapi.New(httpapi.Options{
		Scores:   scores.NewService(scores.NewStoreBackend(store), logger),
		Accounts: auth.NewAccounts(store, logger),
		Tokens:   auth.NewTokens(env.JWTSecret, env.TokenTTL),
		Origin:   env.ClientOrigin,
		Logger:   zl,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx, ":"+env.Port)
}
