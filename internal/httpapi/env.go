package httpapi

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Env is the backend configuration read from the environment.
type Env struct {
	Port         string
	DBPath       string
	JWTSecret    string
	TokenTTL     time.Duration
	ClientOrigin string
	LogLevel     zerolog.Level
}

// devSecret signs tokens when JWT_SECRET is unset.
const devSecret = "tetrics-dev-secret"

// LoadEnv reads PORT, TETRICS_DB, JWT_SECRET, JWT_EXPIRES_DAYS, CLIENT_ORIGIN and
// LOG_LEVEL. Call godotenv.Load first to pick up a .env file.
func LoadEnv() Env {
	e := Env{
		Port:         envStr("PORT", "5175"),
		DBPath:       envStr("TETRICS_DB", "~/.tetrics/scores.db"),
		JWTSecret:    envStr("JWT_SECRET", devSecret),
		TokenTTL:     time.Duration(envInt("JWT_EXPIRES_DAYS", 14)) * 24 * time.Hour,
		ClientOrigin: os.Getenv("CLIENT_ORIGIN"),
		LogLevel:     zerolog.InfoLevel,
	}
	if lvl, err := zerolog.ParseLevel(envStr("LOG_LEVEL", "info")); err == nil {
		e.LogLevel = lvl
	}
	return e
}

// InsecureSecret reports whether tokens are signed with the built-in secret.
func (e Env) InsecureSecret() bool {
	return e.JWTSecret == devSecret
}

func envStr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return def
}
