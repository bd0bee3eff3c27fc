package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	APIPort int `env:"SERIATE_API_PORT" envDefault:"8080"`

	// Database
	DatabasePath string `env:"SERIATE_DATABASE_PATH" envDefault:"./data/seriate.duckdb"`

	// Frontend origin allowed for CORS and websocket upgrades
	FrontendURL string `env:"SERIATE_FRONTEND_URL" envDefault:"http://localhost:5173"`

	// Logging
	LogLevel string `env:"SERIATE_LOG_LEVEL" envDefault:"INFO"`
}

// Load reads configuration from the environment, with an optional .env file
// in the working directory.
func Load() (Config, error) {
	// A missing .env file is fine; the environment takes over.
	_ = godotenv.Load()

	var config Config
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("parsing environment config: %w", err)
	}

	return config, nil
}

// SlogLevel maps the configured log level name to a slog level, defaulting
// to info for unknown values.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
