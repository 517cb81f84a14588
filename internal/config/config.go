// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings for the serve command. Environment variables
// provide defaults; command-line flags override them.
type Config struct {
	DBPath          string        `env:"RETAIL_API_DB_PATH" envDefault:"store.db"`
	Addr            string        `env:"RETAIL_API_ADDR" envDefault:":8000"`
	SQLDir          string        `env:"RETAIL_API_SQL_DIR"`
	LogPath         string        `env:"RETAIL_API_LOG_PATH"`
	LogLevel        slog.Level    `env:"RETAIL_API_LOG_LEVEL" envDefault:"INFO"`
	TokenSecret     string        `env:"RETAIL_API_TOKEN_SECRET"`
	OTelEndpoint    string        `env:"RETAIL_API_OTEL_ENDPOINT"`
	ShutdownTimeout time.Duration `env:"RETAIL_API_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load parses Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
