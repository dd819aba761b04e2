// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv/autoload"
)

// Config holds all application configuration.
type Config struct {
	Log    LogConfig
	Import ImportConfig
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

type ImportConfig struct {
	// DefaultBank is used when the caller supplies no bank hint and
	// auto-detection should be skipped. Empty means always detect.
	DefaultBank string
	// BatchWorkers caps the batch import worker pool; 0 means GOMAXPROCS.
	BatchWorkers int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Log: LogConfig{
			Level:  getEnv("STATEMENTS_LOG_LEVEL", "info"),
			Format: getEnv("STATEMENTS_LOG_FORMAT", "text"),
		},
		Import: ImportConfig{
			DefaultBank:  getEnv("STATEMENTS_DEFAULT_BANK", ""),
			BatchWorkers: getEnvAsInt("STATEMENTS_BATCH_WORKERS", 0),
		},
	}

	if _, err := cfg.SlogLevel(); err != nil {
		return nil, err
	}
	if cfg.Import.BatchWorkers < 0 {
		return nil, fmt.Errorf("STATEMENTS_BATCH_WORKERS must be >= 0, got %d", cfg.Import.BatchWorkers)
	}

	return cfg, nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", c.Log.Level)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
