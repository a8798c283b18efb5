// Package config loads environment configuration for hydrotalk.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration values.
type Config struct {
	// Backend
	BaseURL string        `env:"HYDROTALK_BASE_URL" envDefault:"http://localhost:5000"`
	Timeout time.Duration `env:"HYDROTALK_TIMEOUT" envDefault:"2m"`

	// Session persistence
	SessionFile string `env:"HYDROTALK_SESSION_FILE"`

	// Logging
	LogFile  string `env:"HYDROTALK_LOG_FILE"`
	LogLevel string `env:"HYDROTALK_LOG_LEVEL" envDefault:"INFO"`

	// Status simulation
	StatusDwell time.Duration `env:"HYDROTALK_STATUS_DWELL" envDefault:"5s"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.SessionFile == "" {
		cfg.SessionFile = filepath.Join(configDir(), "session.yaml")
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(configDir(), "hydrotalk.log")
	}

	return cfg, nil
}

// Level parses the configured log level, defaulting to INFO.
func (c Config) Level() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// configDir returns the per-user directory for hydrotalk state.
func configDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "hydrotalk")
}
