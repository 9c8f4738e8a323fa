// Package config provides configuration loading for meetingd.
//
// Configuration is loaded from a YAML file and overridden by environment
// variables, with hardcoded defaults for anything left unset.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/fyrsmithlabs/meetingd/internal/completion"
)

// Config holds the complete meetingd configuration.
type Config struct {
	Server     ServerConfig      `koanf:"server"`
	Completion completion.Config `koanf:"completion"`
	Notes      NotesConfig       `koanf:"notes"`
	Bus        BusConfig         `koanf:"bus"`
	Ingest     IngestConfig      `koanf:"ingest"`
	Logging    LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int      `koanf:"http_port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// NotesConfig holds live notes generation configuration.
type NotesConfig struct {
	// KeywordsPath points to an optional TOML file overriding the
	// built-in keyword list. Empty means use the defaults.
	KeywordsPath string `koanf:"keywords_path"`
}

// BusConfig holds NATS connection configuration.
type BusConfig struct {
	URL string `koanf:"url"`
	// Embedded runs an in-process NATS server instead of connecting to
	// an external one. Useful for single-binary deployments and dev.
	Embedded bool `koanf:"embedded"`
}

// IngestConfig holds drop-directory ingestion configuration.
type IngestConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
}

// LoggingConfig holds zap logger configuration.
type LoggingConfig struct {
	Level string `koanf:"level"`
}

// Validate validates the configuration.
//
// Returns an error if:
//   - Server port is not between 1 and 65535
//   - Shutdown timeout is not positive
//   - Completion timeout is negative
//   - Bus URL is unparseable (when not running embedded)
//   - Ingest is enabled without a directory
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	if c.Completion.Timeout < 0 {
		return errors.New("completion timeout cannot be negative")
	}
	if c.Completion.MaxRetries < 0 {
		return errors.New("completion max_retries cannot be negative")
	}

	if !c.Bus.Embedded {
		if c.Bus.URL == "" {
			return errors.New("bus url required when not running embedded")
		}
		if _, err := url.Parse(c.Bus.URL); err != nil {
			return fmt.Errorf("invalid bus url: %w", err)
		}
	}

	if c.Ingest.Enabled && c.Ingest.Dir == "" {
		return errors.New("ingest dir required when ingest is enabled")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %q", c.Logging.Level)
	}

	return nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}

	if cfg.Completion.BaseURL == "" {
		cfg.Completion.BaseURL = "http://localhost:11434"
	}
	if cfg.Completion.Model == "" {
		cfg.Completion.Model = "gemma:2b"
	}
	if cfg.Completion.Timeout == 0 {
		cfg.Completion.Timeout = 60 * time.Second
	}
	if cfg.Completion.MaxRetries == 0 {
		cfg.Completion.MaxRetries = 2
	}

	if cfg.Bus.URL == "" {
		cfg.Bus.URL = "nats://127.0.0.1:4222"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
