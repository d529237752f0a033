// Package config handles loading of jobrunr-control.yaml client configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	// this will automatically load your .env file:
	_ "github.com/joho/godotenv/autoload"
)

// Defaults for the polling budget and endpoint.
const (
	DefaultURL          = "http://localhost:8080"
	DefaultMaxAttempts  = 60
	DefaultPollInterval = 2 * time.Second
)

// Config holds the client configuration. Precedence is flags > environment >
// config file > defaults; this package resolves everything below flags.
type Config struct {
	URL          string            `yaml:"url"`
	MaxAttempts  int               `yaml:"maxAttempts"`
	PollInterval time.Duration     `yaml:"-"`
	RawInterval  string            `yaml:"pollInterval"` // duration string, e.g. "2s"
	Headers      map[string]string `yaml:"headers"`
}

// Load reads jobrunr-control.yaml from the given directory, if present, then
// applies environment overrides. A missing file is not an error; the defaults
// stand in for it.
func Load(dir string) (*Config, error) {
	cfg := &Config{
		URL:          DefaultURL,
		MaxAttempts:  DefaultMaxAttempts,
		PollInterval: DefaultPollInterval,
	}

	path := filepath.Join(dir, "jobrunr-control.yaml")
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
		if cfg.RawInterval != "" {
			interval, err := time.ParseDuration(cfg.RawInterval)
			if err != nil {
				return nil, fmt.Errorf("parsing config: pollInterval: %w", err)
			}
			cfg.PollInterval = interval
		}
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("JOBRUNR_CONTROL_URL"); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv("JOBRUNR_CONTROL_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxAttempts = n
		}
	}
	if v := os.Getenv("JOBRUNR_CONTROL_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.PollInterval = d
		}
	}
}

func validate(cfg *Config) error {
	if cfg.URL == "" {
		return fmt.Errorf("url is required")
	}
	if cfg.MaxAttempts <= 0 {
		return fmt.Errorf("maxAttempts must be positive")
	}
	if cfg.PollInterval <= 0 {
		return fmt.Errorf("pollInterval must be positive")
	}
	return nil
}
