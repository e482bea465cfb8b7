// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Metrolab

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/metrolab/hrogstat/pkg/backend"
)

// Config represents the hrogstat configuration file
type Config struct {
	API      APIConfig      `yaml:"api"`
	Console  ConsoleConfig  `yaml:"console"`
	Log      LogConfig      `yaml:"log"`
	Operator OperatorConfig `yaml:"operator"`
}

// APIConfig represents backend connection configuration
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ConsoleConfig represents console behaviour configuration
type ConsoleConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	HistoryLimit    int           `yaml:"history_limit"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// OperatorConfig identifies the operator in the backend command history
type OperatorConfig struct {
	ID string `yaml:"id"`
}

func defaultConfig() Config {
	return Config{
		API:     APIConfig{Timeout: 10 * time.Second},
		Console: ConsoleConfig{RefreshInterval: 5 * time.Second, HistoryLimit: 200},
		Log:     LogConfig{Level: "info"},
	}
}

// loadConfig merges the config file (explicit --config path, or the
// default location when present) with flag and environment overrides.
// Flags win over the environment, which wins over the file.
func loadConfig() (Config, error) {
	cfg := defaultConfig()

	path := configPath
	if path == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			candidate := filepath.Join(dir, "hrogstat.yml")
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if env := os.Getenv("HROGSTAT_API"); env != "" {
		cfg.API.BaseURL = env
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if cfg.API.BaseURL == "" {
		return cfg, fmt.Errorf("no backend address: set --api, HROGSTAT_API, or api.base_url in the config file")
	}
	if cfg.Console.RefreshInterval < time.Second {
		cfg.Console.RefreshInterval = time.Second
	}
	if cfg.Operator.ID == "" {
		// Per-invocation operator tag so the backend's command history
		// can tell console sessions apart.
		cfg.Operator.ID = "console-" + uuid.NewString()[:8]
	}

	return cfg, nil
}

// setupLogger builds the file-backed logger. The TUI owns the
// terminal, so without a log file everything is discarded.
func setupLogger(cfg Config) (zerolog.Logger, func(), error) {
	if cfg.Log.File == "" {
		return zerolog.Nop(), func() {}, nil
	}

	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("opening log file: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return logger, func() { f.Close() }, nil
}

// newBackendClient builds the shared HTTP client from config.
func newBackendClient(cfg Config) *backend.Client {
	return backend.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
}
