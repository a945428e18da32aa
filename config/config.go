// Package config loads the stride client configuration: a YAML file with
// environment overrides and sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL   = "https://api.stride.fit"
	defaultAdaptPath = "/v1/adaptations/stream"
)

// Config holds client settings. Command-line flags take precedence over
// environment variables, which take precedence over the file.
type Config struct {
	BaseURL    string `yaml:"base_url"`
	Token      string `yaml:"token"`
	AdaptPath  string `yaml:"adapt_path"`
	HistoryDir string `yaml:"history_dir"`
}

// DefaultPath returns the default config file location,
// ~/.stride/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".stride", "config.yaml"), nil
}

// Load reads the config file at path, applies environment overrides
// (STRIDE_BASE_URL, STRIDE_TOKEN) and defaults, and validates the result.
// A missing file is not an error: overrides and defaults still apply.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("STRIDE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("STRIDE_TOKEN"); v != "" {
		cfg.Token = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.AdaptPath == "" {
		cfg.AdaptPath = defaultAdaptPath
	}
	if cfg.HistoryDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.HistoryDir = filepath.Join(home, ".stride", "history")
		}
	}
}

func validate(cfg Config) error {
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return fmt.Errorf("base_url must be an http(s) URL, got %q", cfg.BaseURL)
	}
	if !strings.HasPrefix(cfg.AdaptPath, "/") {
		return fmt.Errorf("adapt_path must start with '/', got %q", cfg.AdaptPath)
	}
	return nil
}
