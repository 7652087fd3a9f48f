// Package config resolves runtime settings: built-in defaults, then an
// optional ~/.tudu/config.yaml, then TUDU_* environment overrides.
// Missing file means defaults; a malformed file is an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configDirName  = ".tudu"
	configFileName = "config.yaml"

	// DefaultAPIURL is the placeholder endpoint the app seeds from.
	DefaultAPIURL = "https://jsonplaceholder.typicode.com/todos"

	defaultTimeout = 15 * time.Second
)

type Config struct {
	API struct {
		URL    string `yaml:"url"`
		UserID int    `yaml:"user_id"`
		// Go duration string, e.g. "15s". "0" disables the bound.
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`
	UI struct {
		Theme string `yaml:"theme"` // classic | neon | mono
	} `yaml:"ui"`
	LogFile string `yaml:"log_file"`
}

func Default() Config {
	var c Config
	c.API.URL = DefaultAPIURL
	c.API.Timeout = defaultTimeout.String()
	c.UI.Theme = "classic"
	return c
}

// Dir returns the per-user config directory (~/.tudu).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// Path returns the config file location, whether or not it exists.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load resolves the effective configuration.
func Load() (Config, error) {
	cfg := Default()

	p, err := Path()
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", p, err)
		}
	}

	applyEnv(&cfg)

	if _, err := cfg.FetchTimeout(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// FetchTimeout parses the configured timeout. Zero disables the bound.
func (c Config) FetchTimeout() (time.Duration, error) {
	raw := strings.TrimSpace(c.API.Timeout)
	if raw == "" {
		return defaultTimeout, nil
	}
	if raw == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("bad timeout %q (want a Go duration like 15s)", raw)
	}
	return d, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("TUDU_API_URL")); v != "" {
		cfg.API.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("TUDU_USER_ID")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.API.UserID = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("TUDU_TIMEOUT")); v != "" {
		cfg.API.Timeout = v
	}
	if v := strings.TrimSpace(os.Getenv("TUDU_THEME")); v != "" {
		cfg.UI.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv("TUDU_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
}
