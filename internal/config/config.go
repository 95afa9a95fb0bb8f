// Package config defines process configuration and its loading order.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DBPath is the SQLite database file. Empty means the per-user default.
	DBPath string `koanf:"db_path"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// FlipDeviceMaintenance controls whether starting a work order also
	// moves the device to maintenance status.
	FlipDeviceMaintenance bool `koanf:"flip_device_maintenance"`

	// ListLimit is the default page size for list endpoints.
	ListLimit int `koanf:"list_limit"`

	// PollSeconds is the refresh interval for --watch list commands.
	PollSeconds int `koanf:"poll_seconds"`
}

// PollInterval returns the watch refresh interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollSeconds) * time.Second
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		DBPath:                "",
		Addr:                  ":8086",
		FlipDeviceMaintenance: true,
		ListLimit:             50,
		PollSeconds:           30,
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if VREG_CONFIG is set
//  3. env (prefix VREG_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("VREG_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// VREG_DB_PATH -> db_path, VREG_LIST_LIMIT -> list_limit, ...
	envProvider := env.Provider("VREG_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "vreg_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.ListLimit < 0 {
		return nil, errors.New("list_limit must not be negative")
	}
	if cfg.PollSeconds <= 0 {
		return nil, errors.New("poll_seconds must be positive")
	}
	return &cfg, nil
}
