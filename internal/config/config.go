// Package config provides configuration management for the fixture loader.
//
// Values are resolved in three layers, later layers winning:
//  1. Built-in defaults
//  2. The YAML config file (see FindConfigPath)
//  3. Environment variables, after loading ./.env when present
//
// Config file locations (priority order):
//  1. $FIXTURES_CONFIG
//  2. ./fixtures.yaml
//  3. $XDG_CONFIG_HOME/filefixtures/config.yaml
//  4. ~/.config/filefixtures/config.yaml
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"filefixtures/internal/loader"

	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides are applied in both cases.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	var cfg *Config
	if path == "" {
		cfg = DefaultConfig()
	} else {
		var err error
		cfg, _, err = LoadFromPath(path)
		if err != nil {
			return nil, path, err
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, path, err
	}
	cfg.applyDefaults()

	return cfg, path, nil
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Fixtures: FixturesConfig{Dir: "./fixtures", OrderFile: loader.DefaultOrderFile},
		Database: DatabaseConfig{URL: "./fixtures.db"},
		Server:   ServerConfig{Addr: ":3000"},
		Log:      LogConfig{Level: "info"},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Version == 0 {
		c.Version = d.Version
	}
	if c.Fixtures.Dir == "" {
		c.Fixtures.Dir = d.Fixtures.Dir
	}
	if c.Fixtures.OrderFile == "" {
		c.Fixtures.OrderFile = d.Fixtures.OrderFile
	}
	if c.Database.URL == "" {
		c.Database.URL = d.Database.URL
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// DatabasePath returns the SQLite file path for Database.URL.
// SQLAlchemy-style URLs are accepted: "sqlite:///demo.db" is the relative
// path demo.db and "sqlite:////var/demo.db" the absolute /var/demo.db.
func (c *Config) DatabasePath() string {
	url := c.Database.URL
	if rest, ok := strings.CutPrefix(url, "sqlite:///"); ok {
		if rest == "" || rest == ":memory:" {
			return ":memory:"
		}
		return rest
	}
	if url == "sqlite://" {
		return ":memory:"
	}
	return url
}

// LogLevel parses Log.Level, defaulting to info
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	return fmt.Sprintf("Fixtures: %s (order file %s), Database: %s, Log level: %s",
		c.Fixtures.Dir, c.Fixtures.OrderFile, c.DatabasePath(), c.LogLevel())
}
