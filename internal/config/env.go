package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ApplyEnv overlays environment variables onto cfg. A .env file in the
// working directory is read first; variables already set in the process
// environment take precedence over it.
func ApplyEnv(cfg *Config) error {
	if err := LoadDotEnv(DotEnvFile); err != nil {
		return err
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// LoadDotEnv loads path into the process environment if it exists
func LoadDotEnv(path string) error {
	if !fileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	slog.Debug("Loaded environment file", "path", path)
	return nil
}
