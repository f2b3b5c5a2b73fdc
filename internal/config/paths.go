package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "FIXTURES_CONFIG"
	// ConfigFileName is looked up in the working directory
	ConfigFileName = "fixtures.yaml"
	// ConfigDirName is the per-user config directory
	ConfigDirName = "filefixtures"
	// DotEnvFile is loaded from the working directory when present
	DotEnvFile = ".env"
)

// SearchPaths lists the config file candidates, highest priority first:
// $FIXTURES_CONFIG, ./fixtures.yaml, then the user config directory
// ($XDG_CONFIG_HOME, falling back to ~/.config).
func SearchPaths() []string {
	var paths []string
	if explicit := os.Getenv(EnvConfigPath); explicit != "" {
		paths = append(paths, explicit)
	}
	paths = append(paths, ConfigFileName)
	if dir := userConfigDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "config.yaml"))
	}
	return paths
}

// FindConfigPath returns the first existing candidate of SearchPaths, or ""
// when there is none. A working-directory match is returned absolute.
func FindConfigPath() string {
	for _, path := range SearchPaths() {
		if !fileExists(path) {
			continue
		}
		if path == ConfigFileName {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
		}
		return path
	}
	return ""
}

// DefaultConfigPath is where a new config file is written
func DefaultConfigPath() string {
	if dir := userConfigDir(); dir != "" {
		return filepath.Join(dir, "config.yaml")
	}
	return ConfigFileName
}

// EnsureConfigDir creates the directory holding configPath
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

// userConfigDir is $XDG_CONFIG_HOME/filefixtures, else ~/.config/filefixtures.
// Only XDG_CONFIG_HOME and HOME are consulted.
func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, ConfigDirName)
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", ConfigDirName)
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
