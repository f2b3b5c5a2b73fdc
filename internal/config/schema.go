package config

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Fixtures FixturesConfig `yaml:"fixtures"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// FixturesConfig locates fixture files
type FixturesConfig struct {
	// Dir is the fixtures root; load-fixtures arguments are relative to it
	Dir string `yaml:"dir" env:"FIXTURES_DIR"`
	// OrderFile is the per-directory sidecar that fixes load order
	OrderFile string `yaml:"order_file" env:"FIXTURES_ORDER_FILE"`
}

// DatabaseConfig configures the SQLite store
type DatabaseConfig struct {
	// URL is a SQLite path or a sqlite:/// URL
	URL string `yaml:"url" env:"DATABASE_URL"`
}

// ServerConfig configures the HTTP surface
type ServerConfig struct {
	Addr string `yaml:"addr" env:"FIXTURES_ADDR"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level" env:"LOG_LEVEL"`
}
