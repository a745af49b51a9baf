package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override file configuration.
const (
	EnvAPIKey = "OMDB_API_KEY"
	EnvDBPath = "MOVIWEB_DB_PATH"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Lookup   LookupConfig   `toml:"lookup"`
	Import   ImportConfig   `toml:"import"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LookupConfig contains movie metadata provider settings.
type LookupConfig struct {
	ProviderURL    string `toml:"provider_url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the HTTP client timeout. Zero means no timeout.
func (l LookupConfig) Timeout() time.Duration {
	if l.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// ImportConfig contains bulk import settings.
type ImportConfig struct {
	RateLimit float64 `toml:"rate_limit"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads variables from the given .env files into the process environment.
//
// Missing files are skipped; variables already set in the environment win.
func LoadEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values with their environment variables when set.
func (c *Config) ApplyEnv() {
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.Lookup.APIKey = key
	}
	if path := os.Getenv(EnvDBPath); path != "" {
		c.Database.Path = path
	}
}

// Validate checks settings the application cannot start without.
//
// A missing API key is not an error here: it only disables metadata lookups.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is required", ErrInvalidConfig)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Import.RateLimit < 0 {
		return fmt.Errorf("%w: import.rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}
