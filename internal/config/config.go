package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"exodash/adapters/api"
	"exodash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

// CatalogConfig selects the catalog source. ExcelFile, when set, replaces
// the remote endpoint.
type CatalogConfig struct {
	Endpoint  api.CatalogEndpoint `yaml:"endpoint"`
	ExcelFile string              `yaml:"excel_file"`
}

// DatabaseConfig holds database connection settings. An empty URL keeps
// session subsets in memory.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// SessionConfig controls the filtered subset cache
type SessionConfig struct {
	TTL             time.Duration `yaml:"ttl"`
	JanitorInterval time.Duration `yaml:"janitor_interval"`
	MaxKeys         int           `yaml:"max_keys"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    "8080",
			GinMode: "debug",
		},
		Catalog: CatalogConfig{
			Endpoint: api.DefaultCatalogEndpoint(),
		},
		Session: SessionConfig{
			TTL:             2 * time.Hour,
			JanitorInterval: 5 * time.Minute,
			MaxKeys:         16,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, the YAML file named by
// EXODASH_CONFIG (if any) and environment variables, in that order, and
// validates it
func Load() (*Config, error) {
	config := Default()

	if path := os.Getenv("EXODASH_CONFIG"); path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, errors.Wrap(err, "failed to load configuration file")
		}
	}

	applyEnv(config)

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return errors.Wrapf(errors.WithCode(errors.CodeConfigInvalid, err), "invalid YAML in %s", path)
	}
	return nil
}

func applyEnv(config *Config) {
	config.Server.Port = getEnvOrDefault("PORT", config.Server.Port)
	config.Server.GinMode = getEnvOrDefault("GIN_MODE", config.Server.GinMode)
	config.Logging.Level = getEnvOrDefault("LOG_LEVEL", config.Logging.Level)

	ep := &config.Catalog.Endpoint
	ep.BaseURL = getEnvOrDefault("CATALOG_URL", ep.BaseURL)
	ep.Query = getEnvOrDefault("CATALOG_QUERY", ep.Query)
	ep.Limit = getEnvIntOrDefault("CATALOG_LIMIT", ep.Limit)
	ep.Timeout = getEnvDurationOrDefault("CATALOG_TIMEOUT", ep.Timeout)
	ep.RetryAttempts = getEnvIntOrDefault("CATALOG_RETRY_ATTEMPTS", ep.RetryAttempts)
	ep.RetryBackoff = getEnvDurationOrDefault("CATALOG_RETRY_BACKOFF", ep.RetryBackoff)
	config.Catalog.ExcelFile = getEnvOrDefault("CATALOG_EXCEL_FILE", config.Catalog.ExcelFile)

	config.Database.URL = getEnvOrDefault("DATABASE_URL", config.Database.URL)

	config.Session.TTL = getEnvDurationOrDefault("SESSION_TTL", config.Session.TTL)
	config.Session.JanitorInterval = getEnvDurationOrDefault("SESSION_JANITOR_INTERVAL", config.Session.JanitorInterval)
	config.Session.MaxKeys = getEnvIntOrDefault("SESSION_MAX_KEYS", config.Session.MaxKeys)
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Catalog.ExcelFile == "" {
		if err := config.Catalog.Endpoint.Validate(); err != nil {
			return errors.WithCode(errors.CodeConfigInvalid, err)
		}
	}
	if config.Session.TTL <= 0 {
		return errors.ConfigInvalid("session TTL must be positive")
	}
	if config.Session.JanitorInterval <= 0 {
		return errors.ConfigInvalid("session janitor interval must be positive")
	}
	if config.Session.MaxKeys < 0 {
		return errors.ConfigInvalid("session max keys cannot be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
