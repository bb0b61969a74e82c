package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exodash/internal/errors"
)

var envKeys = []string{
	"EXODASH_CONFIG", "PORT", "GIN_MODE", "LOG_LEVEL",
	"CATALOG_URL", "CATALOG_QUERY", "CATALOG_LIMIT", "CATALOG_TIMEOUT",
	"CATALOG_RETRY_ATTEMPTS", "CATALOG_RETRY_BACKOFF", "CATALOG_EXCEL_FILE",
	"DATABASE_URL", "SESSION_TTL", "SESSION_JANITOR_INTERVAL", "SESSION_MAX_KEYS",
}

func clearEnv(t *testing.T) {
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://asterank.com/api/kepler", cfg.Catalog.Endpoint.BaseURL)
	assert.Equal(t, "{}", cfg.Catalog.Endpoint.Query)
	assert.Equal(t, 2000, cfg.Catalog.Endpoint.Limit)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CATALOG_LIMIT", "50")
	t.Setenv("CATALOG_TIMEOUT", "5s")
	t.Setenv("CATALOG_RETRY_ATTEMPTS", "0")
	t.Setenv("SESSION_TTL", "10m")
	t.Setenv("DATABASE_URL", "postgres://localhost/exodash")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 50, cfg.Catalog.Endpoint.Limit)
	assert.Equal(t, 5*time.Second, cfg.Catalog.Endpoint.Timeout)
	assert.Equal(t, 0, cfg.Catalog.Endpoint.RetryAttempts)
	assert.Equal(t, 10*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "postgres://localhost/exodash", cfg.Database.URL)
}

func TestYAMLFileIsOverriddenByEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "exodash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "7000"
catalog:
  endpoint:
    base_url: http://localhost:9999/kepler
    limit: 10
    timeout: 2s
session:
  ttl: 30m
logging:
  level: debug
`), 0o600))
	t.Setenv("EXODASH_CONFIG", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "http://localhost:9999/kepler", cfg.Catalog.Endpoint.BaseURL)
	assert.Equal(t, 10, cfg.Catalog.Endpoint.Limit)
	assert.Equal(t, 2*time.Second, cfg.Catalog.Endpoint.Timeout)
	// untouched keys keep their defaults
	assert.Equal(t, "{}", cfg.Catalog.Endpoint.Query)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"zero limit", map[string]string{"CATALOG_LIMIT": "0"}},
		{"negative timeout", map[string]string{"CATALOG_TIMEOUT": "-1s"}},
		{"bad url", map[string]string{"CATALOG_URL": "not a url"}},
		{"zero ttl", map[string]string{"SESSION_TTL": "0s"}},
		{"missing file", map[string]string{"EXODASH_CONFIG": "/does/not/exist.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestExcelSourceSkipsEndpointValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("CATALOG_EXCEL_FILE", "catalog.xlsx")
	t.Setenv("CATALOG_LIMIT", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "catalog.xlsx", cfg.Catalog.ExcelFile)
}
