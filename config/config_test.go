package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-backoffice-cache/cache"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{EnvAPIToken, EnvBaseURL} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_File(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	path := writeConfig(t, `
api:
  base_url: https://backoffice.example.com
  timeout: 5s
cache:
  backend: lru
  capacity: 500
  ttl: 30m
catalog_retry:
  max_retries: 1
  base_delay: 50ms
log:
  format: console
  level: debug
sweep_interval: 30s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://backoffice.example.com", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "go-backoffice-cache", cfg.API.UserAgent, "unset keys keep their defaults")
	assert.Equal(t, cache.BackendLRU, cfg.Cache.Backend)
	assert.Equal(t, 500, cfg.Cache.Capacity)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 1, cfg.CatalogRetry.MaxRetries)
	assert.Equal(t, 50*time.Millisecond, cfg.CatalogRetry.BaseDelay)
	assert.Equal(t, LogConfig{Format: "console", Level: "debug"}, cfg.Log)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvAPIToken, "s3cret")
	t.Setenv(EnvBaseURL, "https://env.example.com")

	path := writeConfig(t, "api:\n  base_url: https://file.example.com\n  token: from-file\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.API.Token)
	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
}

func TestLoad_ParseError(t *testing.T) {
	path := writeConfig(t, "api: [unclosed")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{name: "missing base url", mutate: func(c *Config) { c.API.BaseURL = "" }, wantKey: "API"},
		{name: "bad base url", mutate: func(c *Config) { c.API.BaseURL = "not a url" }, wantKey: "API"},
		{name: "negative timeout", mutate: func(c *Config) { c.API.Timeout = -time.Second }, wantKey: "API"},
		{name: "cache capacity", mutate: func(c *Config) { c.Cache.Capacity = 0 }, wantKey: "Cache"},
		{name: "unknown backend", mutate: func(c *Config) { c.Cache.Backend = "redis" }, wantKey: "Cache"},
		{name: "too many retries", mutate: func(c *Config) { c.CatalogRetry.MaxRetries = 10 }, wantKey: "CatalogRetry"},
		{name: "log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantKey: "Log"},
		{name: "log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantKey: "Log"},
		{name: "sweep interval", mutate: func(c *Config) { c.SweepInterval = -time.Second }, wantKey: "SweepInterval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var errs validation.Errors
			require.True(t, errors.As(err, &errs))
			assert.Contains(t, errs, tt.wantKey)
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{EnvBaseURL: ""}
	cfg := Default()
	cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.Equal(t, Default().API.BaseURL, cfg.API.BaseURL, "empty base url is ignored")
	assert.Empty(t, cfg.API.Token)
}
