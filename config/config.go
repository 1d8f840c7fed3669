// Package config handles configuration loading and validation for the back-office cache.
package config

import (
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-backoffice-cache/cache"
	"github.com/goliatone/go-backoffice-cache/client"
	"github.com/goliatone/go-backoffice-cache/internal/logging"
	"github.com/goliatone/go-backoffice-cache/resource"
)

// Environment variables that override file values.
const (
	EnvAPIToken = "BACKOFFICE_API_TOKEN"
	EnvBaseURL  = "BACKOFFICE_BASE_URL"
)

// Config holds the application configuration.
type Config struct {
	API          client.Config        `yaml:"api"`
	Cache        cache.Config         `yaml:"cache"`
	CatalogRetry resource.RetryPolicy `yaml:"catalog_retry"`
	Log          LogConfig            `yaml:"log"`
	// SweepInterval is how often expired entries are swept. Zero disables the janitor.
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// LogConfig selects the logger output.
type LogConfig struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		API: client.Config{
			BaseURL:   "http://localhost:8080",
			Timeout:   15 * time.Second,
			UserAgent: "go-backoffice-cache",
		},
		Cache:         cache.DefaultConfig(),
		CatalogRetry:  resource.DefaultRetryPolicy,
		Log:           LogConfig{Format: logging.FormatJSON, Level: "info"},
		SweepInterval: time.Minute,
	}
}

// Load reads configuration from path, applies environment overrides and validates the result.
// An empty or missing path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyEnv(os.LookupEnv)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAPIToken); ok {
		c.API.Token = v
	}
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.API.BaseURL = v
	}
}

// applyDefaults sets default values for unset options.
func (c *Config) applyDefaults() {
	defaults := Default()
	if c.Cache.Backend == "" {
		c.Cache.Backend = defaults.Cache.Backend
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// Validate checks that the configuration is valid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.API, validation.By(validateAPI)),
		validation.Field(&c.Cache),
		validation.Field(&c.CatalogRetry, validation.By(validateRetry)),
		validation.Field(&c.Log, validation.By(validateLog)),
		validation.Field(&c.SweepInterval, validation.Min(time.Duration(0))),
	)
}

func validateAPI(value any) error {
	api, _ := value.(client.Config)
	return validation.ValidateStruct(&api,
		validation.Field(&api.BaseURL, validation.Required, is.URL),
		validation.Field(&api.Timeout, validation.Min(time.Duration(0))),
	)
}

func validateRetry(value any) error {
	p, _ := value.(resource.RetryPolicy)
	return validation.ValidateStruct(&p,
		validation.Field(&p.MaxRetries, validation.Min(0), validation.Max(5)),
		validation.Field(&p.BaseDelay, validation.Min(time.Duration(0))),
		validation.Field(&p.MaxDelay, validation.Min(time.Duration(0))),
	)
}

func validateLog(value any) error {
	l, _ := value.(LogConfig)
	return validation.ValidateStruct(&l,
		validation.Field(&l.Format, validation.In(logging.FormatJSON, logging.FormatConsole)),
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "error")),
	)
}
