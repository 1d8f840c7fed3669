package cacheinfra

import (
	"time"

	"github.com/viccon/sturdyc"
)

// Store backend names.
const (
	BackendSturdyc = "sturdyc"
	BackendLRU     = "lru"
)

// Config holds the configuration for the entry store adapters.
type Config struct {
	// Backend selects the store implementation: "sturdyc" (default) or "lru".
	Backend string

	// Capacity defines the maximum number of entries that the store can hold.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of sturdyc shards for concurrent access.
	// Ignored by the lru backend. Must be greater than 0. Default: 256
	NumShards int

	// TTL is the hard upper bound on how long an entry is kept, regardless of
	// the retention policy enforced by the registry. Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries sturdyc evicts
	// when the store reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often sturdyc checks for expired entries.
	// Zero value uses the default interval.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Backend:            BackendSturdyc,
		Capacity:           10000,
		NumShards:          256,
		TTL:                time.Hour,
		EvictionPercentage: 10,
		EvictionInterval:   0, // Use default
	}
}

// ToSturdycOptions converts the Config to sturdyc.Option slice.
// Capacity, NumShards, TTL, and EvictionPercentage are passed directly to
// sturdyc.New() and are not included in the options.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	switch c.Backend {
	case "", BackendSturdyc, BackendLRU:
	default:
		return &ConfigError{Field: "Backend", Message: "must be one of sturdyc, lru"}
	}

	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// SturdycStore stores values in a sharded sturdyc client.
type SturdycStore[V any] struct {
	client *sturdyc.Client[V]
}

// NewSturdycStore validates cfg and initializes a sturdyc client with it.
func NewSturdycStore[V any](cfg Config) (*SturdycStore[V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[V](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &SturdycStore[V]{client: client}, nil
}

// Get returns the value stored under key.
func (s *SturdycStore[V]) Get(key string) (V, bool) {
	return s.client.Get(key)
}

// Set stores value under key, replacing any previous value.
func (s *SturdycStore[V]) Set(key string, value V) {
	s.client.Set(key, value)
}

// Delete removes key.
func (s *SturdycStore[V]) Delete(key string) {
	s.client.Delete(key)
}

// Keys returns every key currently stored.
func (s *SturdycStore[V]) Keys() []string {
	return s.client.ScanKeys()
}
