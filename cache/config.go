package cache

import (
	"time"

	"github.com/goliatone/go-backoffice-cache/internal/cacheinfra"
)

// Supported store backends.
const (
	BackendSturdyc = cacheinfra.BackendSturdyc
	BackendLRU     = cacheinfra.BackendLRU
)

// Config exposes store configuration options for consumers of the cache package.
type Config struct {
	Backend            string        `yaml:"backend"`
	Capacity           int           `yaml:"capacity"`
	NumShards          int           `yaml:"num_shards"`
	TTL                time.Duration `yaml:"ttl"`
	EvictionPercentage int           `yaml:"eviction_percentage"`
	EvictionInterval   time.Duration `yaml:"eviction_interval"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewStore constructs the entry store selected by cfg.Backend.
func NewStore(cfg Config) (Store[Entry], error) {
	internal := cfg.toInternal()
	if err := internal.Validate(); err != nil {
		return nil, err
	}

	if internal.Backend == cacheinfra.BackendLRU {
		return cacheinfra.NewLRUStore[Entry](internal)
	}
	return cacheinfra.NewSturdycStore[Entry](internal)
}

// NewRegistryFromConfig builds the store described by cfg and wraps it in a Registry.
func NewRegistryFromConfig(cfg Config, opts ...Option) (*Registry, error) {
	store, err := NewStore(cfg)
	if err != nil {
		return nil, err
	}
	return NewRegistry(store, opts...), nil
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Backend:            c.Backend,
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Backend:            cfg.Backend,
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}
