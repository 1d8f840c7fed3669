package cacheinfra

import (
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LRUStore stores values in a size-bounded LRU with a hard TTL.
type LRUStore[V any] struct {
	cache *expirable.LRU[string, V]
}

// NewLRUStore validates cfg and creates an expirable LRU sized by cfg.Capacity.
func NewLRUStore[V any](cfg Config) (*LRUStore[V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &LRUStore[V]{cache: expirable.NewLRU[string, V](cfg.Capacity, nil, cfg.TTL)}, nil
}

// Get returns the value stored under key.
func (s *LRUStore[V]) Get(key string) (V, bool) {
	return s.cache.Get(key)
}

// Set stores value under key, replacing any previous value.
func (s *LRUStore[V]) Set(key string, value V) {
	s.cache.Add(key, value)
}

// Delete removes key.
func (s *LRUStore[V]) Delete(key string) {
	s.cache.Remove(key)
}

// Keys returns every key currently stored, oldest first.
func (s *LRUStore[V]) Keys() []string {
	return s.cache.Keys()
}
