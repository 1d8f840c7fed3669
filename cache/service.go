package cache

import (
	"context"
	"errors"
)

// ErrInvalidResultType is returned by FetchAs when a cached value has a different type than requested.
var ErrInvalidResultType = errors.New("cache: invalid result type")

// Store is the backing storage of a Registry. Implementations must be safe for
// concurrent use; the registry serializes its own read-modify-write cycles.
type Store[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V)
	Delete(key string)
	Keys() []string
}

// FetchFn is the function signature the registry expects when fetching from the source of truth.
type FetchFn func(ctx context.Context) (any, error)

// FetchAs is a type-safe wrapper around Registry.Fetch.
func FetchAs[T any](ctx context.Context, r *Registry, key Key, policy Policy, fetchFn func(ctx context.Context) (T, error)) (T, Entry, error) {
	var zero T

	entry, err := r.Fetch(ctx, key, policy, func(ctx context.Context) (any, error) {
		return fetchFn(ctx)
	})
	if err != nil {
		return zero, entry, err
	}

	if entry.Data == nil {
		return zero, entry, nil
	}

	value, ok := entry.Data.(T)
	if !ok {
		return zero, entry, ErrInvalidResultType
	}
	return value, entry, nil
}
