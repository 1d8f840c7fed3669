package resource

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-backoffice-cache/cache"
	"github.com/goliatone/go-backoffice-cache/client"
)

// Catalog reads slow-changing reference lists. Reads are retried on server
// errors and degrade to an empty list instead of failing.
type Catalog[T any] struct {
	name     string
	client   client.Doer
	registry *cache.Registry
	retry    RetryPolicy
	policy   cache.Policy
	unwrap   Unwrap[[]T]
	log      *zap.Logger
}

// CatalogOptions configures a Catalog.
type CatalogOptions[T any] struct {
	Name   string
	Retry  RetryPolicy
	Policy cache.Policy
	Unwrap Unwrap[[]T]
}

// NewCatalog builds a catalog reader sharing the mutator's client and cache.
func NewCatalog[T any](mutator *Mutator, opts CatalogOptions[T]) *Catalog[T] {
	if opts.Policy == (cache.Policy{}) {
		opts.Policy = cache.CatalogPolicy
	}
	if opts.Unwrap == nil {
		opts.Unwrap = Field[[]T]("data")
	}
	return &Catalog[T]{
		name:     opts.Name,
		client:   mutator.client,
		registry: mutator.registry,
		retry:    opts.Retry,
		policy:   opts.Policy,
		unwrap:   opts.Unwrap,
		log:      mutator.log.Named("catalog"),
	}
}

// Fetch performs req with retries, bypassing the cache. Any failure that
// survives the retries is logged and yields an empty list.
func (c *Catalog[T]) Fetch(ctx context.Context, req client.Request) []T {
	var items []T
	err := c.retry.Do(ctx, func() error {
		env, err := send(ctx, c.client, req)
		if err != nil {
			return err
		}
		items, _, err = c.unwrap(env)
		return err
	})
	if err != nil {
		c.log.Warn("catalog read degraded to empty list",
			zap.String("catalog", c.name),
			zap.String("path", req.Path),
			zap.Error(err),
		)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// Read fetches req through the cache under key. Err is only set when ctx ends
// before the shared fetch completes.
func (c *Catalog[T]) Read(ctx context.Context, key cache.Key, req client.Request) ReadResult[[]T] {
	data, entry, err := cache.FetchAs(ctx, c.registry, key, c.policy,
		func(ctx context.Context) ([]T, error) {
			return c.Fetch(ctx, req), nil
		})
	res := newReadResult(data, entry, err)
	if res.Data == nil {
		res.Data = []T{}
	}
	return res
}
