package di

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/goliatone/go-backoffice-cache/backoffice"
	"github.com/goliatone/go-backoffice-cache/cache"
	"github.com/goliatone/go-backoffice-cache/config"
	"github.com/goliatone/go-backoffice-cache/notify"
	"github.com/goliatone/go-backoffice-cache/pkg/testsupport"
)

func newBenchContainer(b *testing.B, backend string) (*Container, *testsupport.Backend) {
	b.Helper()

	api := testsupport.NewBackend(b)
	api.ReplyFixture(http.MethodGet, "/api/customers", http.StatusOK, "customers.json")
	api.ReplyFixture(http.MethodGet, "/api/customers/c-1", http.StatusOK, "customer.json")

	cfg := config.Default()
	cfg.API.BaseURL = api.URL()
	cfg.Cache.Backend = backend

	container, err := NewContainer(cfg, WithLogger(zap.NewNop()), WithNotifier(notify.Nop{}))
	if err != nil {
		b.Fatalf("NewContainer() failed: %v", err)
	}
	return container, api
}

// BenchmarkCachedGet measures warm detail reads.
func BenchmarkCachedGet(b *testing.B) {
	for _, backend := range []string{cache.BackendSturdyc, cache.BackendLRU} {
		b.Run(backend, func(b *testing.B) {
			container, api := newBenchContainer(b, backend)
			customers := container.Backoffice().Customers
			ctx := context.Background()

			if res := customers.Get(ctx, "c-1"); res.Err != nil {
				b.Fatalf("warmup failed: %v", res.Err)
			}

			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					if res := customers.Get(ctx, "c-1"); res.Err != nil {
						b.Errorf("Get() failed: %v", res.Err)
						return
					}
				}
			})
			b.StopTimer()

			if calls := api.Calls(http.MethodGet, "/api/customers/c-1"); calls != 1 {
				b.Errorf("Expected a single backend call, got %d", calls)
			}
		})
	}
}

// BenchmarkListKeys measures key construction for typical filters.
func BenchmarkListKeys(b *testing.B) {
	keys := cache.NewKeys(backoffice.ResourceCustomers)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		filter := backoffice.CustomerFilter{Page: i%10 + 1, Limit: 20, Query: fmt.Sprintf("q%d", i%7), Status: "active"}
		_ = keys.List(filter.Params())
	}
}

// BenchmarkInvalidateLists measures invalidation with many cached pages.
func BenchmarkInvalidateLists(b *testing.B) {
	container, _ := newBenchContainer(b, cache.BackendSturdyc)
	registry := container.Registry()
	keys := container.Backoffice().Customers.Keys()

	for i := 0; i < 500; i++ {
		registry.Set(keys.List(backoffice.CustomerFilter{Page: i + 1}.Params()), i, cache.DefaultPolicy)
		registry.Set(keys.Detail(fmt.Sprintf("c-%d", i)), i, cache.DefaultPolicy)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if n := registry.Invalidate(keys.Lists()); n != 500 {
			b.Fatalf("Expected 500 invalidated entries, got %d", n)
		}
	}
}
