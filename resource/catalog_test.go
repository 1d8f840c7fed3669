package resource

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-backoffice-cache/cache"
	"github.com/goliatone/go-backoffice-cache/client"
	"github.com/goliatone/go-backoffice-cache/pkg/testsupport"
)

var fastRetry = RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond}

func newTestCatalog(t *testing.T, doer client.Doer, log *zap.Logger) (*Catalog[string], *cache.Registry) {
	t.Helper()

	registry, err := cache.NewRegistryFromConfig(cache.DefaultConfig())
	require.NoError(t, err)

	mutator := NewMutator(doer, registry, nil, log)
	return NewCatalog(mutator, CatalogOptions[string]{
		Name:   "service-types",
		Retry:  fastRetry,
		Unwrap: Field[[]string]("services", "data"),
	}), registry
}

func TestCatalog_FetchRetriesServerErrors(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.Sequence(http.MethodGet, "/api/services",
		testsupport.Status(http.StatusBadGateway, map[string]any{"message": "upstream"}),
		testsupport.Status(http.StatusOK, map[string]any{"success": true, "services": []string{"air", "hajj"}}),
	)

	catalog, _ := newTestCatalog(t, backend.Client(), zaptest.NewLogger(t))

	got := catalog.Fetch(context.Background(), client.Request{Method: http.MethodGet, Path: "/api/services"})
	assert.Equal(t, []string{"air", "hajj"}, got)
	assert.Equal(t, 2, backend.Calls(http.MethodGet, "/api/services"))
}

func TestCatalog_FetchDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		payload   any
		wantCalls int
	}{
		{name: "server error exhausts retries", status: http.StatusServiceUnavailable, payload: map[string]any{"message": "down"}, wantCalls: 3},
		{name: "client error is not retried", status: http.StatusNotFound, payload: map[string]any{"message": "gone"}, wantCalls: 1},
		{name: "request failed is not retried", status: http.StatusOK, payload: map[string]any{"success": false, "message": "no"}, wantCalls: 1},
		{name: "malformed payload", status: http.StatusOK, payload: map[string]any{"success": true, "services": "air"}, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := testsupport.NewBackend(t)
			backend.Reply(http.MethodGet, "/api/services", tt.status, tt.payload)

			core, logs := observer.New(zap.WarnLevel)
			catalog, _ := newTestCatalog(t, backend.Client(), zap.New(core))

			got := catalog.Fetch(context.Background(), client.Request{Method: http.MethodGet, Path: "/api/services"})
			assert.NotNil(t, got)
			assert.Empty(t, got)
			assert.Equal(t, tt.wantCalls, backend.Calls(http.MethodGet, "/api/services"))
			assert.Equal(t, 1, logs.FilterMessage("catalog read degraded to empty list").Len())
		})
	}
}

func TestCatalog_FetchTransportFailure(t *testing.T) {
	// nothing listens on port 1
	doer := client.NewResty(client.Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, nil)
	catalog, _ := newTestCatalog(t, doer, zaptest.NewLogger(t))

	got := catalog.Fetch(context.Background(), client.Request{Method: http.MethodGet, Path: "/api/services"})
	assert.Equal(t, []string{}, got)
}

func TestCatalog_ReadCaches(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.Reply(http.MethodGet, "/api/services", http.StatusOK, map[string]any{"success": true, "data": []string{"air"}})

	catalog, registry := newTestCatalog(t, backend.Client(), zaptest.NewLogger(t))
	key := cache.Key{"services", "types"}
	req := client.Request{Method: http.MethodGet, Path: "/api/services"}

	first := catalog.Read(context.Background(), key, req)
	require.NoError(t, first.Err)
	assert.Equal(t, []string{"air"}, first.Data)

	second := catalog.Read(context.Background(), key, req)
	assert.Equal(t, []string{"air"}, second.Data)
	assert.Equal(t, 1, backend.Calls(http.MethodGet, "/api/services"))

	entry, found := registry.Get(key)
	require.True(t, found)
	assert.Equal(t, cache.CatalogPolicy, entry.Policy)
}
