package di

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/goliatone/go-backoffice-cache/backoffice"
	"github.com/goliatone/go-backoffice-cache/config"
	"github.com/goliatone/go-backoffice-cache/notify"
	"github.com/goliatone/go-backoffice-cache/pkg/testsupport"
	"github.com/goliatone/go-backoffice-cache/resource"
)

type integration struct {
	backend   *testsupport.Backend
	container *Container
	notes     *notify.Recorder

	mu        sync.Mutex
	mutations []resource.Mutation
}

func newIntegration(t *testing.T) *integration {
	t.Helper()

	backend := testsupport.NewBackend(t)
	notes := notify.NewRecorder()
	it := &integration{backend: backend, notes: notes}

	cfg := config.Default()
	cfg.API.BaseURL = backend.URL()
	cfg.CatalogRetry.BaseDelay = 0

	container, err := NewContainer(cfg,
		WithLogger(zaptest.NewLogger(t)),
		WithNotifier(notes),
		WithMutationObserver(func(m resource.Mutation) {
			it.mu.Lock()
			it.mutations = append(it.mutations, m)
			it.mu.Unlock()
		}),
	)
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	it.container = container
	return it
}

// TestCreateSeedsDetailWithoutFetch creates a customer and reads it back from the cache.
func TestCreateSeedsDetailWithoutFetch(t *testing.T) {
	it := newIntegration(t)
	it.backend.ReplyFixture(http.MethodGet, "/api/customers", http.StatusOK, "customers.json")
	it.backend.Reply(http.MethodPost, "/api/customers", http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]any{"id": "42", "name": "X"},
	})

	ctx := context.Background()
	customers := it.container.Backoffice().Customers
	filter := backoffice.CustomerFilter{Page: 1}

	if res := customers.Find(ctx, filter); res.Err != nil {
		t.Fatalf("Find() failed: %v", res.Err)
	}

	created, err := customers.Create(ctx, map[string]any{"name": "X"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if created.ID != "42" || created.Name != "X" {
		t.Errorf("Expected created customer 42/X, got %+v", created)
	}

	list, ok := it.container.Registry().Get(customers.Keys().List(filter.Params()))
	if !ok || !list.Invalidated {
		t.Error("Expected every customer list to be invalidated after create")
	}

	res := customers.Get(ctx, "42")
	if res.Err != nil {
		t.Fatalf("Get() failed: %v", res.Err)
	}
	if res.Data.Name != "X" {
		t.Errorf("Expected seeded customer name X, got %q", res.Data.Name)
	}
	if calls := it.backend.Calls(http.MethodGet, "/api/customers/42"); calls != 0 {
		t.Errorf("Expected no detail fetch, got %d", calls)
	}

	if got := it.notes.Messages(notify.KindSuccess); len(got) != 1 {
		t.Errorf("Expected exactly one success notification, got %v", got)
	}
	if got := it.notes.Messages(notify.KindError); len(got) != 0 {
		t.Errorf("Expected no error notification, got %v", got)
	}
}

// TestEmptyIDStaysIdle reads a customer without an id.
func TestEmptyIDStaysIdle(t *testing.T) {
	it := newIntegration(t)

	res := it.container.Backoffice().Customers.Get(context.Background(), "")
	if res.Status.String() != "idle" {
		t.Errorf("Expected idle status, got %s", res.Status)
	}
	if res.IsLoading {
		t.Error("Idle read should not be loading")
	}
	if calls := it.backend.TotalCalls(); calls != 0 {
		t.Errorf("Expected no network calls, got %d", calls)
	}
}

// TestRejectedUpdateLeavesCache updates a locked customer.
func TestRejectedUpdateLeavesCache(t *testing.T) {
	it := newIntegration(t)
	it.backend.Reply(http.MethodGet, "/api/customers/7", http.StatusOK, map[string]any{
		"success":  true,
		"customer": map[string]any{"id": "7", "name": "Locked Co", "status": "active"},
	})
	it.backend.Reply(http.MethodPut, "/api/customers/7", http.StatusOK, map[string]any{
		"success": false,
		"message": "locked",
	})

	ctx := context.Background()
	customers := it.container.Backoffice().Customers

	if res := customers.Get(ctx, "7"); res.Err != nil {
		t.Fatalf("Get() failed: %v", res.Err)
	}
	before, _ := it.container.Registry().Get(customers.Keys().Detail("7"))

	_, err := customers.Update(ctx, "7", map[string]any{"status": "inactive"})
	if err == nil || err.Error() != "locked" {
		t.Fatalf("Expected error %q, got %v", "locked", err)
	}
	if !errors.Is(err, resource.ErrRequestFailed) {
		t.Errorf("Expected a request failed error, got %T", err)
	}

	after, _ := it.container.Registry().Get(customers.Keys().Detail("7"))
	if after.Invalidated || after.FetchedAt != before.FetchedAt || after.Data != before.Data {
		t.Error("Rejected update must not touch the cache")
	}

	events := it.notes.Events()
	if len(events) != 1 || events[0].Kind != notify.KindError || events[0].Message != "locked" {
		t.Errorf("Expected exactly one error notification %q, got %v", "locked", events)
	}

	it.mu.Lock()
	defer it.mu.Unlock()
	if len(it.mutations) != 1 || len(it.mutations[0].AffectedKeys) != 0 {
		t.Errorf("Expected one mutation record without affected keys, got %+v", it.mutations)
	}
}

// TestConcurrentReadersShareFetch runs many readers of the same list page.
func TestConcurrentReadersShareFetch(t *testing.T) {
	it := newIntegration(t)

	release := make(chan struct{})
	it.backend.Handle(http.MethodGet, "/api/b2b-air-agents", func(*http.Request, []byte) (int, any) {
		<-release
		return http.StatusOK, map[string]any{
			"success": true,
			"agents":  []map[string]any{{"id": "a-1", "name": "Karim"}},
		}
	})

	ctx := context.Background()
	agents := it.container.Backoffice().AirAgents

	const readers = 20
	var wg sync.WaitGroup
	names := make([]string, readers)
	errs := make([]error, readers)

	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res := agents.Find(ctx, backoffice.AirAgentFilter{Page: 1})
			errs[i] = res.Err
			if len(res.Data.Items) > 0 {
				names[i] = res.Data.Items[0].Name
			}
		}(i)
	}

	// the fetch stays open until released; late readers hit the cached result
	waitForCalls(t, it.backend, http.MethodGet, "/api/b2b-air-agents", 1)
	close(release)
	wg.Wait()

	for i := 0; i < readers; i++ {
		if errs[i] != nil {
			t.Fatalf("reader %d failed: %v", i, errs[i])
		}
		if names[i] != "Karim" {
			t.Errorf("reader %d got %q", i, names[i])
		}
	}

	if calls := it.backend.Calls(http.MethodGet, "/api/b2b-air-agents"); calls != 1 {
		t.Errorf("Expected one backend call, got %d", calls)
	}
}

// TestDeleteForcesFreshRead deletes a vendor and reads it again.
func TestDeleteForcesFreshRead(t *testing.T) {
	it := newIntegration(t)
	it.backend.Sequence(http.MethodGet, "/api/vendors/v-1",
		testsupport.Status(http.StatusOK, map[string]any{"success": true, "vendor": map[string]any{"id": "v-1", "name": "Old"}}),
		testsupport.Status(http.StatusNotFound, map[string]any{"message": "Vendor not found"}),
	)
	it.backend.Reply(http.MethodDelete, "/api/vendors/v-1", http.StatusOK, map[string]any{"success": true})

	ctx := context.Background()
	vendors := it.container.Backoffice().Vendors

	if res := vendors.Get(ctx, "v-1"); res.Err != nil {
		t.Fatalf("Get() failed: %v", res.Err)
	}

	if err := vendors.Delete(ctx, "v-1"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	res := vendors.Get(ctx, "v-1")
	if res.Err == nil || res.Err.Error() != "Vendor not found" {
		t.Errorf("Expected fresh fetch error after delete, got %v", res.Err)
	}
	if res.Data.Name != "" {
		t.Errorf("Expected no stale placeholder, got %+v", res.Data)
	}
}

func waitForCalls(t *testing.T, b *testsupport.Backend, method, path string, n int) {
	t.Helper()
	for i := 0; i < 200; i++ {
		if b.Calls(method, path) >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d calls to %s %s", n, method, path)
}
