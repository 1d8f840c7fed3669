package testsupport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap/zaptest"

	"github.com/goliatone/go-backoffice-cache/client"
)

// Handler answers one fake backend route. The returned payload is encoded as JSON.
type Handler func(r *http.Request, body []byte) (status int, payload any)

// Backend is an in-process fake of the backoffice REST API.
// Routes are matched on method and exact path.
type Backend struct {
	t   testing.TB
	srv *httptest.Server

	mu     sync.RWMutex
	routes map[string]Handler
	bodies map[string][]byte

	calls *xsync.MapOf[string, int]
}

// NewBackend starts a fake backend that is closed when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		t:      t,
		routes: make(map[string]Handler),
		bodies: make(map[string][]byte),
		calls:  xsync.NewMapOf[string, int](),
	}
	b.srv = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.srv.Close)
	return b
}

// URL is the base URL of the fake backend.
func (b *Backend) URL() string { return b.srv.URL }

// Client returns a resty-backed client pointed at the fake backend.
func (b *Backend) Client() *client.Resty {
	return client.NewResty(client.Config{BaseURL: b.srv.URL, Timeout: 5 * time.Second}, zaptest.NewLogger(b.t))
}

// Handle registers h for method and path, replacing any previous handler.
func (b *Backend) Handle(method, path string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[route(method, path)] = h
}

// Reply registers a static response.
func (b *Backend) Reply(method, path string, status int, payload any) {
	b.Handle(method, path, func(*http.Request, []byte) (int, any) {
		return status, payload
	})
}

// ReplyFixture registers a static response read from a fixture file.
func (b *Backend) ReplyFixture(method, path string, status int, fixture string) {
	raw := json.RawMessage(LoadFixture(b.t, fixture))
	b.Reply(method, path, status, raw)
}

// Sequence registers handlers that answer successive calls. The last one
// keeps answering once the others are used up.
func (b *Backend) Sequence(method, path string, handlers ...Handler) {
	var mu sync.Mutex
	next := 0
	b.Handle(method, path, func(r *http.Request, body []byte) (int, any) {
		mu.Lock()
		h := handlers[next]
		if next < len(handlers)-1 {
			next++
		}
		mu.Unlock()
		return h(r, body)
	})
}

// Calls returns how many requests reached method and path.
func (b *Backend) Calls(method, path string) int {
	n, _ := b.calls.Load(route(method, path))
	return n
}

// TotalCalls returns the number of requests served across all routes.
func (b *Backend) TotalCalls() int {
	total := 0
	b.calls.Range(func(_ string, n int) bool {
		total += n
		return true
	})
	return total
}

// LastBody returns the body of the latest request to method and path.
func (b *Backend) LastBody(method, path string) []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bodies[route(method, path)]
}

// Status builds a handler that always answers with status and payload.
func Status(status int, payload any) Handler {
	return func(*http.Request, []byte) (int, any) {
		return status, payload
	}
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	key := route(r.Method, r.URL.Path)
	body, _ := io.ReadAll(r.Body)

	b.calls.Compute(key, func(n int, _ bool) (int, bool) {
		return n + 1, false
	})

	b.mu.Lock()
	b.bodies[key] = body
	h, ok := b.routes[key]
	b.mu.Unlock()

	status, payload := http.StatusNotFound, any(map[string]any{"success": false, "message": "not found"})
	if ok {
		status, payload = h(r, body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		b.t.Errorf("encode response for %s: %v", key, err)
	}
}

func route(method, path string) string {
	return method + " " + path
}
