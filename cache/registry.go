package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Registry is the shared query cache. Its only mutation surface is
// Set, Invalidate, Evict and the success path of Fetch.
type Registry struct {
	store Store[Entry]
	group singleflight.Group
	log   *zap.Logger
	now   func() time.Time

	mu sync.Mutex
	// gens is bumped on every out-of-band write so that a fetch which started
	// before the write can tell its result is outdated. Values come from seq
	// and are never reused for a key.
	gens map[string]uint64
	seq  uint64
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for debug output.
func WithLogger(log *zap.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry creates a registry backed by store.
func NewRegistry(store Store[Entry], opts ...Option) *Registry {
	r := &Registry{
		store: store,
		log:   zap.NewNop(),
		now:   time.Now,
		gens:  make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the current snapshot for key. Entries past their retention window are reported missing.
func (r *Registry) Get(key Key) (Entry, bool) {
	e, ok := r.store.Get(key.id())
	if !ok || e.expired(r.now()) {
		return Entry{}, false
	}
	return e, true
}

// Set writes data for key as a fresh successful result.
func (r *Registry) Set(key Key, data any, policy Policy) Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := key.id()
	now := r.now()
	prev, ok := r.store.Get(id)
	if policy == (Policy{}) && ok {
		policy = prev.Policy
	}

	e := Entry{
		Key:         key.Clone(),
		Data:        data,
		Status:      StatusSuccess,
		FetchedAt:   now,
		Policy:      policy.withDefaults(),
		Subscribers: prev.Subscribers,
		LastUsedAt:  now,
	}
	r.bump(id)
	r.store.Set(id, e)

	r.log.Debug("cache entry set", zap.Stringer("key", key))
	return e
}

// Invalidate marks every entry under prefix for refetch on the next read and
// returns the number of entries marked. Data is kept.
func (r *Registry) Invalidate(prefix Key) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, id := range r.store.Keys() {
		e, ok := r.store.Get(id)
		if !ok || !prefix.IsPrefixOf(e.Key) {
			continue
		}
		e.Invalidated = true
		r.bump(id)
		r.store.Set(id, e)
		n++
	}

	r.log.Debug("cache invalidated", zap.Stringer("prefix", prefix), zap.Int("entries", n))
	return n
}

// Evict removes the entry for key. A fetch for key that is still in flight will not write it back.
func (r *Registry) Evict(key Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := key.id()
	_, ok := r.store.Get(id)
	r.store.Delete(id)
	if _, tracked := r.gens[id]; ok || tracked {
		r.bump(id)
	}

	r.log.Debug("cache entry evicted", zap.Stringer("key", key), zap.Bool("existed", ok))
	return ok
}

// Subscribe registers interest in key so the entry is retained. The returned
// release function is idempotent.
func (r *Registry) Subscribe(key Key, policy Policy) func() {
	r.mu.Lock()
	id := key.id()
	e, ok := r.store.Get(id)
	if !ok {
		e = Entry{Key: key.Clone(), Status: StatusIdle, Policy: policy.withDefaults()}
	}
	e.Subscribers++
	e.LastUsedAt = r.now()
	r.store.Set(id, e)
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.release(id) })
	}
}

// bump starts a new generation for id. In-flight fetches of older
// generations can no longer be joined and their results are treated as outdated.
// Callers hold r.mu.
func (r *Registry) bump(id string) {
	r.seq++
	r.gens[id] = r.seq
}

// generation returns the current generation of id, starting one when id has
// none so that every fetch runs under a non-zero generation. Callers hold r.mu.
func (r *Registry) generation(id string) uint64 {
	if gen, ok := r.gens[id]; ok {
		return gen
	}
	r.bump(id)
	return r.gens[id]
}

// flight names the singleflight call of id at generation gen.
func flight(id string, gen uint64) string {
	return id + "#" + strconv.FormatUint(gen, 10)
}

func (r *Registry) release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.store.Get(id)
	if !ok {
		return
	}
	if e.Subscribers > 0 {
		e.Subscribers--
	}
	e.LastUsedAt = r.now()
	r.store.Set(id, e)
}

// Len returns the number of entries currently held.
func (r *Registry) Len() int {
	return len(r.store.Keys())
}

// Sweep evicts entries without subscribers whose retention window elapsed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	n := 0
	live := make(map[string]struct{})
	for _, id := range r.store.Keys() {
		e, ok := r.store.Get(id)
		if !ok {
			continue
		}
		if !e.expired(now) {
			live[id] = struct{}{}
			continue
		}
		r.store.Delete(id)
		n++
	}

	// drop generations of entries the store no longer holds, including
	// those removed by capacity or TTL eviction
	for id := range r.gens {
		if _, ok := live[id]; !ok {
			delete(r.gens, id)
		}
	}

	if n > 0 {
		r.log.Debug("cache swept", zap.Int("entries", n))
	}
	return n
}

// Run sweeps the registry every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Fetch reads key through the cache.
//
//   - fresh data is returned without calling fetchFn
//   - time-stale data is returned immediately while a background refetch runs
//   - missing, failed or invalidated entries block on a refetch
//
// Concurrent fetches of the same key share a single call to fetchFn, unless an
// Invalidate, Evict or Set landed in between: a read after one of those never
// joins a call that started before it. The call
// runs detached from ctx: when ctx ends first, Fetch returns ctx.Err() but the
// result is still written for later readers.
func (r *Registry) Fetch(ctx context.Context, key Key, policy Policy, fetchFn FetchFn) (Entry, error) {
	policy = policy.withDefaults()
	id := key.id()

	r.mu.Lock()
	now := r.now()
	e, ok := r.store.Get(id)
	if ok && e.expired(now) {
		r.store.Delete(id)
		ok = false
	}

	if ok && e.HasData() && !e.Invalidated {
		switch {
		case e.Status == StatusSuccess && !e.IsStale(now):
			e.LastUsedAt = now
			r.store.Set(id, e)
			r.mu.Unlock()
			return e, nil

		case e.Status == StatusSuccess:
			e.Status = StatusPending
			e.LastUsedAt = now
			r.store.Set(id, e)
			gen := r.generation(id)
			r.mu.Unlock()

			r.log.Debug("cache revalidating stale entry", zap.Stringer("key", key))
			r.group.DoChan(flight(id, gen), r.loader(ctx, key, gen, policy, fetchFn))
			return e, nil

		case e.Status == StatusPending:
			// a background revalidation is running; keep serving the old value
			e.LastUsedAt = now
			r.store.Set(id, e)
			r.mu.Unlock()
			return e, nil
		}
	}

	if !ok {
		e = Entry{Key: key.Clone()}
	}
	e.Status = StatusPending
	e.Invalidated = false
	e.Policy = policy
	e.LastUsedAt = now
	r.store.Set(id, e)
	gen := r.generation(id)
	r.mu.Unlock()

	ch := r.group.DoChan(flight(id, gen), r.loader(ctx, key, gen, policy, fetchFn))
	select {
	case res := <-ch:
		if res.Shared {
			r.log.Debug("cache fetch shared", zap.Stringer("key", key))
		}
		entry, _ := res.Val.(Entry)
		return entry, res.Err
	case <-ctx.Done():
		return e, ctx.Err()
	}
}

func (r *Registry) loader(ctx context.Context, key Key, gen uint64, policy Policy, fetchFn FetchFn) func() (any, error) {
	return func() (any, error) {
		r.log.Debug("cache fetch", zap.Stringer("key", key))
		data, err := fetchFn(context.WithoutCancel(ctx))
		return r.complete(key, gen, policy, data, err), err
	}
}

// complete writes a fetch result unless an eviction or a fresher Set overtook it.
func (r *Registry) complete(key Key, gen uint64, policy Policy, data any, err error) Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := key.id()
	now := r.now()
	cur, ok := r.store.Get(id)
	if !ok {
		cur = Entry{Key: key.Clone(), LastUsedAt: now}
	}

	outdated := r.gens[id] != gen
	next := cur
	next.Policy = policy
	if err != nil {
		next.Status = StatusError
		next.Err = err
	} else {
		next.Status = StatusSuccess
		next.Data = data
		next.Err = nil
		next.FetchedAt = now
	}

	if outdated {
		if !ok || cur.Status != StatusPending {
			r.log.Debug("cache fetch result dropped", zap.Stringer("key", key))
			return next
		}
		// invalidated while in flight
		next.Invalidated = true
	}

	r.store.Set(id, next)
	return next
}
