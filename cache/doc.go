// Package cache provides the hierarchical key namespace and the query registry
// shared by every back-office resource module.
//
// # Overview
//
// This package exports three building blocks:
//
//   - Key / Keys: deterministic, hierarchical cache keys per resource
//   - Registry: the process-wide store of query entries with dedup, staleness and retention
//   - Store: the storage port the registry writes entries into
//
// # Key Hierarchy
//
// Every resource owns the same key shape:
//
//	All()         -> [resource]
//	Lists()       -> [resource, "list"]
//	List(params)  -> [resource, "list", "page=1,limit=20"]
//	Details()     -> [resource, "detail"]
//	Detail(id)    -> [resource, "detail", id]
//
// Containment is token based: invalidating Lists() reaches every List(params)
// entry but never a Detail(id) entry. List params are ordered; undefined params
// (nil values, nil pointers) are dropped and the remaining order is kept as
// given, so callers must build params in a stable shape.
//
// # Basic Usage
//
//	reg, err := cache.NewRegistryFromConfig(cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//
//	keys := cache.NewKeys("customers")
//	page, entry, err := cache.FetchAs(ctx, reg, keys.List(params), cache.DefaultPolicy, fetchPage)
//
// # Entry Lifecycle
//
// An entry moves idle -> pending -> success|error. Fresh entries are served
// as-is; time-stale entries are served while a background refetch runs;
// invalidated or failed entries block the next read on a refetch. Concurrent
// reads of one key share a single fetch. Entries without subscribers are
// evicted once their retention window elapses (see Sweep and Run).
//
// # Writes
//
// Only four paths write into the registry: the success path of Fetch, Set
// (seed/overwrite), Invalidate (mark for refetch) and Evict (hard removal).
// Each write replaces a whole entry under the registry lock.
//
// # Storage Backends
//
// Entries live in a sturdyc client by default; Config.Backend "lru" selects an
// expirable LRU instead. Both enforce a hard TTL on top of the registry's own
// retention policy.
package cache
