// Package resource implements the generic read and write layer shared by the
// back-office resources.
//
// # Reads
//
// A Module reads pages and single entities through the shared cache.Registry,
// so concurrent reads of a key share one backend call and repeated reads are
// served from memory until the entry goes stale or is invalidated. Failures
// are surfaced on ReadResult.Err as a *RequestFailedError or *TransportError.
//
// A Catalog reads reference lists. Catalog reads retry server errors with
// exponential backoff and degrade to an empty list instead of failing.
//
// # Writes
//
// Every write goes through a Mutator. On success the resource lists are
// invalidated and the detail entry is seeded, overwritten, invalidated or
// evicted depending on the operation; on failure the cache is left alone.
// Either way exactly one notification is sent and the invalidation is
// complete before the call returns.
package resource
