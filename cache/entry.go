package cache

import "time"

// Status is the lifecycle state of a query entry.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Policy controls how long an entry is served without revalidation and how
// long an unused entry survives before eviction.
type Policy struct {
	StaleAfter  time.Duration
	RetainAfter time.Duration
}

var (
	// DefaultPolicy applies to list and detail reads of primary resources.
	DefaultPolicy = Policy{StaleAfter: 5 * time.Minute, RetainAfter: 10 * time.Minute}

	// CatalogPolicy applies to slow-changing catalog reads.
	CatalogPolicy = Policy{StaleAfter: 10 * time.Minute, RetainAfter: 30 * time.Minute}
)

func (p Policy) withDefaults() Policy {
	p.StaleAfter = coalesce(p.StaleAfter, DefaultPolicy.StaleAfter)
	p.RetainAfter = coalesce(p.RetainAfter, DefaultPolicy.RetainAfter)
	return p
}

// Entry is an immutable snapshot of a query result. Writers replace entries
// as a whole and never mutate one in place.
type Entry struct {
	Key         Key
	Data        any
	Err         error
	Status      Status
	FetchedAt   time.Time
	Policy      Policy
	Invalidated bool
	Subscribers int
	LastUsedAt  time.Time
}

// HasData reports whether the entry holds a successfully fetched (or seeded) value.
func (e Entry) HasData() bool {
	return !e.FetchedAt.IsZero()
}

// IsStale reports whether the entry must be revalidated before it is served as fresh.
func (e Entry) IsStale(now time.Time) bool {
	if e.Invalidated || !e.HasData() {
		return true
	}
	return now.Sub(e.FetchedAt) >= e.Policy.StaleAfter
}

// expired reports whether an unobserved entry outlived its retention window.
func (e Entry) expired(now time.Time) bool {
	if e.Subscribers > 0 || e.Status == StatusPending || e.LastUsedAt.IsZero() {
		return false
	}
	return now.Sub(e.LastUsedAt) >= e.Policy.RetainAfter
}

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
