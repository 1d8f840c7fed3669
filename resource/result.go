package resource

import "github.com/goliatone/go-backoffice-cache/cache"

// ReadResult is what a cached read hands to its caller.
type ReadResult[T any] struct {
	Data   T
	Status cache.Status
	// IsLoading is true while no data is available yet.
	IsLoading bool
	// IsRefreshing is true when Data is served while a background refetch runs.
	IsRefreshing bool
	Err          error
}

func newReadResult[T any](data T, entry cache.Entry, err error) ReadResult[T] {
	res := ReadResult[T]{
		Data:   data,
		Status: entry.Status,
		Err:    err,
	}
	if err != nil {
		// keep the last good value
		if prev, ok := entry.Data.(T); ok {
			res.Data = prev
		}
		if entry.Status != cache.StatusPending {
			res.Status = cache.StatusError
		}
	}
	res.IsLoading = entry.Status == cache.StatusPending && !entry.HasData()
	res.IsRefreshing = entry.Status == cache.StatusPending && entry.HasData()
	return res
}
