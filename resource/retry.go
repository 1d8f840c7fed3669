package resource

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go"

	"github.com/goliatone/go-backoffice-cache/client"
)

// RetryPolicy governs retries of catalog reads. Mutations are never retried.
type RetryPolicy struct {
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`
	MaxDelay   time.Duration `yaml:"max_delay"`
}

// DefaultRetryPolicy retries twice with exponential backoff starting at 200ms.
var DefaultRetryPolicy = RetryPolicy{MaxRetries: 2, BaseDelay: 200 * time.Millisecond, MaxDelay: 2 * time.Second}

// Do runs fn, retrying on Retryable errors up to MaxRetries times.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}

	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(uint(retries) + 1),
		retry.Delay(p.BaseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(Retryable),
		retry.LastErrorOnly(true),
	}
	if p.MaxDelay > 0 {
		opts = append(opts, retry.MaxDelay(p.MaxDelay))
	}

	return retry.Do(fn, opts...)
}

// Retryable reports whether err is worth another attempt: server errors and
// network failures are, client errors and envelope failures are not.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrRequestFailed) || errors.Is(err, ErrMalformedResponse) {
		return false
	}

	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.IsServerError()
	}
	return true
}
