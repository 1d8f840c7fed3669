package resource

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-backoffice-cache/cache"
	"github.com/goliatone/go-backoffice-cache/client"
	"github.com/goliatone/go-backoffice-cache/notify"
)

// Mutation records a single write operation and its outcome.
type Mutation struct {
	Name         string
	Input        any
	Status       cache.Status
	AffectedKeys []cache.Key
	Message      string
	Err          error
}

// Apply performs the cache side effects of a successful mutation and returns
// the keys it touched.
type Apply func(env Envelope) []cache.Key

// Mutator runs write operations against the backend. Every Run produces
// exactly one notification. Cache writes only happen on success.
type Mutator struct {
	client     client.Doer
	registry   *cache.Registry
	notifier   notify.Notifier
	log        *zap.Logger
	onMutation func(Mutation)
}

// MutatorOption configures a Mutator.
type MutatorOption func(*Mutator)

// WithMutationObserver registers fn to receive every finished mutation record.
func WithMutationObserver(fn func(Mutation)) MutatorOption {
	return func(m *Mutator) {
		m.onMutation = fn
	}
}

// NewMutator builds a Mutator. A nil notifier or logger disables that output.
func NewMutator(c client.Doer, registry *cache.Registry, notifier notify.Notifier, log *zap.Logger, opts ...MutatorOption) *Mutator {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	m := &Mutator{
		client:   c,
		registry: registry,
		notifier: notifier,
		log:      log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registry returns the cache the mutator writes to.
func (m *Mutator) Registry() *cache.Registry {
	return m.registry
}

// Run sends req and, on success, calls apply and notifies with the backend
// message or defaultMessage. On failure nothing is written, the normalized
// error message is notified and the error is returned.
func (m *Mutator) Run(ctx context.Context, name string, input any, req client.Request, defaultMessage string, apply Apply) (Envelope, error) {
	rec := Mutation{Name: name, Input: input, Status: cache.StatusPending}

	env, err := send(ctx, m.client, req)
	if err != nil {
		return env, m.fail(rec, err)
	}

	if apply != nil {
		rec.AffectedKeys = apply(env)
	}
	rec.Status = cache.StatusSuccess
	rec.Message = coalesce(env.Message, defaultMessage)

	m.log.Info("mutation succeeded",
		zap.String("mutation", name),
		zap.Int("affected_keys", len(rec.AffectedKeys)),
	)
	m.notifier.NotifySuccess(rec.Message)
	m.observe(rec)
	return env, nil
}

// Reject records name as failed without contacting the backend.
func (m *Mutator) Reject(name string, input any, err error) error {
	return m.fail(Mutation{Name: name, Input: input}, err)
}

func (m *Mutator) fail(rec Mutation, err error) error {
	rec.Status = cache.StatusError
	rec.Err = err
	rec.Message = ErrorMessage(err)

	m.log.Warn("mutation failed",
		zap.String("mutation", rec.Name),
		zap.Error(err),
	)
	m.notifier.NotifyError(rec.Message)
	m.observe(rec)
	return err
}

func (m *Mutator) observe(rec Mutation) {
	if m.onMutation != nil {
		m.onMutation(rec)
	}
}

// send performs req and decodes the envelope. A success=false envelope yields
// a *RequestFailedError, a failed call a *TransportError.
func send(ctx context.Context, c client.Doer, req client.Request) (Envelope, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Envelope{}, err
		}
		return Envelope{}, newTransportError(err)
	}

	env, err := DecodeEnvelope(resp.Body)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !env.Success {
		return env, &RequestFailedError{Message: coalesce(env.Message, DefaultErrorMessage)}
	}
	return env, nil
}

func coalesce(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
