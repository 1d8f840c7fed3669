package resource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-backoffice-cache/cache"
	"github.com/goliatone/go-backoffice-cache/client"
)

// Messages are the notifications shown when the backend does not supply one.
type Messages struct {
	Created string
	Updated string
	Deleted string
	Patched string
}

// DefaultMessages derives the success messages for a resource label such as "Customer".
func DefaultMessages(label string) Messages {
	return Messages{
		Created: label + " created successfully",
		Updated: label + " updated successfully",
		Deleted: label + " deleted successfully",
		Patched: label + " updated successfully",
	}
}

// Options configures a Module.
type Options[T any] struct {
	// Resource is the root token of every cache key of the module.
	Resource string
	// Path is the collection endpoint, e.g. "/api/customers".
	Path string
	// Label names one entity in notifications.
	Label string
	// ID extracts the identifier of an entity.
	ID func(T) string

	UnwrapOne  Unwrap[T]
	UnwrapList Unwrap[[]T]

	Policy   cache.Policy
	Messages Messages
	Keys     *cache.Keys
}

// Module implements list/detail reads and create/update/delete/patch writes
// for one REST collection on top of the shared cache.
type Module[T any] struct {
	opts    Options[T]
	keys    cache.Keys
	client  client.Doer
	mutator *Mutator
	log     *zap.Logger
}

// NewModule builds a Module. The mutator supplies the client, cache and notifier.
func NewModule[T any](mutator *Mutator, opts Options[T]) (*Module[T], error) {
	if mutator == nil {
		return nil, fmt.Errorf("resource %q: mutator is required", opts.Resource)
	}
	if opts.Resource == "" || opts.Path == "" {
		return nil, fmt.Errorf("resource: resource and path are required")
	}
	if opts.ID == nil {
		return nil, fmt.Errorf("resource %q: id accessor is required", opts.Resource)
	}
	if opts.UnwrapOne == nil {
		opts.UnwrapOne = Field[T]("data")
	}
	if opts.UnwrapList == nil {
		opts.UnwrapList = Field[[]T]("data")
	}
	if opts.Policy == (cache.Policy{}) {
		opts.Policy = cache.DefaultPolicy
	}
	if opts.Label == "" {
		opts.Label = opts.Resource
	}
	defaults := DefaultMessages(opts.Label)
	opts.Messages.Created = coalesce(opts.Messages.Created, defaults.Created)
	opts.Messages.Updated = coalesce(opts.Messages.Updated, defaults.Updated)
	opts.Messages.Deleted = coalesce(opts.Messages.Deleted, defaults.Deleted)
	opts.Messages.Patched = coalesce(opts.Messages.Patched, defaults.Patched)

	keys := cache.NewKeys(opts.Resource)
	if opts.Keys != nil {
		keys = *opts.Keys
	}

	return &Module[T]{
		opts:    opts,
		keys:    keys,
		client:  mutator.client,
		mutator: mutator,
		log:     mutator.log.Named(opts.Resource),
	}, nil
}

// Keys returns the key family of the module.
func (m *Module[T]) Keys() cache.Keys { return m.keys }

// Registry returns the shared cache.
func (m *Module[T]) Registry() *cache.Registry { return m.mutator.registry }

// Mutator returns the mutation runner, for resource specific writes.
func (m *Module[T]) Mutator() *Mutator { return m.mutator }

// DetailPath returns the endpoint of a single entity, with optional sub-resource segments.
func (m *Module[T]) DetailPath(id string, segments ...string) string {
	parts := make([]string, 0, len(segments)+2)
	parts = append(parts, strings.TrimRight(m.opts.Path, "/"), url.PathEscape(id))
	for _, s := range segments {
		parts = append(parts, url.PathEscape(s))
	}
	return strings.Join(parts, "/")
}

// FetchList loads one page of the collection, bypassing the cache.
func (m *Module[T]) FetchList(ctx context.Context, params cache.Params) (Page[T], error) {
	env, err := send(ctx, m.client, client.Request{
		Method: http.MethodGet,
		Path:   m.opts.Path,
		Query:  params.Values(),
	})
	if err != nil {
		return Page[T]{}, err
	}

	items, _, err := m.opts.UnwrapList(env)
	if err != nil {
		return Page[T]{}, err
	}
	if items == nil {
		items = []T{}
	}

	page := Page[T]{Items: items, Pagination: DefaultPagination}
	if env.Pagination != nil {
		page.Pagination = *env.Pagination
	}
	return page, nil
}

// FetchOne loads a single entity, bypassing the cache.
func (m *Module[T]) FetchOne(ctx context.Context, id string) (T, error) {
	var zero T
	if id == "" {
		return zero, ErrMissingID
	}

	env, err := send(ctx, m.client, client.Request{Method: http.MethodGet, Path: m.DetailPath(id)})
	if err != nil {
		return zero, err
	}

	entity, found, err := m.opts.UnwrapOne(env)
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, fmt.Errorf("%w: no %s in response", ErrMalformedResponse, m.opts.Label)
	}
	return entity, nil
}

// List reads a page through the cache under the List(params) key.
func (m *Module[T]) List(ctx context.Context, params cache.Params) ReadResult[Page[T]] {
	data, entry, err := cache.FetchAs(ctx, m.Registry(), m.keys.List(params), m.opts.Policy,
		func(ctx context.Context) (Page[T], error) {
			return m.FetchList(ctx, params)
		})
	return newReadResult(data, entry, err)
}

// Get reads one entity through the cache under the Detail(id) key. An empty id
// leaves the query idle and performs no call.
func (m *Module[T]) Get(ctx context.Context, id string) ReadResult[T] {
	if id == "" {
		return ReadResult[T]{Status: cache.StatusIdle}
	}
	data, entry, err := cache.FetchAs(ctx, m.Registry(), m.keys.Detail(id), m.opts.Policy,
		func(ctx context.Context) (T, error) {
			return m.FetchOne(ctx, id)
		})
	return newReadResult(data, entry, err)
}

// Watch keeps the detail entry of id alive until the returned release is called.
func (m *Module[T]) Watch(id string) func() {
	return m.Registry().Subscribe(m.keys.Detail(id), m.opts.Policy)
}

// Create posts input. On success every list is invalidated and the returned
// entity, when present, seeds its detail entry.
func (m *Module[T]) Create(ctx context.Context, input any) (T, error) {
	var created T
	_, err := m.mutator.Run(ctx, "create", input,
		client.Request{Method: http.MethodPost, Path: m.opts.Path, Body: input},
		m.opts.Messages.Created,
		func(env Envelope) []cache.Key {
			affected := m.invalidateLists()
			entity, found, err := m.opts.UnwrapOne(env)
			if err != nil || !found {
				m.log.Debug("create response carries no entity", zap.Error(err))
				return affected
			}
			created = entity
			if id := m.opts.ID(entity); id != "" {
				key := m.keys.Detail(id)
				m.Registry().Set(key, entity, m.opts.Policy)
				affected = append(affected, key)
			}
			return affected
		})
	return created, err
}

// Update replaces the entity id with input.
func (m *Module[T]) Update(ctx context.Context, id string, input any) (T, error) {
	const name = "update"
	if id == "" {
		var zero T
		return zero, m.mutator.Reject(name, input, ErrMissingID)
	}
	return m.write(ctx, name, id, input,
		client.Request{Method: http.MethodPut, Path: m.DetailPath(id), Body: input},
		m.opts.Messages.Updated)
}

// PatchInput changes a single attribute through PATCH {path}/{id}/{field}.
type PatchInput struct {
	ID    string
	Field string
	Value any
	// Message overrides the default success notification.
	Message string
}

// Patch applies a single-field update. The body is {attribute: value} where
// attribute is Field in camel case.
func (m *Module[T]) Patch(ctx context.Context, in PatchInput) (T, error) {
	name := "patch:" + in.Field
	if in.ID == "" {
		var zero T
		return zero, m.mutator.Reject(name, in, ErrMissingID)
	}
	if in.Field == "" {
		var zero T
		return zero, m.mutator.Reject(name, in, fmt.Errorf("%s: patch field is required", m.opts.Label))
	}

	body := map[string]any{attributeName(in.Field): in.Value}
	return m.write(ctx, name, in.ID, in,
		client.Request{Method: http.MethodPatch, Path: m.DetailPath(in.ID, in.Field), Body: body},
		coalesce(in.Message, m.opts.Messages.Patched))
}

// Delete removes the entity id. On success the lists are invalidated and the
// detail entry is evicted.
func (m *Module[T]) Delete(ctx context.Context, id string) error {
	const name = "delete"
	if id == "" {
		return m.mutator.Reject(name, id, ErrMissingID)
	}
	_, err := m.mutator.Run(ctx, name, id,
		client.Request{Method: http.MethodDelete, Path: m.DetailPath(id)},
		m.opts.Messages.Deleted,
		func(Envelope) []cache.Key {
			affected := m.invalidateLists()
			key := m.keys.Detail(id)
			m.Registry().Evict(key)
			return append(affected, key)
		})
	return err
}

// write runs an update-like mutation: lists are invalidated and the detail
// entry is overwritten with the returned entity, or invalidated when the
// response has none.
func (m *Module[T]) write(ctx context.Context, name, id string, input any, req client.Request, message string) (T, error) {
	var updated T
	_, err := m.mutator.Run(ctx, name, input, req, message, func(env Envelope) []cache.Key {
		affected := m.invalidateLists()
		key := m.keys.Detail(id)
		affected = append(affected, key)

		entity, found, err := m.opts.UnwrapOne(env)
		if err == nil && found {
			updated = entity
			m.Registry().Set(key, entity, m.opts.Policy)
			return affected
		}
		m.Registry().Invalidate(key)
		return affected
	})
	return updated, err
}

func (m *Module[T]) invalidateLists() []cache.Key {
	lists := m.keys.Lists()
	n := m.Registry().Invalidate(lists)
	m.log.Debug("lists invalidated", zap.Stringer("prefix", lists), zap.Int("entries", n))
	return []cache.Key{lists}
}
