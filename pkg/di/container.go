package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-backoffice-cache/backoffice"
	"github.com/goliatone/go-backoffice-cache/cache"
	"github.com/goliatone/go-backoffice-cache/client"
	"github.com/goliatone/go-backoffice-cache/config"
	"github.com/goliatone/go-backoffice-cache/internal/logging"
	"github.com/goliatone/go-backoffice-cache/notify"
	"github.com/goliatone/go-backoffice-cache/resource"
)

// Container provides dependency injection for the back-office components.
// It owns a single registry, client and notifier, and the resources built on them.
type Container struct {
	config     config.Config
	log        *zap.Logger
	client     client.Doer
	registry   *cache.Registry
	notifier   notify.Notifier
	mutator    *resource.Mutator
	backoffice *backoffice.Backoffice
}

type options struct {
	log        *zap.Logger
	client     client.Doer
	notifier   notify.Notifier
	onMutation func(resource.Mutation)
	cacheOpts  []cache.Option
}

// Option customizes the collaborators of a Container.
type Option func(*options)

// WithLogger replaces the logger built from the log config.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithClient replaces the resty client built from the api config.
func WithClient(c client.Doer) Option {
	return func(o *options) { o.client = c }
}

// WithNotifier replaces the logging notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithMutationObserver receives every finished mutation record.
func WithMutationObserver(fn func(resource.Mutation)) Option {
	return func(o *options) { o.onMutation = fn }
}

// WithCacheOptions passes extra options to the registry.
func WithCacheOptions(opts ...cache.Option) Option {
	return func(o *options) { o.cacheOpts = append(o.cacheOpts, opts...) }
}

// NewContainer validates cfg and wires every component from it.
func NewContainer(cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	log := o.log
	if log == nil {
		var err error
		log, err = logging.New(cfg.Log.Format, cfg.Log.Level)
		if err != nil {
			return nil, err
		}
	}

	doer := o.client
	if doer == nil {
		doer = client.NewResty(cfg.API, log)
	}

	notifier := o.notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier(log)
	}

	cacheOpts := append([]cache.Option{cache.WithLogger(log.Named("cache"))}, o.cacheOpts...)
	registry, err := cache.NewRegistryFromConfig(cfg.Cache, cacheOpts...)
	if err != nil {
		return nil, err
	}

	var mutatorOpts []resource.MutatorOption
	if o.onMutation != nil {
		mutatorOpts = append(mutatorOpts, resource.WithMutationObserver(o.onMutation))
	}
	mutator := resource.NewMutator(doer, registry, notifier, log.Named("resource"), mutatorOpts...)

	bo, err := backoffice.New(mutator, backoffice.Options{CatalogRetry: cfg.CatalogRetry})
	if err != nil {
		return nil, err
	}

	return &Container{
		config:     cfg,
		log:        log,
		client:     doer,
		registry:   registry,
		notifier:   notifier,
		mutator:    mutator,
		backoffice: bo,
	}, nil
}

// NewContainerWithDefaults creates a container using config.Default().
func NewContainerWithDefaults(opts ...Option) (*Container, error) {
	return NewContainer(config.Default(), opts...)
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() config.Config { return c.config }

func (c *Container) Logger() *zap.Logger { return c.log }

func (c *Container) Client() client.Doer { return c.client }

// Registry returns the shared query cache.
func (c *Container) Registry() *cache.Registry { return c.registry }

func (c *Container) Notifier() notify.Notifier { return c.notifier }

// Mutator returns the shared mutation runner, for modules built with NewModule.
func (c *Container) Mutator() *resource.Mutator { return c.mutator }

// Backoffice returns the customers, agents, vendors and catalog resources.
func (c *Container) Backoffice() *backoffice.Backoffice { return c.backoffice }

// StartJanitor sweeps expired entries every SweepInterval until ctx ends.
// It is a no-op when the interval is zero.
func (c *Container) StartJanitor(ctx context.Context) {
	if c.config.SweepInterval <= 0 {
		return
	}
	go c.registry.Run(ctx, c.config.SweepInterval)
}

// NewModule builds an additional resource module on the container's shared
// client, cache and notifier.
//
// Since Go methods cannot have type parameters, this is provided as a package-level function.
// Example: NewModule[Invoice](container, resource.Options[Invoice]{...})
func NewModule[T any](container *Container, opts resource.Options[T]) (*resource.Module[T], error) {
	return resource.NewModule(container.mutator, opts)
}
