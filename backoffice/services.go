package backoffice

import (
	"context"
	"net/http"
	"net/url"

	"github.com/goliatone/go-backoffice-cache/cache"
	"github.com/goliatone/go-backoffice-cache/client"
	"github.com/goliatone/go-backoffice-cache/resource"
)

const servicesPath = "/api/services"

// ServiceCatalog reads and manages the service types and the statuses
// available per type. Reads never fail: errors degrade to an empty list.
type ServiceCatalog struct {
	types    *resource.Catalog[string]
	statuses *resource.Catalog[string]
	mutator  *resource.Mutator
}

func newServiceCatalog(m *resource.Mutator, retry resource.RetryPolicy) *ServiceCatalog {
	return &ServiceCatalog{
		types: resource.NewCatalog(m, resource.CatalogOptions[string]{
			Name:   "service-types",
			Retry:  retry,
			Unwrap: resource.Field[[]string]("services", "data"),
		}),
		statuses: resource.NewCatalog(m, resource.CatalogOptions[string]{
			Name:   "service-statuses",
			Retry:  retry,
			Unwrap: resource.Field[[]string]("statuses", "data"),
		}),
		mutator: m,
	}
}

// ServicesKey is the root of every catalog key.
func ServicesKey() cache.Key { return cache.All(ResourceServices) }

// ServiceTypesKey identifies the service type list.
func ServiceTypesKey() cache.Key { return ServicesKey().Extend("types") }

// ServiceStatusesKey identifies the status list of serviceType.
func ServiceStatusesKey(serviceType string) cache.Key {
	return ServicesKey().Extend("statuses", serviceType)
}

// ServiceTypes returns the available service types through the cache.
func (s *ServiceCatalog) ServiceTypes(ctx context.Context) resource.ReadResult[[]string] {
	return s.types.Read(ctx, ServiceTypesKey(), client.Request{Method: http.MethodGet, Path: servicesPath})
}

// Statuses returns the statuses of serviceType through the cache. An empty
// serviceType leaves the query idle.
func (s *ServiceCatalog) Statuses(ctx context.Context, serviceType string) resource.ReadResult[[]string] {
	if serviceType == "" {
		return resource.ReadResult[[]string]{Data: []string{}, Status: cache.StatusIdle}
	}
	return s.statuses.Read(ctx, ServiceStatusesKey(serviceType),
		client.Request{Method: http.MethodGet, Path: statusesPath(serviceType)})
}

// FetchServiceTypes bypasses the cache.
func (s *ServiceCatalog) FetchServiceTypes(ctx context.Context) []string {
	return s.types.Fetch(ctx, client.Request{Method: http.MethodGet, Path: servicesPath})
}

// CreateServiceType adds a service type.
func (s *ServiceCatalog) CreateServiceType(ctx context.Context, serviceType string) error {
	if serviceType == "" {
		return s.mutator.Reject("create-service", serviceType, resource.ErrMissingID)
	}
	return s.run(ctx, "create-service", serviceType,
		client.Request{Method: http.MethodPost, Path: servicesPath, Body: map[string]string{"type": serviceType}},
		"Service type created successfully")
}

// DeleteServiceType removes a service type with its statuses.
func (s *ServiceCatalog) DeleteServiceType(ctx context.Context, serviceType string) error {
	if serviceType == "" {
		return s.mutator.Reject("delete-service", serviceType, resource.ErrMissingID)
	}
	return s.run(ctx, "delete-service", serviceType,
		client.Request{Method: http.MethodDelete, Path: servicesPath + "/" + url.PathEscape(serviceType)},
		"Service type deleted successfully")
}

// AddStatus adds status to serviceType.
func (s *ServiceCatalog) AddStatus(ctx context.Context, serviceType, status string) error {
	input := map[string]string{"type": serviceType, "status": status}
	if serviceType == "" || status == "" {
		return s.mutator.Reject("add-status", input, resource.ErrMissingID)
	}
	return s.run(ctx, "add-status", input,
		client.Request{Method: http.MethodPost, Path: statusesPath(serviceType), Body: map[string]string{"status": status}},
		"Status added successfully")
}

// DeleteStatus removes status from serviceType.
func (s *ServiceCatalog) DeleteStatus(ctx context.Context, serviceType, status string) error {
	input := map[string]string{"type": serviceType, "status": status}
	if serviceType == "" || status == "" {
		return s.mutator.Reject("delete-status", input, resource.ErrMissingID)
	}
	return s.run(ctx, "delete-status", input,
		client.Request{Method: http.MethodDelete, Path: statusesPath(serviceType) + "/" + url.PathEscape(status)},
		"Status deleted successfully")
}

// run invalidates the whole catalog on success.
func (s *ServiceCatalog) run(ctx context.Context, name string, input any, req client.Request, message string) error {
	_, err := s.mutator.Run(ctx, name, input, req, message, func(resource.Envelope) []cache.Key {
		key := ServicesKey()
		s.mutator.Registry().Invalidate(key)
		return []cache.Key{key}
	})
	return err
}

func statusesPath(serviceType string) string {
	return servicesPath + "/" + url.PathEscape(serviceType) + "/statuses"
}
