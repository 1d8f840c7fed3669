package backoffice

import (
	"context"

	"github.com/goliatone/go-backoffice-cache/cache"
	"github.com/goliatone/go-backoffice-cache/resource"
)

// Customer is a back-office customer record.
type Customer struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Type          string `json:"type,omitempty"`
	Status        string `json:"status,omitempty"`
	ServiceType   string `json:"serviceType,omitempty"`
	ServiceStatus string `json:"serviceStatus,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// CustomerInput is the body of create and update calls.
type CustomerInput struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Type        string `json:"type,omitempty"`
	Status      string `json:"status,omitempty"`
	ServiceType string `json:"serviceType,omitempty"`
}

// CustomerFilter narrows a customer list. Empty fields are left out of the
// query and of the cache key.
type CustomerFilter struct {
	Page        int
	Limit       int
	Query       string
	Status      string
	Type        string
	ServiceType string
}

// Params returns the filter in its canonical order.
func (f CustomerFilter) Params() cache.Params {
	return cache.Params{
		cache.P("page", optionalInt(f.Page)),
		cache.P("limit", optionalInt(f.Limit)),
		cache.P("q", optional(f.Query)),
		cache.P("status", optional(f.Status)),
		cache.P("type", optional(f.Type)),
		cache.P("serviceType", optional(f.ServiceType)),
	}
}

// Customers reads and writes /api/customers.
type Customers struct {
	*resource.Module[Customer]
}

func newCustomers(m *resource.Mutator) (*Customers, error) {
	mod, err := resource.NewModule(m, resource.Options[Customer]{
		Resource:   ResourceCustomers,
		Path:       "/api/customers",
		Label:      "Customer",
		ID:         func(c Customer) string { return c.ID },
		UnwrapOne:  resource.Field[Customer]("customer", "data"),
		UnwrapList: resource.Field[[]Customer]("customers", "data"),
	})
	if err != nil {
		return nil, err
	}
	return &Customers{Module: mod}, nil
}

// Find lists customers matching f.
func (c *Customers) Find(ctx context.Context, f CustomerFilter) resource.ReadResult[resource.Page[Customer]] {
	return c.List(ctx, f.Params())
}

// ToggleStatus sets the account status, e.g. "active" or "inactive".
func (c *Customers) ToggleStatus(ctx context.Context, id, status string) (Customer, error) {
	return c.Patch(ctx, resource.PatchInput{ID: id, Field: "status", Value: status, Message: "Customer status updated"})
}

// UpdateServiceType moves the customer to another service type.
func (c *Customers) UpdateServiceType(ctx context.Context, id, serviceType string) (Customer, error) {
	return c.Patch(ctx, resource.PatchInput{ID: id, Field: "service-type", Value: serviceType, Message: "Service type updated"})
}

// UpdateServiceStatus sets the processing status of the customer's service.
func (c *Customers) UpdateServiceStatus(ctx context.Context, id, serviceStatus string) (Customer, error) {
	return c.Patch(ctx, resource.PatchInput{ID: id, Field: "service-status", Value: serviceStatus, Message: "Service status updated"})
}
