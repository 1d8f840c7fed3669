package backoffice

import (
	"context"

	"github.com/goliatone/go-backoffice-cache/cache"
	"github.com/goliatone/go-backoffice-cache/resource"
)

// Vendor supplies services (airlines, hotels, transport) to the agency.
type Vendor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	ServiceType string `json:"serviceType,omitempty"`
	Address     string `json:"address,omitempty"`
	Status      string `json:"status,omitempty"`
}

// VendorInput is the body of create and update calls.
type VendorInput struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	ServiceType string `json:"serviceType,omitempty"`
	Address     string `json:"address,omitempty"`
}

// VendorFilter narrows a vendor list.
type VendorFilter struct {
	Page        int
	Limit       int
	Query       string
	ServiceType string
}

// Params returns the filter in its canonical order.
func (f VendorFilter) Params() cache.Params {
	return cache.Params{
		cache.P("page", optionalInt(f.Page)),
		cache.P("limit", optionalInt(f.Limit)),
		cache.P("q", optional(f.Query)),
		cache.P("serviceType", optional(f.ServiceType)),
	}
}

// Vendors reads and writes /api/vendors.
type Vendors struct {
	*resource.Module[Vendor]
}

func newVendors(m *resource.Mutator) (*Vendors, error) {
	mod, err := resource.NewModule(m, resource.Options[Vendor]{
		Resource:   ResourceVendors,
		Path:       "/api/vendors",
		Label:      "Vendor",
		ID:         func(v Vendor) string { return v.ID },
		UnwrapOne:  resource.Field[Vendor]("vendor", "data"),
		UnwrapList: resource.Field[[]Vendor]("vendors", "data"),
	})
	if err != nil {
		return nil, err
	}
	return &Vendors{Module: mod}, nil
}

// Find lists vendors matching f.
func (v *Vendors) Find(ctx context.Context, f VendorFilter) resource.ReadResult[resource.Page[Vendor]] {
	return v.List(ctx, f.Params())
}
