// Package backoffice wires the travel-agency resources onto the generic
// resource layer: customers, air-ticketing agents, vendors and the service
// catalog.
package backoffice

import (
	"fmt"

	"github.com/goliatone/go-backoffice-cache/resource"
)

// Cache key roots.
const (
	ResourceCustomers = "customers"
	ResourceAirAgents = "agents"
	ResourceVendors   = "vendors"
	ResourceServices  = "services"
)

// Backoffice groups every resource over one shared mutator and cache.
type Backoffice struct {
	Customers *Customers
	AirAgents *AirAgents
	Vendors   *Vendors
	Services  *ServiceCatalog
}

// Options configures New.
type Options struct {
	CatalogRetry resource.RetryPolicy
}

// DefaultOptions uses the default catalog retry policy.
func DefaultOptions() Options {
	return Options{CatalogRetry: resource.DefaultRetryPolicy}
}

// New builds every resource on top of m.
func New(m *resource.Mutator, opts Options) (*Backoffice, error) {
	customers, err := newCustomers(m)
	if err != nil {
		return nil, fmt.Errorf("customers: %w", err)
	}
	agents, err := newAirAgents(m)
	if err != nil {
		return nil, fmt.Errorf("air agents: %w", err)
	}
	vendors, err := newVendors(m)
	if err != nil {
		return nil, fmt.Errorf("vendors: %w", err)
	}

	return &Backoffice{
		Customers: customers,
		AirAgents: agents,
		Vendors:   vendors,
		Services:  newServiceCatalog(m, opts.CatalogRetry),
	}, nil
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optionalInt(n int) any {
	if n <= 0 {
		return nil
	}
	return n
}
