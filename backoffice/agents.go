package backoffice

import (
	"context"

	"github.com/goliatone/go-backoffice-cache/cache"
	"github.com/goliatone/go-backoffice-cache/resource"
)

// AirAgent is a B2B air-ticketing agent.
type AirAgent struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Company    string  `json:"company,omitempty"`
	Email      string  `json:"email,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	IATACode   string  `json:"iataCode,omitempty"`
	Commission float64 `json:"commission,omitempty"`
	Balance    float64 `json:"balance,omitempty"`
	Status     string  `json:"status,omitempty"`
}

// AirAgentInput is the body of create and update calls.
type AirAgentInput struct {
	Name       string  `json:"name"`
	Company    string  `json:"company,omitempty"`
	Email      string  `json:"email,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	IATACode   string  `json:"iataCode,omitempty"`
	Commission float64 `json:"commission,omitempty"`
}

// AirAgentFilter narrows an agent list.
type AirAgentFilter struct {
	Page   int
	Limit  int
	Query  string
	Status string
}

// Params returns the filter in its canonical order.
func (f AirAgentFilter) Params() cache.Params {
	return cache.Params{
		cache.P("page", optionalInt(f.Page)),
		cache.P("limit", optionalInt(f.Limit)),
		cache.P("q", optional(f.Query)),
		cache.P("status", optional(f.Status)),
	}
}

// AirAgents reads and writes /api/b2b-air-agents.
type AirAgents struct {
	*resource.Module[AirAgent]
}

func newAirAgents(m *resource.Mutator) (*AirAgents, error) {
	mod, err := resource.NewModule(m, resource.Options[AirAgent]{
		Resource:   ResourceAirAgents,
		Path:       "/api/b2b-air-agents",
		Label:      "Agent",
		ID:         func(a AirAgent) string { return a.ID },
		UnwrapOne:  resource.Field[AirAgent]("agent", "data"),
		UnwrapList: resource.Field[[]AirAgent]("agents", "data"),
	})
	if err != nil {
		return nil, err
	}
	return &AirAgents{Module: mod}, nil
}

// Find lists agents matching f.
func (a *AirAgents) Find(ctx context.Context, f AirAgentFilter) resource.ReadResult[resource.Page[AirAgent]] {
	return a.List(ctx, f.Params())
}

// ToggleStatus activates or suspends an agent.
func (a *AirAgents) ToggleStatus(ctx context.Context, id, status string) (AirAgent, error) {
	return a.Patch(ctx, resource.PatchInput{ID: id, Field: "status", Value: status, Message: "Agent status updated"})
}
