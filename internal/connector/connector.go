package connector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/backgroundcheck/x24-platform/internal/domain"
)

// Request is the uniform query shape every external source is adapted to,
// regardless of its native protocol.
type Request struct {
	Name        string
	Aliases     []string
	DateOfBirth string
	Nationality string
	Identifiers map[string]string
}

// RequestFromEntity projects the entity fields a connector may query on.
func RequestFromEntity(e domain.Entity) Request {
	return Request{
		Name:        e.Name,
		Aliases:     e.Aliases,
		DateOfBirth: e.DateOfBirth,
		Nationality: e.Nationality,
		Identifiers: e.Identifiers,
	}
}

// NormalizedResponse is the uniform result shape for all sources.
type NormalizedResponse struct {
	ConnectorID string
	Candidates  []domain.CandidateRecord
	RetrievedAt time.Time
}

//go:generate mockgen -source=connector.go -destination=mocks/mocks.go -package=mocks Connector

// Connector is the capability interface every watchlist source adapter
// implements. New sources require only a new implementation, not changes to
// the orchestrator.
type Connector interface {
	// ID returns a unique identifier for this connector instance.
	ID() string

	// Category returns the risk domain this source contributes evidence to.
	Category() domain.Category

	// AppliesTo reports whether the source is worth querying for the entity type.
	AppliesTo(t domain.EntityType) bool

	// Call performs one lookup against the source.
	Call(ctx context.Context, req Request) (*NormalizedResponse, error)
}

// Registry maintains all registered connectors.
type Registry struct {
	connectors map[string]Connector
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{connectors: make(map[string]Connector)}
}

// Register adds a connector to the registry.
func (r *Registry) Register(c Connector) error {
	id := c.ID()
	if _, exists := r.connectors[id]; exists {
		return fmt.Errorf("connector %s already registered", id)
	}
	r.connectors[id] = c
	return nil
}

// Get retrieves a connector by ID.
func (r *Registry) Get(id string) (Connector, bool) {
	c, ok := r.connectors[id]
	return c, ok
}

// Applicable returns the connectors that apply to the given entity type,
// sorted by ID so fan-out order is deterministic.
func (r *Registry) Applicable(t domain.EntityType) []Connector {
	var result []Connector
	for _, c := range r.connectors {
		if c.AppliesTo(t) {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}

// All returns all registered connectors sorted by ID.
func (r *Registry) All() []Connector {
	result := make([]Connector, 0, len(r.connectors))
	for _, c := range r.connectors {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}
