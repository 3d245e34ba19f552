package get_entity

import (
	"context"

	"github.com/light-bringer/salecat-service/internal/app/catalog/contracts"
	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
	"github.com/light-bringer/salecat-service/internal/app/catalog/domain/services"
)

// Request contains the entity ID to retrieve.
type Request struct {
	EntityID string
}

// Page sizes for AvailableTickets.
const (
	DefaultTicketsLimit = 500
	MaxTicketsLimit     = 5000
)

// TicketsRequest selects a page of unsold ticket numbers. A zero Limit means
// DefaultTicketsLimit.
type TicketsRequest struct {
	EntityID string
	Offset   int
	Limit    int
}

// TicketsPage is one page of unsold ticket numbers.
type TicketsPage struct {
	Numbers   []int
	Available int
	Offset    int
	Limit     int
}

// Query handles the get entity query use case.
type Query struct {
	catalog   contracts.Catalog
	allocator *services.TicketAllocator
}

// NewQuery creates a new get entity query.
func NewQuery(catalog contracts.Catalog, allocator *services.TicketAllocator) *Query {
	return &Query{
		catalog:   catalog,
		allocator: allocator,
	}
}

// Execute retrieves an entity by ID.
func (q *Query) Execute(_ context.Context, req *Request) (*domain.Entity, error) {
	return q.catalog.Get(req.EntityID)
}

// AvailableTickets returns one page of the unsold ticket numbers of a raffle,
// ascending, together with how many are unsold in total.
func (q *Query) AvailableTickets(ctx context.Context, req *TicketsRequest) (*TicketsPage, error) {
	if req.Offset < 0 {
		return nil, domain.NewValidationError("offset", "must not be negative")
	}
	if req.Limit < 0 {
		return nil, domain.NewValidationError("limit", "must not be negative")
	}

	limit := req.Limit
	if limit == 0 {
		limit = DefaultTicketsLimit
	}
	limit = min(limit, MaxTicketsLimit)

	e, err := q.Execute(ctx, &Request{EntityID: req.EntityID})
	if err != nil {
		return nil, err
	}

	r, ok := e.Raffle()
	if !ok {
		return nil, domain.NewValidationError(domain.FieldType, "only raffles have tickets")
	}

	return &TicketsPage{
		Numbers:   q.allocator.AvailablePage(r.TotalTickets, r.SoldTicketNumbers, req.Offset, limit),
		Available: q.allocator.CountAvailable(r.TotalTickets, r.SoldTicketNumbers),
		Offset:    req.Offset,
		Limit:     limit,
	}, nil
}
