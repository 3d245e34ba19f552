package list_entities

import (
	"context"

	"github.com/light-bringer/salecat-service/internal/app/catalog/contracts"
	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
)

// Request holds optional filters. Zero values match everything.
type Request struct {
	Type   domain.EntityType
	Status domain.Status
}

// Query handles the list entities query use case.
type Query struct {
	catalog contracts.Catalog
}

// NewQuery creates a new list entities query.
func NewQuery(catalog contracts.Catalog) *Query {
	return &Query{
		catalog: catalog,
	}
}

// Execute returns copies of the matching entities in insertion order.
func (q *Query) Execute(_ context.Context, req *Request) ([]*domain.Entity, error) {
	if req.Type != "" && !req.Type.Valid() {
		return nil, domain.NewValidationError(domain.FieldType, "unknown type "+string(req.Type))
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, domain.NewValidationError(domain.FieldStatus, "unknown status "+string(req.Status))
	}

	all := q.catalog.List()
	out := make([]*domain.Entity, 0, len(all))
	for _, e := range all {
		if req.Type != "" && e.Type() != req.Type {
			continue
		}
		if req.Status != "" && e.Status() != req.Status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
