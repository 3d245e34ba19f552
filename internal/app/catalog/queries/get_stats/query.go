package get_stats

import (
	"context"

	"github.com/light-bringer/salecat-service/internal/app/catalog/contracts"
	"github.com/light-bringer/salecat-service/internal/app/catalog/domain/services"
)

// Query handles the catalog statistics query use case.
type Query struct {
	catalog    contracts.Catalog
	statistics *services.Statistics
}

// NewQuery creates a new statistics query.
func NewQuery(catalog contracts.Catalog, statistics *services.Statistics) *Query {
	return &Query{
		catalog:    catalog,
		statistics: statistics,
	}
}

// Execute computes the statistics over the current collection.
func (q *Query) Execute(_ context.Context) services.Stats {
	return q.statistics.Compute(q.catalog.List())
}
