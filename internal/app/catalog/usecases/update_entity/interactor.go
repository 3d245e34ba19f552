package update_entity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/salecat-service/internal/app/catalog/contracts"
	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
	"github.com/light-bringer/salecat-service/internal/pkg/logger"
	"github.com/light-bringer/salecat-service/internal/pkg/metrics"
)

// Request contains the operator edit for one entity.
type Request struct {
	EntityID string
	Patch    domain.Patch
}

// Interactor handles the update entity use case.
type Interactor struct {
	catalog contracts.Catalog
	metrics *metrics.Metrics
}

// NewInteractor creates a new update entity interactor.
func NewInteractor(catalog contracts.Catalog, m *metrics.Metrics) *Interactor {
	return &Interactor{
		catalog: catalog,
		metrics: m,
	}
}

// Execute merges the patch, re-validates and persists the entity.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Entity, error) {
	if req.EntityID == "" {
		return nil, domain.NewValidationError("id", "is required")
	}

	entity, err := i.catalog.Update(ctx, req.EntityID, req.Patch)
	if err != nil {
		i.metrics.ObserveMutation("update", string(domain.KindOf(err)))
		return nil, fmt.Errorf("update %s: %w", req.EntityID, err)
	}

	i.metrics.ObserveMutation("update", "ok")
	logger.Info(ctx, "entity updated", zap.String("id", entity.ID()))
	return entity, nil
}
