package delete_entity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/salecat-service/internal/app/catalog/contracts"
	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
	"github.com/light-bringer/salecat-service/internal/pkg/logger"
	"github.com/light-bringer/salecat-service/internal/pkg/metrics"
)

// Request identifies the entity to remove.
type Request struct {
	EntityID string
}

// Interactor handles the delete entity use case.
type Interactor struct {
	catalog contracts.Catalog
	metrics *metrics.Metrics
}

// NewInteractor creates a new delete entity interactor.
func NewInteractor(catalog contracts.Catalog, m *metrics.Metrics) *Interactor {
	return &Interactor{
		catalog: catalog,
		metrics: m,
	}
}

// Execute removes the entity from the catalog.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	if err := i.catalog.Delete(ctx, req.EntityID); err != nil {
		i.metrics.ObserveMutation("delete", string(domain.KindOf(err)))
		return fmt.Errorf("delete %s: %w", req.EntityID, err)
	}

	i.metrics.ObserveMutation("delete", "ok")
	logger.Info(ctx, "entity deleted", zap.String("id", req.EntityID))
	return nil
}
