package create_entity

import (
	"context"

	"go.uber.org/zap"

	"github.com/light-bringer/salecat-service/internal/app/catalog/contracts"
	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
	"github.com/light-bringer/salecat-service/internal/pkg/logger"
	"github.com/light-bringer/salecat-service/internal/pkg/metrics"
)

// Request contains the data needed to create a product or a raffle.
type Request struct {
	Draft domain.Draft
}

// Interactor handles the create entity use case.
type Interactor struct {
	catalog contracts.Catalog
	metrics *metrics.Metrics
}

// NewInteractor creates a new create entity interactor.
func NewInteractor(catalog contracts.Catalog, m *metrics.Metrics) *Interactor {
	return &Interactor{
		catalog: catalog,
		metrics: m,
	}
}

// Execute validates the draft and appends the new entity to the catalog.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Entity, error) {
	entity, err := i.catalog.Create(ctx, req.Draft)
	if err != nil {
		i.metrics.ObserveMutation("create", string(domain.KindOf(err)))
		logger.Info(ctx, "create rejected",
			zap.String("type", string(req.Draft.Type)),
			zap.Error(err),
		)
		return nil, err
	}

	i.metrics.ObserveMutation("create", "ok")
	logger.Info(ctx, "entity created",
		zap.String("id", entity.ID()),
		zap.String("type", string(entity.Type())),
	)
	return entity, nil
}
