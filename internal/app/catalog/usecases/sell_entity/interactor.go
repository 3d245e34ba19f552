package sell_entity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/salecat-service/internal/app/catalog/contracts"
	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
	"github.com/light-bringer/salecat-service/internal/app/catalog/domain/services"
	"github.com/light-bringer/salecat-service/internal/pkg/logger"
	"github.com/light-bringer/salecat-service/internal/pkg/metrics"
)

// Request contains the sale to apply to one entity.
type Request struct {
	EntityID string
	Sale     domain.SaleRequest
}

// Interactor handles the sell use case: load, validate and compute through
// the sale processor, then persist the full catalog.
type Interactor struct {
	catalog   contracts.Catalog
	processor *services.SaleProcessor
	metrics   *metrics.Metrics
}

// NewInteractor creates a new sell interactor.
func NewInteractor(catalog contracts.Catalog, processor *services.SaleProcessor, m *metrics.Metrics) *Interactor {
	return &Interactor{
		catalog:   catalog,
		processor: processor,
		metrics:   m,
	}
}

// Execute sells the requested quantity or tickets. On any failure neither the
// entity nor the persisted catalog changes.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Entity, error) {
	ctx = logger.WithFields(ctx,
		zap.String("entity_id", req.EntityID),
		zap.String("sale_type", string(req.Sale.Type)),
	)

	entity, err := i.catalog.Mutate(ctx, req.EntityID, func(e *domain.Entity) (*domain.Entity, error) {
		return i.processor.Sell(e, req.Sale)
	})
	if err != nil {
		i.metrics.ObserveSale(string(req.Sale.Type), outcome(err), 0)
		logger.Info(ctx, "sale rejected",
			zap.String("kind", string(domain.KindOf(err))),
			zap.Error(err),
		)
		return nil, fmt.Errorf("sell %s: %w", req.EntityID, err)
	}

	units := req.Sale.Quantity
	if entity.Type() == domain.TypeRaffle {
		units = len(req.Sale.TicketNumbers)
	}
	i.metrics.ObserveSale(string(entity.Type()), metrics.OutcomeSold, units)

	logger.Info(ctx, "sale completed",
		zap.Int("units", units),
		zap.String("status", string(entity.Status())),
	)
	return entity, nil
}

// outcome separates rule rejections from infrastructure failures.
func outcome(err error) string {
	switch domain.KindOf(err) {
	case domain.KindPersistence, domain.KindConflict, domain.KindUnknown:
		return metrics.OutcomeFailed
	default:
		return metrics.OutcomeRejected
	}
}
