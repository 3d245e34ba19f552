package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domainsvc "github.com/light-bringer/salecat-service/internal/app/catalog/domain/services"
	"github.com/light-bringer/salecat-service/internal/app/catalog/queries/get_entity"
	"github.com/light-bringer/salecat-service/internal/app/catalog/queries/get_stats"
	"github.com/light-bringer/salecat-service/internal/app/catalog/queries/list_entities"
	"github.com/light-bringer/salecat-service/internal/app/catalog/store"
	"github.com/light-bringer/salecat-service/internal/app/catalog/usecases/create_entity"
	"github.com/light-bringer/salecat-service/internal/app/catalog/usecases/delete_entity"
	"github.com/light-bringer/salecat-service/internal/app/catalog/usecases/sell_entity"
	"github.com/light-bringer/salecat-service/internal/app/catalog/usecases/update_entity"
	"github.com/light-bringer/salecat-service/internal/config"
	"github.com/light-bringer/salecat-service/internal/pkg/clock"
	"github.com/light-bringer/salecat-service/internal/pkg/metrics"
	httptransport "github.com/light-bringer/salecat-service/internal/transport/http"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	Storage *Storage

	Store          *store.Store
	Registry       *prometheus.Registry
	CatalogHandler *httptransport.CatalogHandler
	Router         http.Handler
}

// NewServiceOptions creates and wires up all application dependencies, then
// loads the persisted catalog.
func NewServiceOptions(ctx context.Context, cfg *config.Config) (*ServiceOptions, error) {
	opts := &ServiceOptions{}

	// 1. Infrastructure
	clk := clock.NewRealClock()
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	opts.Registry = reg

	// 2. Snapshot repository for the configured backend
	storage, err := OpenStorage(ctx, cfg, clk)
	if err != nil {
		return nil, err
	}
	opts.Storage = storage

	// 3. Catalog store
	catalog := store.New(storage.Snapshots, store.WithMetrics(m))
	if err := catalog.Load(ctx); err != nil {
		opts.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	opts.Store = catalog

	// 4. Domain services
	allocator := domainsvc.NewTicketAllocator()
	processor := domainsvc.NewSaleProcessor(allocator)
	statistics := domainsvc.NewStatistics()

	// 5. Command use cases (write operations)
	createEntityUseCase := create_entity.NewInteractor(catalog, m)
	updateEntityUseCase := update_entity.NewInteractor(catalog, m)
	deleteEntityUseCase := delete_entity.NewInteractor(catalog, m)
	sellEntityUseCase := sell_entity.NewInteractor(catalog, processor, m)

	// 6. Query use cases (read operations)
	getEntityQuery := get_entity.NewQuery(catalog, allocator)
	listEntitiesQuery := list_entities.NewQuery(catalog)
	getStatsQuery := get_stats.NewQuery(catalog, statistics)

	// 7. HTTP handler and router
	opts.CatalogHandler = httptransport.NewCatalogHandler(
		createEntityUseCase,
		updateEntityUseCase,
		deleteEntityUseCase,
		sellEntityUseCase,
		getEntityQuery,
		listEntitiesQuery,
		getStatsQuery,
	)
	opts.Router = httptransport.NewRouter(opts.CatalogHandler, httptransport.RouterOptions{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		MetricsPath:    cfg.HTTP.MetricsPath,
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	return opts, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.Storage != nil {
		s.Storage.Close()
	}
}
