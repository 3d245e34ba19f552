//go:build integration

package e2e

import (
	"context"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/salecat-service/internal/app/catalog/domain/services"
	"github.com/light-bringer/salecat-service/internal/app/catalog/queries/get_entity"
	"github.com/light-bringer/salecat-service/internal/app/catalog/queries/get_stats"
	"github.com/light-bringer/salecat-service/internal/app/catalog/queries/list_entities"
	"github.com/light-bringer/salecat-service/internal/app/catalog/repo"
	"github.com/light-bringer/salecat-service/internal/app/catalog/store"
	"github.com/light-bringer/salecat-service/internal/app/catalog/usecases/create_entity"
	"github.com/light-bringer/salecat-service/internal/app/catalog/usecases/delete_entity"
	"github.com/light-bringer/salecat-service/internal/app/catalog/usecases/sell_entity"
	"github.com/light-bringer/salecat-service/internal/app/catalog/usecases/update_entity"
	"github.com/light-bringer/salecat-service/internal/pkg/clock"
	"github.com/light-bringer/salecat-service/internal/pkg/committer"
	"github.com/light-bringer/salecat-service/internal/pkg/metrics"
	"github.com/light-bringer/salecat-service/tests/testutil"
)

// Services holds all use cases and queries of one service instance.
type Services struct {
	// Commands
	CreateEntity *create_entity.Interactor
	UpdateEntity *update_entity.Interactor
	DeleteEntity *delete_entity.Interactor
	SellEntity   *sell_entity.Interactor

	// Queries
	GetEntity    *get_entity.Query
	ListEntities *list_entities.Query
	GetStats     *get_stats.Query

	// Infrastructure
	Store  *store.Store
	Client *spanner.Client
}

// setupTest initializes a service instance on a clean database.
func setupTest(t *testing.T) *Services {
	t.Helper()
	return newInstance(t, testutil.SetupSpannerTest(t))
}

// newInstance wires a service instance on client, the way a separate process
// sharing the database would.
func newInstance(t *testing.T, client *spanner.Client) *Services {
	t.Helper()

	m := metrics.New(prometheus.NewRegistry())
	snapshots := repo.NewSpannerSnapshotRepo(client, committer.NewCommitter(client), clock.NewRealClock())

	catalog := store.New(snapshots, store.WithMetrics(m))
	require.NoError(t, catalog.Load(context.Background()))

	allocator := services.NewTicketAllocator()

	return &Services{
		CreateEntity: create_entity.NewInteractor(catalog, m),
		UpdateEntity: update_entity.NewInteractor(catalog, m),
		DeleteEntity: delete_entity.NewInteractor(catalog, m),
		SellEntity:   sell_entity.NewInteractor(catalog, services.NewSaleProcessor(allocator), m),
		GetEntity:    get_entity.NewQuery(catalog, allocator),
		ListEntities: list_entities.NewQuery(catalog),
		GetStats:     get_stats.NewQuery(catalog, services.NewStatistics()),
		Store:        catalog,
		Client:       client,
	}
}
