package get_stats_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
	"github.com/light-bringer/salecat-service/internal/app/catalog/domain/services"
	"github.com/light-bringer/salecat-service/internal/app/catalog/queries/get_stats"
	"github.com/light-bringer/salecat-service/internal/app/catalog/repo"
	"github.com/light-bringer/salecat-service/internal/app/catalog/store"
	"github.com/light-bringer/salecat-service/internal/pkg/clock"
)

func TestExecute_RecomputedAfterMutation(t *testing.T) {
	ctx := context.Background()
	s := store.New(repo.NewMemorySnapshotRepo(clock.NewRealClock()))
	q := get_stats.NewQuery(s, services.NewStatistics())

	stats := q.Execute(ctx)
	assert.Zero(t, stats.TotalProducts)
	assert.True(t, stats.GrossProductRevenue.IsZero())

	p, err := s.Create(ctx, domain.Draft{
		Name: "Mug", UnitPrice: domain.MustMoney(10, 1), UnitExpense: domain.MustMoney(4, 1), Quantity: 5,
	})
	require.NoError(t, err)
	_, err = s.Mutate(ctx, p.ID(), func(e *domain.Entity) (*domain.Entity, error) {
		return e.WithStock(3, 2), nil
	})
	require.NoError(t, err)

	stats = q.Execute(ctx)
	assert.Equal(t, 1, stats.TotalProducts)
	assert.True(t, stats.GrossProductRevenue.Equals(domain.MustMoney(20, 1)))
	assert.True(t, stats.NetProductRevenue.Equals(domain.MustMoney(12, 1)))
	assert.Equal(t, 1, stats.ByStatus.Active)
}
