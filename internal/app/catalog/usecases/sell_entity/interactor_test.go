package sell_entity_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/salecat-service/internal/app/catalog/contracts"
	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
	"github.com/light-bringer/salecat-service/internal/app/catalog/domain/services"
	"github.com/light-bringer/salecat-service/internal/app/catalog/repo"
	"github.com/light-bringer/salecat-service/internal/app/catalog/store"
	"github.com/light-bringer/salecat-service/internal/app/catalog/usecases/sell_entity"
	"github.com/light-bringer/salecat-service/internal/pkg/clock"
	"github.com/light-bringer/salecat-service/internal/pkg/metrics"
)

type fixture struct {
	store      *store.Store
	repo       *repo.MemorySnapshotRepo
	interactor *sell_entity.Interactor
}

func setup(t *testing.T) *fixture {
	t.Helper()
	mem := repo.NewMemorySnapshotRepo(clock.NewRealClock())
	s := store.New(mem)
	require.NoError(t, s.Load(context.Background()))

	processor := services.NewSaleProcessor(services.NewTicketAllocator())
	return &fixture{
		store:      s,
		repo:       mem,
		interactor: sell_entity.NewInteractor(s, processor, metrics.New(prometheus.NewRegistry())),
	}
}

func (f *fixture) product(t *testing.T, quantity int) *domain.Entity {
	t.Helper()
	e, err := f.store.Create(context.Background(), domain.Draft{
		Type:      domain.TypeProduct,
		Name:      "Mug",
		UnitPrice: domain.MustMoney(599, 100),
		Quantity:  quantity,
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) raffle(t *testing.T, total int) *domain.Entity {
	t.Helper()
	e, err := f.store.Create(context.Background(), domain.Draft{
		Type:         domain.TypeRaffle,
		Name:         "Bike raffle",
		UnitPrice:    domain.MustMoney(2, 1),
		Prize:        "Bike",
		TotalTickets: total,
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) sell(id string, sale domain.SaleRequest) (*domain.Entity, error) {
	return f.interactor.Execute(context.Background(), &sell_entity.Request{EntityID: id, Sale: sale})
}

// persisted reloads the snapshot to check what actually reached storage.
func (f *fixture) persisted(t *testing.T, id string) domain.RawRecord {
	t.Helper()
	snap, err := f.repo.Load(context.Background(), contracts.SnapshotKey)
	require.NoError(t, err)
	for _, r := range snap.Records {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("record %s not persisted", id)
	return domain.RawRecord{}
}

func TestSell_ScenarioA_ProductQuantity(t *testing.T) {
	f := setup(t)
	p := f.product(t, 10)

	sold, err := f.sell(p.ID(), domain.NewQuantitySale(4))
	require.NoError(t, err)

	details, _ := sold.Product()
	assert.Equal(t, 6, details.Quantity)
	assert.Equal(t, 4, details.SoldCount)
	assert.Equal(t, domain.StatusActive, sold.Status())

	rec := f.persisted(t, p.ID())
	assert.Equal(t, 6, rec.Quantity)
	assert.Equal(t, 4, rec.SoldCount)
}

func TestSell_ScenarioBC_RaffleTickets(t *testing.T) {
	f := setup(t)
	r := f.raffle(t, 5)

	// B
	sold, err := f.sell(r.ID(), domain.NewTicketSale(1, 2))
	require.NoError(t, err)
	details, _ := sold.Raffle()
	assert.Equal(t, []int{1, 2}, details.SoldTicketNumbers)
	assert.True(t, details.CurrentAmount.Equals(domain.MustMoney(4, 1)), details.CurrentAmount.String())
	assert.Equal(t, domain.StatusActive, sold.Status())

	_, err = f.sell(r.ID(), domain.NewTicketSale(2))
	var already *domain.TicketAlreadySoldError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, []int{2}, already.Numbers)

	unchanged, err := f.store.Get(r.ID())
	require.NoError(t, err)
	details, _ = unchanged.Raffle()
	assert.Equal(t, []int{1, 2}, details.SoldTicketNumbers)

	// C
	sold, err = f.sell(r.ID(), domain.NewTicketSale(3, 4, 5))
	require.NoError(t, err)
	details, _ = sold.Raffle()
	assert.Equal(t, []int{1, 2, 3, 4, 5}, details.SoldTicketNumbers)
	assert.Equal(t, domain.StatusCompleted, sold.Status())

	rec := f.persisted(t, r.ID())
	assert.Equal(t, "completed", rec.Status)
	assert.True(t, rec.CurrentAmount.Equals(domain.MustMoney(10, 1)))
}

func TestSell_ScenarioD_InsufficientStock(t *testing.T) {
	f := setup(t)
	p := f.product(t, 10)

	_, err := f.sell(p.ID(), domain.NewQuantitySale(11))
	var stock *domain.InsufficientStockError
	require.ErrorAs(t, err, &stock)
	assert.Equal(t, 11, stock.Requested)
	assert.Equal(t, 10, stock.Available)

	got, err := f.store.Get(p.ID())
	require.NoError(t, err)
	details, _ := got.Product()
	assert.Equal(t, 10, details.Quantity)
	assert.Equal(t, 10, f.persisted(t, p.ID()).Quantity)
}

func TestSell_Failures(t *testing.T) {
	f := setup(t)
	p := f.product(t, 3)
	r := f.raffle(t, 4)

	tests := []struct {
		name string
		id   string
		sale domain.SaleRequest
		kind domain.ErrorKind
	}{
		{"unknown entity", "missing", domain.NewQuantitySale(1), domain.KindNotFound},
		{"zero quantity", p.ID(), domain.NewQuantitySale(0), domain.KindValidation},
		{"negative quantity", p.ID(), domain.NewQuantitySale(-2), domain.KindValidation},
		{"tickets on product", p.ID(), domain.NewTicketSale(1), domain.KindValidation},
		{"quantity on raffle", r.ID(), domain.NewQuantitySale(1), domain.KindValidation},
		{"empty selection", r.ID(), domain.NewTicketSale(), domain.KindInvalidTicketSelection},
		{"out of range", r.ID(), domain.NewTicketSale(0, 5), domain.KindInvalidTicketSelection},
		{"duplicate in request", r.ID(), domain.NewTicketSale(2, 2), domain.KindInvalidTicketSelection},
	}

	version := f.store.Version()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.sell(tt.id, tt.sale)
			require.Error(t, err)
			assert.Equal(t, tt.kind, domain.KindOf(err))
		})
	}

	assert.Equal(t, version, f.store.Version(), "no failed sale reaches storage")
}

func TestSell_InactiveEntityStillSells(t *testing.T) {
	f := setup(t)
	p := f.product(t, 2)

	inactive := domain.StatusInactive
	_, err := f.store.Update(context.Background(), p.ID(), domain.Patch{Status: &inactive})
	require.NoError(t, err)

	sold, err := f.sell(p.ID(), domain.NewQuantitySale(2))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, sold.Status(), "products never auto-complete")
}

func TestSell_InactiveRaffleCompletesWhenFull(t *testing.T) {
	f := setup(t)
	r := f.raffle(t, 2)

	inactive := domain.StatusInactive
	_, err := f.store.Update(context.Background(), r.ID(), domain.Patch{Status: &inactive})
	require.NoError(t, err)

	sold, err := f.sell(r.ID(), domain.NewTicketSale(1))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, sold.Status())

	sold, err = f.sell(r.ID(), domain.NewTicketSale(2))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, sold.Status())
}

func TestSell_RandomSequencesKeepInvariants(t *testing.T) {
	f := setup(t)
	const initial = 25
	p := f.product(t, initial)
	r := f.raffle(t, 30)

	rng := rand.New(rand.NewPCG(7, 11))
	for range 200 {
		if rng.IntN(2) == 0 {
			_, _ = f.sell(p.ID(), domain.NewQuantitySale(rng.IntN(6)-1))
		} else {
			n := rng.IntN(3) + 1
			nums := make([]int, n)
			for i := range nums {
				nums[i] = rng.IntN(33)
			}
			_, _ = f.sell(r.ID(), domain.NewTicketSale(nums...))
		}

		gotP, err := f.store.Get(p.ID())
		require.NoError(t, err)
		pd, _ := gotP.Product()
		require.GreaterOrEqual(t, pd.Quantity, 0)
		require.Equal(t, initial, pd.Quantity+pd.SoldCount)

		gotR, err := f.store.Get(r.ID())
		require.NoError(t, err)
		require.NoError(t, gotR.Validate())
		rd, _ := gotR.Raffle()
		require.True(t, rd.CurrentAmount.Equals(domain.MustMoney(2, 1).MultiplyInt(len(rd.SoldTicketNumbers))))
		require.Equal(t, len(rd.SoldTicketNumbers) == rd.TotalTickets, gotR.Status() == domain.StatusCompleted)
	}
}
