package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
)

func newProduct(t *testing.T, quantity int) *domain.Entity {
	t.Helper()
	e, err := domain.NewEntity("p-1", domain.Draft{
		Type: domain.TypeProduct, Name: "Mug", UnitPrice: domain.MustMoney(599, 100), Quantity: quantity,
	})
	require.NoError(t, err)
	return e
}

func newRaffle(t *testing.T, total int) *domain.Entity {
	t.Helper()
	e, err := domain.NewEntity("r-1", domain.Draft{
		Type: domain.TypeRaffle, Name: "Raffle", UnitPrice: domain.MustMoney(2, 1), Prize: "Bike", TotalTickets: total,
	})
	require.NoError(t, err)
	return e
}

func TestSell_Product(t *testing.T) {
	p := NewSaleProcessor(NewTicketAllocator())
	e := newProduct(t, 10)

	t.Run("scenario A", func(t *testing.T) {
		sold, err := p.Sell(e, domain.NewQuantitySale(4))
		require.NoError(t, err)
		d, _ := sold.Product()
		assert.Equal(t, domain.ProductDetails{Quantity: 6, SoldCount: 4}, d)
		assert.Equal(t, domain.StatusActive, sold.Status())
	})

	t.Run("whole stock", func(t *testing.T) {
		sold, err := p.Sell(e, domain.NewQuantitySale(10))
		require.NoError(t, err)
		d, _ := sold.Product()
		assert.Zero(t, d.Quantity)
		assert.Equal(t, domain.StatusActive, sold.Status(), "products never auto-complete")
	})

	t.Run("scenario D", func(t *testing.T) {
		_, err := p.Sell(e, domain.NewQuantitySale(11))
		var stock *domain.InsufficientStockError
		require.ErrorAs(t, err, &stock)
		assert.Equal(t, domain.InsufficientStockError{Requested: 11, Available: 10}, *stock)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		for _, q := range []int{0, -1} {
			_, err := p.Sell(e, domain.NewQuantitySale(q))
			require.ErrorIs(t, err, domain.ErrValidation)
		}
	})

	t.Run("shape mismatch", func(t *testing.T) {
		_, err := p.Sell(e, domain.NewTicketSale(1))
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "request", verr.Field)
	})

	d, _ := e.Product()
	assert.Equal(t, 10, d.Quantity, "input entity never changes")
}

func TestSell_Raffle(t *testing.T) {
	p := NewSaleProcessor(NewTicketAllocator())
	e := newRaffle(t, 5)

	// scenario B
	b, err := p.Sell(e, domain.NewTicketSale(1, 2))
	require.NoError(t, err)
	rb, _ := b.Raffle()
	assert.Equal(t, []int{1, 2}, rb.SoldTicketNumbers)
	assert.Equal(t, "4.00", rb.CurrentAmount.String())
	assert.Equal(t, domain.StatusActive, b.Status())

	_, err = p.Sell(b, domain.NewTicketSale(2))
	var already *domain.TicketAlreadySoldError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, []int{2}, already.Numbers)
	rb, _ = b.Raffle()
	assert.Equal(t, []int{1, 2}, rb.SoldTicketNumbers)

	// scenario C
	c, err := p.Sell(b, domain.NewTicketSale(5, 3, 4))
	require.NoError(t, err)
	rc, _ := c.Raffle()
	assert.Equal(t, []int{1, 2, 3, 4, 5}, rc.SoldTicketNumbers)
	assert.Equal(t, "10.00", rc.CurrentAmount.String())
	assert.Equal(t, domain.StatusCompleted, c.Status())
	require.NoError(t, c.Validate())

	_, err = p.Sell(c, domain.NewTicketSale(1))
	require.ErrorIs(t, err, domain.ErrTicketAlreadySold)

	_, err = p.Sell(e, domain.NewQuantitySale(1))
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestSell_PartialOverlapSellsNothing(t *testing.T) {
	p := NewSaleProcessor(NewTicketAllocator())
	e, err := p.Sell(newRaffle(t, 5), domain.NewTicketSale(3))
	require.NoError(t, err)

	_, err = p.Sell(e, domain.NewTicketSale(1, 3, 5))
	require.ErrorIs(t, err, domain.ErrTicketAlreadySold)

	r, _ := e.Raffle()
	assert.Equal(t, []int{3}, r.SoldTicketNumbers)
}
