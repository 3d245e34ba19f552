package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_ProductDefaults(t *testing.T) {
	e, coerced := Normalize(RawRecord{ID: "p-1", Name: "Mug", Quantity: -2})

	assert.Equal(t, TypeProduct, e.Type())
	assert.Equal(t, StatusActive, e.Status())
	assert.True(t, e.UnitPrice().IsZero())
	p, ok := e.Product()
	require.True(t, ok)
	assert.Equal(t, ProductDetails{}, p)
	assert.ElementsMatch(t, []string{FieldUnitPrice, FieldStatus, FieldType, FieldQuantity}, coerced)
}

func TestNormalize_CleanRecordIsUntouched(t *testing.T) {
	raw := RawRecord{
		ID: "p-1", Type: "product", Name: "Mug", UnitPrice: MustMoney(5, 1),
		Status: "inactive", Quantity: 3, SoldCount: 7,
	}

	e, coerced := Normalize(raw)
	assert.Empty(t, coerced)
	assert.Equal(t, StatusInactive, e.Status())
	require.NoError(t, e.Validate())
	assertSameRaw(t, raw, e.Raw())
}

func TestNormalize_Raffle(t *testing.T) {
	t.Run("tickets cleaned and amount derived", func(t *testing.T) {
		e, coerced := Normalize(RawRecord{
			ID: "r-1", Type: "raffle", Name: "R", Prize: "Bike", Status: "active",
			UnitPrice:         MustMoney(3, 1),
			TotalTickets:      4,
			SoldTicketNumbers: []int{4, 2, 2, 0, 9},
			CurrentAmount:     MustMoney(100, 1),
		})

		r, ok := e.Raffle()
		require.True(t, ok)
		assert.Equal(t, []int{2, 4}, r.SoldTicketNumbers)
		assert.Equal(t, "6.00", r.CurrentAmount.String())
		assert.ElementsMatch(t, []string{
			FieldSoldTicketNumbers, FieldSoldTicketNumbers, FieldSoldTicketNumbers, FieldCurrentAmount,
		}, coerced)
		require.NoError(t, e.Validate())
	})

	t.Run("full raffle completes", func(t *testing.T) {
		e, coerced := Normalize(RawRecord{
			ID: "r-2", Type: "raffle", Name: "R", Prize: "Bike", Status: "inactive",
			UnitPrice: MustMoney(1, 1), TotalTickets: 2, SoldTicketNumbers: []int{1, 2},
			CurrentAmount: MustMoney(2, 1),
		})
		assert.Equal(t, StatusCompleted, e.Status())
		assert.Equal(t, []string{FieldStatus}, coerced)
	})

	t.Run("completed without full sale reopens", func(t *testing.T) {
		e, _ := Normalize(RawRecord{
			ID: "r-3", Type: "raffle", Name: "R", Prize: "Bike", Status: "completed",
			UnitPrice: MustMoney(1, 1), TotalTickets: 2, SoldTicketNumbers: []int{1},
		})
		assert.Equal(t, StatusActive, e.Status())
	})

	t.Run("zero tickets never completes", func(t *testing.T) {
		e, _ := Normalize(RawRecord{ID: "r-4", Type: "raffle", Name: "R", Status: "completed"})
		assert.Equal(t, StatusActive, e.Status())
		r, _ := e.Raffle()
		assert.Zero(t, r.TotalTickets)
		assert.True(t, r.CurrentAmount.IsZero())
	})

	t.Run("negative target dropped", func(t *testing.T) {
		e, coerced := Normalize(RawRecord{
			ID: "r-5", Type: "raffle", Name: "R", Prize: "P", Status: "active",
			UnitPrice: MustMoney(1, 1), TotalTickets: 1, Target: MustMoney(-1, 1),
			CurrentAmount: ZeroMoney(),
		})
		r, _ := e.Raffle()
		assert.Nil(t, r.Target)
		assert.Equal(t, []string{FieldTarget}, coerced)
	})
}

func TestNormalize_RawRoundTrip(t *testing.T) {
	orig, err := NewEntity("r-1", validRaffleDraft())
	require.NoError(t, err)
	orig = orig.WithSoldTickets([]int{5, 1})

	back, coerced := Normalize(orig.Raw())
	assert.Empty(t, coerced)
	assertSameRaw(t, orig.Raw(), back.Raw())
}

// assertSameRaw compares amounts by value and everything else structurally.
func assertSameRaw(t *testing.T, want, got RawRecord) {
	t.Helper()

	amounts := func(r *RawRecord) []*Money {
		out := []*Money{r.UnitPrice, r.UnitExpense, r.CurrentAmount, r.Target}
		r.UnitPrice, r.UnitExpense, r.CurrentAmount, r.Target = nil, nil, nil, nil
		return out
	}
	wantAmounts, gotAmounts := amounts(&want), amounts(&got)
	for i := range wantAmounts {
		if wantAmounts[i] == nil {
			assert.Nil(t, gotAmounts[i], "amount %d", i)
			continue
		}
		assert.True(t, wantAmounts[i].Equals(gotAmounts[i]), "amount %d", i)
	}
	assert.Equal(t, want, got)
}
