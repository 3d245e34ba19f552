package services

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
)

func TestAvailableNumbers(t *testing.T) {
	a := NewTicketAllocator()

	t.Run("ascending and excludes sold", func(t *testing.T) {
		got := slices.Collect(a.AvailableNumbers(6, []int{5, 2}))
		assert.Equal(t, []int{1, 3, 4, 6}, got)
	})

	t.Run("restartable", func(t *testing.T) {
		seq := a.AvailableNumbers(3, nil)
		assert.Equal(t, []int{1, 2, 3}, slices.Collect(seq))
		assert.Equal(t, []int{1, 2, 3}, slices.Collect(seq))
	})

	t.Run("early stop", func(t *testing.T) {
		var first []int
		for n := range a.AvailableNumbers(1_000_000, nil) {
			first = append(first, n)
			if len(first) == 3 {
				break
			}
		}
		assert.Equal(t, []int{1, 2, 3}, first)
	})

	t.Run("sold out and empty", func(t *testing.T) {
		assert.Empty(t, slices.Collect(a.AvailableNumbers(2, []int{1, 2})))
		assert.Empty(t, slices.Collect(a.AvailableNumbers(0, nil)))
	})

	t.Run("count", func(t *testing.T) {
		assert.Equal(t, 7, a.CountAvailable(10, []int{1, 2, 3}))
		assert.Equal(t, 0, a.CountAvailable(2, []int{1, 2}))
		assert.Equal(t, 0, a.CountAvailable(0, nil))
	})

	t.Run("count ignores out of range and repeated numbers", func(t *testing.T) {
		assert.Equal(t, 3, a.CountAvailable(4, []int{2, 2, 0, 9}))
	})

	t.Run("count does not walk the range", func(t *testing.T) {
		done := make(chan int, 1)
		go func() { done <- a.CountAvailable(2_000_000_000, []int{1}) }()

		select {
		case got := <-done:
			assert.Equal(t, 1_999_999_999, got)
		case <-time.After(time.Second):
			t.Fatal("CountAvailable scaled with totalTickets")
		}
	})
}

func TestAvailablePage(t *testing.T) {
	a := NewTicketAllocator()
	sold := []int{5, 2}

	tests := []struct {
		name          string
		offset, limit int
		want          []int
	}{
		{name: "first page", offset: 0, limit: 2, want: []int{1, 3}},
		{name: "second page", offset: 2, limit: 2, want: []int{4, 6}},
		{name: "offset skips sold numbers", offset: 1, limit: 10, want: []int{3, 4, 6}},
		{name: "last free number", offset: 3, limit: 5, want: []int{6}},
		{name: "past the end", offset: 4, limit: 5, want: []int{}},
		{name: "zero limit", offset: 0, limit: 0, want: []int{}},
		{name: "negative offset", offset: -3, limit: 1, want: []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.AvailablePage(6, sold, tt.offset, tt.limit))
		})
	}

	t.Run("matches the full sequence", func(t *testing.T) {
		all := slices.Collect(a.AvailableNumbers(20, []int{1, 4, 5, 6, 13, 20}))
		var paged []int
		for offset := 0; offset < len(all); offset += 3 {
			paged = append(paged, a.AvailablePage(20, []int{20, 13, 6, 5, 4, 1}, offset, 3)...)
		}
		assert.Equal(t, all, paged)
	})

	t.Run("deep page of a huge range", func(t *testing.T) {
		got := a.AvailablePage(2_000_000_000, []int{1}, 1_999_999_990, 3)
		assert.Equal(t, []int{1_999_999_992, 1_999_999_993, 1_999_999_994}, got)
	})

	assert.Equal(t, []int{5, 2}, sold, "inputs are not mutated")
}

func TestValidateSelection(t *testing.T) {
	a := NewTicketAllocator()
	sold := []int{2, 4}

	tests := []struct {
		name      string
		requested []int
		kind      domain.ErrorKind
		numbers   []int
	}{
		{name: "ok", requested: []int{1, 3, 5}},
		{name: "empty", requested: nil, kind: domain.KindInvalidTicketSelection},
		{name: "zero", requested: []int{0}, kind: domain.KindInvalidTicketSelection},
		{name: "above range", requested: []int{1, 6}, kind: domain.KindInvalidTicketSelection},
		{name: "one sold", requested: []int{1, 2}, kind: domain.KindTicketAlreadySold, numbers: []int{2}},
		{name: "every sold number listed", requested: []int{4, 3, 2, 4}, kind: domain.KindTicketAlreadySold, numbers: []int{2, 4}},
		{name: "duplicate in request", requested: []int{3, 3}, kind: domain.KindInvalidTicketSelection},
		{name: "range checked before sold", requested: []int{2, 9}, kind: domain.KindInvalidTicketSelection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.ValidateSelection(5, sold, tt.requested)
			if tt.kind == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.kind, domain.KindOf(err))

			if tt.numbers != nil {
				var already *domain.TicketAlreadySoldError
				require.ErrorAs(t, err, &already)
				assert.Equal(t, tt.numbers, already.Numbers)
			}
		})
	}

	assert.Equal(t, []int{2, 4}, sold, "inputs are not mutated")
}
