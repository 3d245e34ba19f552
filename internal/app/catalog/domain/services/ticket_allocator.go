package services

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
)

// TicketAllocator is a domain service over a raffle's ticket numbers.
// It never mutates its inputs.
type TicketAllocator struct{}

// NewTicketAllocator creates a new TicketAllocator.
func NewTicketAllocator() *TicketAllocator {
	return &TicketAllocator{}
}

// AvailableNumbers yields, in ascending order, every number in [1, totalTickets]
// that is not sold. The sold set is read on each iteration, so ranging over the
// sequence again reflects the state at that moment.
func (a *TicketAllocator) AvailableNumbers(totalTickets int, sold []int) iter.Seq[int] {
	return availableFrom(1, totalTickets, sold)
}

func availableFrom(start, totalTickets int, sold []int) iter.Seq[int] {
	return func(yield func(int) bool) {
		taken := toSet(sold)
		for n := start; n <= totalTickets; n++ {
			if _, ok := taken[n]; ok {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}

// CountAvailable returns how many numbers remain unsold. It reads only the
// sold set, so its cost does not depend on totalTickets.
func (a *TicketAllocator) CountAvailable(totalTickets int, sold []int) int {
	taken := 0
	for n := range toSet(sold) {
		if n >= 1 && n <= totalTickets {
			taken++
		}
	}
	return max(totalTickets-taken, 0)
}

// AvailablePage returns at most limit unsold numbers, ascending, skipping the
// first offset of them. The start is located by walking the sold set, so the
// cost is bounded by len(sold)+limit rather than by totalTickets.
func (a *TicketAllocator) AvailablePage(totalTickets int, sold []int, offset, limit int) []int {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return []int{}
	}

	ordered := slices.Sorted(maps.Keys(toSet(sold)))

	// The offset-th free number is offset+1 shifted past every sold number at or below it.
	start := offset + 1
	for _, n := range ordered {
		if n > start {
			break
		}
		if n >= 1 {
			start++
		}
	}

	page := make([]int, 0, min(limit, max(totalTickets-start+1, 0)))
	for n := range availableFrom(start, totalTickets, sold) {
		page = append(page, n)
		if len(page) == limit {
			break
		}
	}
	return page
}

// ValidateSelection checks a requested set of numbers against the sold set.
func (a *TicketAllocator) ValidateSelection(totalTickets int, sold, requested []int) error {
	if len(requested) == 0 {
		return &domain.InvalidTicketSelectionError{Reason: "no ticket numbers requested"}
	}

	for _, n := range requested {
		if n < 1 || n > totalTickets {
			return &domain.InvalidTicketSelectionError{
				Reason: fmt.Sprintf("ticket %d is outside 1..%d", n, totalTickets),
			}
		}
	}

	taken := toSet(sold)
	var alreadySold []int
	for _, n := range requested {
		if _, ok := taken[n]; ok && !slices.Contains(alreadySold, n) {
			alreadySold = append(alreadySold, n)
		}
	}
	if len(alreadySold) > 0 {
		slices.Sort(alreadySold)
		return &domain.TicketAlreadySoldError{Numbers: alreadySold}
	}

	seen := make(map[int]struct{}, len(requested))
	for _, n := range requested {
		if _, dup := seen[n]; dup {
			return &domain.InvalidTicketSelectionError{
				Reason: fmt.Sprintf("ticket %d requested more than once", n),
			}
		}
		seen[n] = struct{}{}
	}

	return nil
}

func toSet(numbers []int) map[int]struct{} {
	set := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		set[n] = struct{}{}
	}
	return set
}
