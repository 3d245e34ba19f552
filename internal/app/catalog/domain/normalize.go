package domain

import (
	"slices"

	"cloud.google.com/go/civil"
)

// RawRecord is an entity as read back from storage, before any invariant is
// enforced. Missing numbers are zero and missing amounts are nil.
type RawRecord struct {
	ID          string
	Type        string
	Name        string
	UnitPrice   *Money
	UnitExpense *Money
	StartDate   *civil.Date
	EndDate     *civil.Date
	Status      string
	ImageURL    string

	Quantity  int
	SoldCount int

	Prize             string
	PrizeImageURL     string
	TotalTickets      int
	SoldTicketNumbers []int
	CurrentAmount     *Money
	Target            *Money
}

// Normalize turns a stored record into an entity, coercing whatever is missing
// or inconsistent: absent numbers become 0, an absent type becomes product, an
// absent or unknown status becomes active, ticket numbers are deduplicated and
// clipped to the raffle's range, and the collected amount and completed status
// are derived from the sold set. It returns the names of the coerced fields.
func Normalize(r RawRecord) (*Entity, []string) {
	var coerced []string
	mark := func(field string) { coerced = append(coerced, field) }

	e := &Entity{
		id:          r.ID,
		name:        r.Name,
		unitPrice:   r.UnitPrice.Copy(),
		unitExpense: r.UnitExpense.Copy(),
		startDate:   copyDate(r.StartDate),
		endDate:     copyDate(r.EndDate),
		status:      Status(r.Status),
		imageURL:    r.ImageURL,
	}

	if e.unitPrice == nil {
		e.unitPrice = ZeroMoney()
		mark(FieldUnitPrice)
	}
	if e.unitExpense != nil && e.unitExpense.IsNegative() {
		e.unitExpense = nil
		mark(FieldUnitExpense)
	}
	if !e.status.Valid() {
		e.status = StatusActive
		mark(FieldStatus)
	}

	switch EntityType(r.Type) {
	case TypeRaffle:
		e.entityType = TypeRaffle
		e.raffle = normalizeRaffle(r, mark)
		full := e.raffle.TotalTickets > 0 && len(e.raffle.SoldTicketNumbers) == e.raffle.TotalTickets
		switch {
		case full && e.status != StatusCompleted:
			e.status = StatusCompleted
			mark(FieldStatus)
		case !full && e.status == StatusCompleted:
			e.status = StatusActive
			mark(FieldStatus)
		}
		amount := e.unitPrice.MultiplyInt(len(e.raffle.SoldTicketNumbers))
		if !amount.Equals(r.CurrentAmount) {
			mark(FieldCurrentAmount)
		}
		e.raffle.CurrentAmount = amount
	default:
		if r.Type != string(TypeProduct) {
			mark(FieldType)
		}
		e.entityType = TypeProduct
		e.product = &ProductDetails{
			Quantity:  nonNegative(r.Quantity, FieldQuantity, mark),
			SoldCount: nonNegative(r.SoldCount, FieldSoldCount, mark),
		}
	}

	return e, coerced
}

func normalizeRaffle(r RawRecord, mark func(string)) *RaffleDetails {
	total := nonNegative(r.TotalTickets, FieldTotalTickets, mark)

	sold := make([]int, 0, len(r.SoldTicketNumbers))
	seen := make(map[int]struct{}, len(r.SoldTicketNumbers))
	for _, n := range r.SoldTicketNumbers {
		if _, dup := seen[n]; dup || n < 1 || n > total {
			mark(FieldSoldTicketNumbers)
			continue
		}
		seen[n] = struct{}{}
		sold = append(sold, n)
	}
	slices.Sort(sold)

	target := r.Target.Copy()
	if target != nil && target.IsNegative() {
		target = nil
		mark(FieldTarget)
	}

	return &RaffleDetails{
		Prize:             r.Prize,
		PrizeImageURL:     r.PrizeImageURL,
		TotalTickets:      total,
		SoldTicketNumbers: sold,
		Target:            target,
	}
}

func nonNegative(n int, field string, mark func(string)) int {
	if n < 0 {
		mark(field)
		return 0
	}
	return n
}

// Raw flattens the entity back into its storage shape.
func (e *Entity) Raw() RawRecord {
	r := RawRecord{
		ID:          e.id,
		Type:        string(e.entityType),
		Name:        e.name,
		UnitPrice:   e.unitPrice.Copy(),
		UnitExpense: e.unitExpense.Copy(),
		StartDate:   copyDate(e.startDate),
		EndDate:     copyDate(e.endDate),
		Status:      string(e.status),
		ImageURL:    e.imageURL,
	}

	switch e.entityType {
	case TypeProduct:
		r.Quantity = e.product.Quantity
		r.SoldCount = e.product.SoldCount
	case TypeRaffle:
		r.Prize = e.raffle.Prize
		r.PrizeImageURL = e.raffle.PrizeImageURL
		r.TotalTickets = e.raffle.TotalTickets
		r.SoldTicketNumbers = slices.Clone(e.raffle.SoldTicketNumbers)
		r.CurrentAmount = e.raffle.CurrentAmount.Copy()
		r.Target = e.raffle.Target.Copy()
	}

	return r
}
