package domain

import (
	"cloud.google.com/go/civil"
)

// Patch is an operator edit. Nil fields are left untouched.
// Sale counters (soldCount, soldTicketNumbers, currentAmount) and
// totalTickets are not editable.
type Patch struct {
	Name             *string
	UnitPrice        *Money
	UnitExpense      *Money
	ClearUnitExpense bool
	StartDate        *civil.Date
	ClearStartDate   bool
	EndDate          *civil.Date
	ClearEndDate     bool
	Status           *Status
	ImageURL         *string

	// product
	Quantity *int

	// raffle
	Prize         *string
	PrizeImageURL *string
	Target        *Money
}

// ApplyPatch returns a copy of e with the patch merged, together with the set of
// fields that actually changed. The receiver is never modified; a patch that
// fails validation returns no entity at all.
func (e *Entity) ApplyPatch(p Patch) (*Entity, *ChangeTracker, error) {
	c := e.Clone()
	changes := NewChangeTracker()

	if p.Name != nil && *p.Name != c.name {
		c.name = *p.Name
		changes.MarkDirty(FieldName)
	}

	if p.UnitPrice != nil && !p.UnitPrice.Equals(c.unitPrice) {
		c.unitPrice = p.UnitPrice.Copy()
		changes.MarkDirty(FieldUnitPrice)
	}

	switch {
	case p.ClearUnitExpense:
		if c.unitExpense != nil {
			c.unitExpense = nil
			changes.MarkDirty(FieldUnitExpense)
		}
	case p.UnitExpense != nil && (c.unitExpense == nil || !p.UnitExpense.Equals(c.unitExpense)):
		c.unitExpense = p.UnitExpense.Copy()
		changes.MarkDirty(FieldUnitExpense)
	}

	if applyDate(&c.startDate, p.StartDate, p.ClearStartDate) {
		changes.MarkDirty(FieldStartDate)
	}
	if applyDate(&c.endDate, p.EndDate, p.ClearEndDate) {
		changes.MarkDirty(FieldEndDate)
	}

	if p.Status != nil && *p.Status != c.status {
		if !p.Status.Valid() {
			return nil, nil, NewValidationError(FieldStatus, "unknown status "+string(*p.Status))
		}
		c.status = *p.Status
		changes.MarkDirty(FieldStatus)
	}

	if p.ImageURL != nil && *p.ImageURL != c.imageURL {
		c.imageURL = *p.ImageURL
		changes.MarkDirty(FieldImageURL)
	}

	switch c.entityType {
	case TypeProduct:
		if err := c.patchProduct(p, changes); err != nil {
			return nil, nil, err
		}
	case TypeRaffle:
		if err := c.patchRaffle(p, changes); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, NewValidationError(FieldType, "unknown type "+string(c.entityType))
	}

	if err := c.Validate(); err != nil {
		return nil, nil, err
	}

	return c, changes, nil
}

func (e *Entity) patchProduct(p Patch, changes *ChangeTracker) error {
	if p.Prize != nil || p.PrizeImageURL != nil || p.Target != nil {
		return NewValidationError(FieldPrize, "raffle fields cannot be set on a product")
	}

	if p.Quantity != nil && *p.Quantity != e.product.Quantity {
		if *p.Quantity < e.product.Quantity {
			return NewValidationError(FieldQuantity, "stock decreases only through a sale")
		}
		e.product.Quantity = *p.Quantity
		changes.MarkDirty(FieldQuantity)
	}

	return nil
}

func (e *Entity) patchRaffle(p Patch, changes *ChangeTracker) error {
	if p.Quantity != nil {
		return NewValidationError(FieldQuantity, "a raffle has no stock")
	}

	if p.Prize != nil && *p.Prize != e.raffle.Prize {
		e.raffle.Prize = *p.Prize
		changes.MarkDirty(FieldPrize)
	}
	if p.PrizeImageURL != nil && *p.PrizeImageURL != e.raffle.PrizeImageURL {
		e.raffle.PrizeImageURL = *p.PrizeImageURL
		changes.MarkDirty(FieldPrizeImageURL)
	}
	if p.Target != nil && (e.raffle.Target == nil || !p.Target.Equals(e.raffle.Target)) {
		e.raffle.Target = p.Target.Copy()
		changes.MarkDirty(FieldTarget)
	}

	if changes.Dirty(FieldUnitPrice) {
		e.raffle.CurrentAmount = e.unitPrice.MultiplyInt(len(e.raffle.SoldTicketNumbers))
		changes.MarkDirty(FieldCurrentAmount)
	}

	return nil
}

// applyDate merges an optional date and reports whether it changed.
func applyDate(dst **civil.Date, value *civil.Date, clear bool) bool {
	switch {
	case clear:
		if *dst == nil {
			return false
		}
		*dst = nil
		return true
	case value != nil:
		if *dst != nil && **dst == *value {
			return false
		}
		*dst = copyDate(value)
		return true
	default:
		return false
	}
}
