package domain

import (
	"fmt"
	"slices"
	"strings"

	"cloud.google.com/go/civil"
)

// Field names for validation errors and change tracking
const (
	FieldType              = "type"
	FieldName              = "name"
	FieldUnitPrice         = "unitPrice"
	FieldUnitExpense       = "unitExpense"
	FieldStartDate         = "startDate"
	FieldEndDate           = "endDate"
	FieldStatus            = "status"
	FieldImageURL          = "imageUrl"
	FieldQuantity          = "quantity"
	FieldSoldCount         = "soldCount"
	FieldPrize             = "prize"
	FieldPrizeImageURL     = "prizeImageUrl"
	FieldTotalTickets      = "totalTickets"
	FieldSoldTicketNumbers = "soldTicketNumbers"
	FieldCurrentAmount     = "currentAmount"
	FieldTarget            = "target"
)

// MaxTotalTickets bounds the ticket range of a raffle.
const MaxTotalTickets = 100_000

// EntityType is the discriminant of the Entity tagged union.
type EntityType string

const (
	TypeProduct EntityType = "product"
	TypeRaffle  EntityType = "raffle"
)

// Valid reports whether t is a known entity type.
func (t EntityType) Valid() bool {
	return t == TypeProduct || t == TypeRaffle
}

// Status represents the lifecycle status of an entity.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusCompleted:
		return true
	default:
		return false
	}
}

// ProductDetails is the product variant payload.
type ProductDetails struct {
	Quantity  int
	SoldCount int
}

// RaffleDetails is the raffle variant payload.
type RaffleDetails struct {
	Prize             string
	PrizeImageURL     string
	TotalTickets      int
	SoldTicketNumbers []int // ascending, distinct
	CurrentAmount     *Money
	Target            *Money // optional fundraising goal
}

func (d *RaffleDetails) copy() *RaffleDetails {
	return &RaffleDetails{
		Prize:             d.Prize,
		PrizeImageURL:     d.PrizeImageURL,
		TotalTickets:      d.TotalTickets,
		SoldTicketNumbers: slices.Clone(d.SoldTicketNumbers),
		CurrentAmount:     d.CurrentAmount.Copy(),
		Target:            d.Target.Copy(),
	}
}

// Entity is a sellable catalog entry: a product or a raffle.
// Exactly one of product/raffle is set, selected by entityType.
type Entity struct {
	id          string
	entityType  EntityType
	name        string
	unitPrice   *Money
	unitExpense *Money
	startDate   *civil.Date
	endDate     *civil.Date
	status      Status
	imageURL    string

	product *ProductDetails
	raffle  *RaffleDetails
}

// Draft contains the operator input for creating an entity.
type Draft struct {
	Type        EntityType
	Name        string
	UnitPrice   *Money
	UnitExpense *Money
	StartDate   *civil.Date
	EndDate     *civil.Date
	Status      Status
	ImageURL    string

	// product
	Quantity int

	// raffle
	Prize         string
	PrizeImageURL string
	TotalTickets  int
	Target        *Money
}

// NewEntity validates a draft and builds a new entity. It never returns a
// partially built entity.
func NewEntity(id string, d Draft) (*Entity, error) {
	if d.Type == "" {
		d.Type = TypeProduct
	}
	if d.Status == "" {
		d.Status = StatusActive
	}

	if strings.TrimSpace(d.Name) == "" {
		return nil, NewValidationError(FieldName, "must not be empty")
	}

	e := &Entity{
		id:          id,
		entityType:  d.Type,
		name:        d.Name,
		unitPrice:   d.UnitPrice.Copy(),
		unitExpense: d.UnitExpense.Copy(),
		startDate:   copyDate(d.StartDate),
		endDate:     copyDate(d.EndDate),
		status:      d.Status,
		imageURL:    d.ImageURL,
	}

	switch d.Type {
	case TypeProduct:
		if d.Quantity <= 0 {
			return nil, NewValidationError(FieldQuantity, "must be greater than zero")
		}
		e.product = &ProductDetails{Quantity: d.Quantity}
	case TypeRaffle:
		if strings.TrimSpace(d.Prize) == "" {
			return nil, NewValidationError(FieldPrize, "must not be empty")
		}
		if d.TotalTickets <= 0 {
			return nil, NewValidationError(FieldTotalTickets, "must be greater than zero")
		}
		if d.TotalTickets > MaxTotalTickets {
			return nil, NewValidationError(FieldTotalTickets, fmt.Sprintf("must not exceed %d", MaxTotalTickets))
		}
		e.raffle = &RaffleDetails{
			Prize:             d.Prize,
			PrizeImageURL:     d.PrizeImageURL,
			TotalTickets:      d.TotalTickets,
			SoldTicketNumbers: []int{},
			CurrentAmount:     ZeroMoney(),
			Target:            d.Target.Copy(),
		}
	default:
		return nil, NewValidationError(FieldType, fmt.Sprintf("unknown type %q", d.Type))
	}

	if d.UnitPrice == nil || !d.UnitPrice.IsPositive() {
		return nil, NewValidationError(FieldUnitPrice, "must be greater than zero")
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}

	return e, nil
}

// Getters
func (e *Entity) ID() string             { return e.id }
func (e *Entity) Type() EntityType       { return e.entityType }
func (e *Entity) Name() string           { return e.name }
func (e *Entity) UnitPrice() *Money      { return e.unitPrice.Copy() }
func (e *Entity) UnitExpense() *Money    { return e.unitExpense.Copy() }
func (e *Entity) StartDate() *civil.Date { return copyDate(e.startDate) }
func (e *Entity) EndDate() *civil.Date   { return copyDate(e.endDate) }
func (e *Entity) Status() Status         { return e.status }
func (e *Entity) ImageURL() string       { return e.imageURL }

// Product returns a copy of the product payload.
func (e *Entity) Product() (ProductDetails, bool) {
	if e.entityType != TypeProduct || e.product == nil {
		return ProductDetails{}, false
	}
	return *e.product, true
}

// Raffle returns a copy of the raffle payload.
func (e *Entity) Raffle() (RaffleDetails, bool) {
	if e.entityType != TypeRaffle || e.raffle == nil {
		return RaffleDetails{}, false
	}
	return *e.raffle.copy(), true
}

// Clone returns a deep copy that shares no mutable state with e.
func (e *Entity) Clone() *Entity {
	c := *e
	c.unitPrice = e.unitPrice.Copy()
	c.unitExpense = e.unitExpense.Copy()
	c.startDate = copyDate(e.startDate)
	c.endDate = copyDate(e.endDate)
	if e.product != nil {
		p := *e.product
		c.product = &p
	}
	if e.raffle != nil {
		c.raffle = e.raffle.copy()
	}
	return &c
}

// WithID returns a copy carrying a different id.
func (e *Entity) WithID(id string) *Entity {
	c := e.Clone()
	c.id = id
	return c
}

// WithStock returns a copy with the given product stock counters.
func (e *Entity) WithStock(quantity, soldCount int) *Entity {
	c := e.Clone()
	c.product.Quantity = quantity
	c.product.SoldCount = soldCount
	return c
}

// WithSoldTickets returns a copy whose sold set is numbers. The collected amount
// is recomputed and the raffle completes once every ticket is sold.
func (e *Entity) WithSoldTickets(numbers []int) *Entity {
	c := e.Clone()
	sold := slices.Clone(numbers)
	slices.Sort(sold)
	c.raffle.SoldTicketNumbers = sold
	c.syncRaffle()
	return c
}

// syncRaffle restores the derived raffle fields from the sold set.
func (e *Entity) syncRaffle() {
	e.raffle.CurrentAmount = OrZero(e.unitPrice).MultiplyInt(len(e.raffle.SoldTicketNumbers))
	if len(e.raffle.SoldTicketNumbers) == e.raffle.TotalTickets {
		e.status = StatusCompleted
	}
}

// Validate checks every invariant of the entity.
func (e *Entity) Validate() error {
	if strings.TrimSpace(e.name) == "" {
		return NewValidationError(FieldName, "must not be empty")
	}
	if e.unitPrice == nil || !e.unitPrice.IsPositive() {
		return NewValidationError(FieldUnitPrice, "must be greater than zero")
	}
	if e.unitExpense != nil && e.unitExpense.IsNegative() {
		return NewValidationError(FieldUnitExpense, "must not be negative")
	}
	if !e.status.Valid() {
		return NewValidationError(FieldStatus, fmt.Sprintf("unknown status %q", e.status))
	}

	switch e.entityType {
	case TypeProduct:
		if e.product == nil || e.raffle != nil {
			return NewValidationError(FieldType, "product payload missing")
		}
		if e.product.Quantity < 0 {
			return NewValidationError(FieldQuantity, "must not be negative")
		}
		if e.product.SoldCount < 0 {
			return NewValidationError(FieldSoldCount, "must not be negative")
		}
	case TypeRaffle:
		if e.raffle == nil || e.product != nil {
			return NewValidationError(FieldType, "raffle payload missing")
		}
		return e.validateRaffle()
	default:
		return NewValidationError(FieldType, fmt.Sprintf("unknown type %q", e.entityType))
	}

	return nil
}

func (e *Entity) validateRaffle() error {
	r := e.raffle
	if strings.TrimSpace(r.Prize) == "" {
		return NewValidationError(FieldPrize, "must not be empty")
	}
	if r.TotalTickets <= 0 {
		return NewValidationError(FieldTotalTickets, "must be greater than zero")
	}
	if r.TotalTickets > MaxTotalTickets {
		return NewValidationError(FieldTotalTickets, fmt.Sprintf("must not exceed %d", MaxTotalTickets))
	}
	if r.Target != nil && r.Target.IsNegative() {
		return NewValidationError(FieldTarget, "must not be negative")
	}

	seen := make(map[int]struct{}, len(r.SoldTicketNumbers))
	for _, n := range r.SoldTicketNumbers {
		if n < 1 || n > r.TotalTickets {
			return NewValidationError(FieldSoldTicketNumbers, fmt.Sprintf("ticket %d outside 1..%d", n, r.TotalTickets))
		}
		if _, dup := seen[n]; dup {
			return NewValidationError(FieldSoldTicketNumbers, fmt.Sprintf("ticket %d sold twice", n))
		}
		seen[n] = struct{}{}
	}

	if !OrZero(r.CurrentAmount).Equals(e.unitPrice.MultiplyInt(len(r.SoldTicketNumbers))) {
		return NewValidationError(FieldCurrentAmount, "must equal sold tickets times unit price")
	}

	full := len(r.SoldTicketNumbers) == r.TotalTickets
	if full && e.status != StatusCompleted {
		return NewValidationError(FieldStatus, "a sold-out raffle is completed")
	}
	if !full && e.status == StatusCompleted {
		return NewValidationError(FieldStatus, "a raffle completes only when every ticket is sold")
	}

	return nil
}

func copyDate(d *civil.Date) *civil.Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
