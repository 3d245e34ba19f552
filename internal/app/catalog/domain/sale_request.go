package domain

import "slices"

// SaleRequest describes what is being purchased: a quantity of a product or a
// set of raffle ticket numbers. Type tells which shape it has.
type SaleRequest struct {
	Type          EntityType
	Quantity      int
	TicketNumbers []int
}

// NewQuantitySale creates a product sale request.
func NewQuantitySale(quantity int) SaleRequest {
	return SaleRequest{Type: TypeProduct, Quantity: quantity}
}

// NewTicketSale creates a raffle sale request.
func NewTicketSale(numbers ...int) SaleRequest {
	return SaleRequest{Type: TypeRaffle, TicketNumbers: slices.Clone(numbers)}
}
