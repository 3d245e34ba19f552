package services

import (
	"fmt"

	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
)

// SaleProcessor turns a sale request into the next state of an entity.
// It is the only path through which stock or tickets are consumed. It never
// persists and never modifies the entity it is given: on failure the caller
// still holds the untouched original, on success it receives a new entity.
type SaleProcessor struct {
	allocator *TicketAllocator
}

// NewSaleProcessor creates a new SaleProcessor.
func NewSaleProcessor(allocator *TicketAllocator) *SaleProcessor {
	return &SaleProcessor{allocator: allocator}
}

// Sell validates req against entity and returns the entity after the sale.
func (p *SaleProcessor) Sell(entity *domain.Entity, req domain.SaleRequest) (*domain.Entity, error) {
	if req.Type != entity.Type() {
		return nil, domain.NewValidationError("request",
			fmt.Sprintf("a %s sale cannot be applied to a %s", req.Type, entity.Type()))
	}

	switch entity.Type() {
	case domain.TypeProduct:
		return p.sellProduct(entity, req.Quantity)
	case domain.TypeRaffle:
		return p.sellTickets(entity, req.TicketNumbers)
	default:
		return nil, domain.NewValidationError(domain.FieldType, "unknown type "+string(entity.Type()))
	}
}

func (p *SaleProcessor) sellProduct(entity *domain.Entity, quantity int) (*domain.Entity, error) {
	stock, _ := entity.Product()

	if quantity <= 0 {
		return nil, domain.NewValidationError(domain.FieldQuantity, "must be greater than zero")
	}
	if quantity > stock.Quantity {
		return nil, &domain.InsufficientStockError{Requested: quantity, Available: stock.Quantity}
	}

	return entity.WithStock(stock.Quantity-quantity, stock.SoldCount+quantity), nil
}

func (p *SaleProcessor) sellTickets(entity *domain.Entity, numbers []int) (*domain.Entity, error) {
	raffle, _ := entity.Raffle()

	if err := p.allocator.ValidateSelection(raffle.TotalTickets, raffle.SoldTicketNumbers, numbers); err != nil {
		return nil, err
	}

	sold := make([]int, 0, len(raffle.SoldTicketNumbers)+len(numbers))
	sold = append(sold, raffle.SoldTicketNumbers...)
	sold = append(sold, numbers...)

	return entity.WithSoldTickets(sold), nil
}
