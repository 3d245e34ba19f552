package http

import (
	"encoding/json"

	"cloud.google.com/go/civil"

	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
)

// toDraft converts a create request into a domain draft. Only syntax is
// checked here; the domain decides what is valid.
func toDraft(req *EntityRequest) (domain.Draft, error) {
	d := domain.Draft{
		Type:          domain.EntityType(req.Type),
		Name:          req.Name,
		Status:        domain.Status(req.Status),
		ImageURL:      req.ImageURL,
		Quantity:      req.Quantity,
		Prize:         req.Prize,
		PrizeImageURL: req.PrizeImageURL,
		TotalTickets:  req.TotalTickets,
	}

	var err error
	if d.UnitPrice, err = parseAmount(domain.FieldUnitPrice, req.UnitPrice); err != nil {
		return d, err
	}
	if d.UnitExpense, err = parseAmount(domain.FieldUnitExpense, req.UnitExpense); err != nil {
		return d, err
	}
	if d.Target, err = parseAmount(domain.FieldTarget, req.Target); err != nil {
		return d, err
	}
	if d.StartDate, err = parseDate(domain.FieldStartDate, req.StartDate); err != nil {
		return d, err
	}
	if d.EndDate, err = parseDate(domain.FieldEndDate, req.EndDate); err != nil {
		return d, err
	}

	return d, nil
}

// toPatch converts a patch request into a domain patch.
func toPatch(req *PatchRequest) (domain.Patch, error) {
	p := domain.Patch{
		Name:             req.Name,
		ClearUnitExpense: req.ClearUnitExpense,
		ClearStartDate:   req.ClearStartDate,
		ClearEndDate:     req.ClearEndDate,
		ImageURL:         req.ImageURL,
		Quantity:         req.Quantity,
		Prize:            req.Prize,
		PrizeImageURL:    req.PrizeImageURL,
	}

	if req.Status != nil {
		s := domain.Status(*req.Status)
		p.Status = &s
	}

	var err error
	if p.UnitPrice, err = parseAmount(domain.FieldUnitPrice, req.UnitPrice); err != nil {
		return p, err
	}
	if p.UnitExpense, err = parseAmount(domain.FieldUnitExpense, req.UnitExpense); err != nil {
		return p, err
	}
	if p.Target, err = parseAmount(domain.FieldTarget, req.Target); err != nil {
		return p, err
	}
	if req.StartDate != nil {
		if p.StartDate, err = parseDate(domain.FieldStartDate, *req.StartDate); err != nil {
			return p, err
		}
	}
	if req.EndDate != nil {
		if p.EndDate, err = parseDate(domain.FieldEndDate, *req.EndDate); err != nil {
			return p, err
		}
	}

	return p, nil
}

// toSaleRequest picks the sale shape from the fields present.
func toSaleRequest(req *SaleRequest) (domain.SaleRequest, error) {
	switch {
	case req.Quantity != nil && req.TicketNumbers != nil:
		return domain.SaleRequest{}, domain.NewValidationError("request", "set either quantity or ticketNumbers")
	case req.TicketNumbers != nil:
		return domain.NewTicketSale(req.TicketNumbers...), nil
	case req.Quantity != nil:
		return domain.NewQuantitySale(*req.Quantity), nil
	default:
		return domain.SaleRequest{}, domain.NewValidationError("request", "quantity or ticketNumbers is required")
	}
}

func parseAmount(field string, n *json.Number) (*domain.Money, error) {
	if n == nil {
		return nil, nil
	}
	m, err := domain.ParseMoney(n.String())
	if err != nil {
		return nil, domain.NewValidationError(field, "not a decimal amount")
	}
	return m, nil
}

func parseDate(field, s string) (*civil.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return nil, domain.NewValidationError(field, "expected YYYY-MM-DD")
	}
	return &d, nil
}
