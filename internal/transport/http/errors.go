package http

import (
	"errors"
	"net/http"

	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
)

// statusFor maps an error kind to an HTTP status code.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindInvalidTicketSelection:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInsufficientStock, domain.KindTicketAlreadySold, domain.KindConflict:
		return http.StatusConflict
	case domain.KindPersistence:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorBody describes err for the client. Unclassified errors are not echoed.
func errorBody(err error) ErrorBody {
	kind := domain.KindOf(err)
	body := ErrorBody{Kind: string(kind), Message: err.Error()}

	var (
		verr  *domain.ValidationError
		sold  *domain.TicketAlreadySoldError
		stock *domain.InsufficientStockError
	)
	switch {
	case errors.As(err, &verr):
		body.Field = verr.Field
	case errors.As(err, &sold):
		body.Numbers = sold.Numbers
	case errors.As(err, &stock):
		body.Requested = &stock.Requested
		body.Available = &stock.Available
	}

	switch kind {
	case domain.KindPersistence:
		body.Message = "catalog storage is unavailable"
	case domain.KindUnknown:
		body.Message = "internal server error"
	}

	return body
}
