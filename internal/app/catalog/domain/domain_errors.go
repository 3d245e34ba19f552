package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds as sentinel values. Typed errors below match them through errors.Is.
var (
	ErrValidation             = errors.New("validation failed")
	ErrNotFound               = errors.New("entity not found")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInvalidTicketSelection = errors.New("invalid ticket selection")
	ErrTicketAlreadySold      = errors.New("ticket already sold")
	ErrConflict               = errors.New("catalog changed concurrently")
	ErrPersistence            = errors.New("persistence failed")
)

// ErrorKind classifies a failure for callers that branch on it.
type ErrorKind string

const (
	KindUnknown                ErrorKind = "unknown"
	KindValidation             ErrorKind = "validation"
	KindNotFound               ErrorKind = "not_found"
	KindInsufficientStock      ErrorKind = "insufficient_stock"
	KindInvalidTicketSelection ErrorKind = "invalid_ticket_selection"
	KindTicketAlreadySold      ErrorKind = "ticket_already_sold"
	KindConflict               ErrorKind = "conflict"
	KindPersistence            ErrorKind = "persistence"
)

// KindOf returns the kind of err, or KindUnknown.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrInvalidTicketSelection):
		return KindInvalidTicketSelection
	case errors.Is(err, ErrTicketAlreadySold):
		return KindTicketAlreadySold
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	default:
		return KindUnknown
	}
}

// ValidationError reports an invalid field.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports a missing entity.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("entity %q not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InsufficientStockError reports a product sale larger than the stock.
type InsufficientStockError struct {
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested %d, available %d", e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// InvalidTicketSelectionError reports a malformed ticket request.
type InvalidTicketSelectionError struct {
	Reason string
}

func (e *InvalidTicketSelectionError) Error() string {
	return "invalid ticket selection: " + e.Reason
}

func (e *InvalidTicketSelectionError) Is(target error) bool {
	return target == ErrInvalidTicketSelection
}

// TicketAlreadySoldError lists every requested number that is already sold.
type TicketAlreadySoldError struct {
	Numbers []int
}

func (e *TicketAlreadySoldError) Error() string {
	parts := make([]string, len(e.Numbers))
	for i, n := range e.Numbers {
		parts[i] = fmt.Sprint(n)
	}
	return "tickets already sold: " + strings.Join(parts, ", ")
}

func (e *TicketAlreadySoldError) Is(target error) bool { return target == ErrTicketAlreadySold }

// ConflictError reports that the persisted snapshot moved since it was loaded.
type ConflictError struct {
	ID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("snapshot %q was modified concurrently", e.ID)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// PersistenceError wraps a failed read or write of the snapshot.
type PersistenceError struct {
	Cause error
}

func (e *PersistenceError) Error() string {
	return "persistence failed: " + e.Cause.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
