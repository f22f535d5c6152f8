package errors

import "fmt"

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	if ve, ok := err.(*ValidationError); ok {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	if nfe, ok := err.(*NotFoundError); ok {
		return nfe, true
	}
	return nil, false
}

// InvalidMovementTypeError rejects ledger writes with an unrecognized
// movement type.
type InvalidMovementTypeError struct {
	Type string
}

func (e *InvalidMovementTypeError) Error() string {
	return fmt.Sprintf("invalid movement type %q", e.Type)
}

func NewInvalidMovementTypeError(movementType string) *InvalidMovementTypeError {
	return &InvalidMovementTypeError{Type: movementType}
}

func IsInvalidMovementTypeError(err error) (*InvalidMovementTypeError, bool) {
	if ime, ok := err.(*InvalidMovementTypeError); ok {
		return ime, true
	}
	return nil, false
}

// InsufficientInventoryError fails a reservation batch; it names the first
// item whose available quantity could not cover the request.
type InsufficientInventoryError struct {
	ProductID   int
	WarehouseID int
	Available   int
	Requested   int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for product %d in warehouse %d: available %d, requested %d",
		e.ProductID, e.WarehouseID, e.Available, e.Requested)
}

func NewInsufficientInventoryError(productID, warehouseID, available, requested int) *InsufficientInventoryError {
	return &InsufficientInventoryError{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Available:   available,
		Requested:   requested,
	}
}

func IsInsufficientInventoryError(err error) (*InsufficientInventoryError, bool) {
	if iie, ok := err.(*InsufficientInventoryError); ok {
		return iie, true
	}
	return nil, false
}

// ConflictError covers transaction conflicts that exhausted their retries
// as well as duplicate-item and bad-state conditions. The caller may retry
// the whole operation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	if ce, ok := err.(*ConflictError); ok {
		return ce, true
	}
	return nil, false
}

// PersistenceError wraps an unexpected storage-layer failure.
type PersistenceError struct {
	Message string
	Cause   error
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

func NewPersistenceError(message string, cause error) *PersistenceError {
	return &PersistenceError{
		Message: message,
		Cause:   cause,
	}
}

func IsPersistenceError(err error) (*PersistenceError, bool) {
	if pe, ok := err.(*PersistenceError); ok {
		return pe, true
	}
	return nil, false
}
