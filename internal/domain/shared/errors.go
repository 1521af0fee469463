package shared

import "fmt"

// DomainError is a business rule violation with a machine-readable
// code.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Sentinel errors shared across the domain packages.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrDuplicateNumber     = NewDomainError("DUPLICATE_NUMBER", "Document number already allocated")
	ErrPersistenceFailure  = NewDomainError("PERSISTENCE_FAILURE", "Storage operation failed")
)

// NewInvalidTransitionError builds an INVALID_STATE error naming the current
// and requested states so callers can see exactly which transition was refused.
func NewInvalidTransitionError(docType, from, to string) *DomainError {
	return NewDomainError("INVALID_STATE",
		fmt.Sprintf("%s cannot transition from %s to %s", docType, from, to))
}

// NewInsufficientStockError builds an INSUFFICIENT_STOCK error naming the
// offending product and the requested vs. available quantities.
func NewInsufficientStockError(productID string, requested, available string) *DomainError {
	return NewDomainError("INSUFFICIENT_STOCK",
		fmt.Sprintf("insufficient stock for product %s: requested %s, available %s", productID, requested, available))
}
