package shared

import "errors"

// ErrorKind classifies a domain error for the caller. NotFound also
// covers entities outside the caller's location scope; Conflict covers
// state that makes the request unsatisfiable right now; Validation
// covers malformed requests; Internal covers persistence failures and
// is the only kind eligible for caller-side retry.
type ErrorKind string

const (
	KindNotFound   ErrorKind = "NOT_FOUND"
	KindValidation ErrorKind = "VALIDATION"
	KindConflict   ErrorKind = "CONFLICT"
	KindInternal   ErrorKind = "INTERNAL"
)

// DomainError represents a domain-level error with a stable code
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is makes errors.Is match on the stable code rather than identity,
// so wrapped and detail-enriched errors still compare equal to the
// sentinels below.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewNotFoundError creates a not-found domain error
func NewNotFoundError(code, message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Code: code, Message: message}
}

// NewValidationError creates a validation domain error
func NewValidationError(code, message string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: message}
}

// NewConflictError creates a conflict domain error
func NewConflictError(code, message string) *DomainError {
	return &DomainError{Kind: KindConflict, Code: code, Message: message}
}

// NewInternalError creates an internal domain error
func NewInternalError(code, message string) *DomainError {
	return &DomainError{Kind: KindInternal, Code: code, Message: message}
}

// Common domain errors
var (
	ErrNotFound             = NewNotFoundError("NOT_FOUND", "Resource not found")
	ErrInvalidInput         = NewValidationError("INVALID_INPUT", "Invalid input provided")
	ErrInsufficientQuantity = NewConflictError("INSUFFICIENT_QUANTITY", "Insufficient quantity available")
	ErrNegativeResult       = NewConflictError("NEGATIVE_RESULT", "Operation would drive quantity negative")
	ErrOverAllocation       = NewValidationError("OVER_ALLOCATION", "Requested amounts exceed the parent quantity")
	ErrTypeMismatch         = NewValidationError("TYPE_MISMATCH", "Source items do not share the same inventory type")
	ErrAlreadyVoided        = NewConflictError("ALREADY_VOIDED", "Sale has already been voided")
	ErrNotUndoable          = NewConflictError("NOT_UNDOABLE", "Audit entry action cannot be undone")
	ErrRefundExceedsTotal   = NewValidationError("REFUND_EXCEEDS_TOTAL", "Refunds would exceed the sale total")
	ErrDuplicateRequest     = NewConflictError("DUPLICATE_REQUEST", "Request with this idempotency key was already processed")
	ErrOptimisticLock       = NewConflictError("OPTIMISTIC_LOCK_FAILED", "Resource was modified by another transaction")
)

// KindOf returns the kind of a domain error, or KindInternal for any
// other error.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a not-found domain error
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsConflict reports whether err is a conflict domain error
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

// IsValidation reports whether err is a validation domain error
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}
