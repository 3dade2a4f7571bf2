package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrElementLocked       = NewDomainError("ELEMENT_LOCKED", "Element is locked and rejects geometry mutation")
	ErrInvalidHandle       = NewDomainError("INVALID_HANDLE", "Unknown resize handle identifier")
	ErrSessionNotFound     = NewDomainError("SESSION_NOT_FOUND", "Editing session not found or expired")
	ErrConfirmationNeeded  = NewDomainError("CONFIRMATION_REQUIRED", "Destructive action requires explicit confirmation")
)
