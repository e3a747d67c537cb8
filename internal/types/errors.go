package types

import "errors"

// DomainErrorCode is the stable machine-readable discriminator used for
// HTTP status mapping. The boundary inspects it via equality only.
type DomainErrorCode string

const (
	CodeValidation     DomainErrorCode = "VALIDATION"
	CodeAuthentication DomainErrorCode = "AUTHENTICATION"
	CodeAuthorization  DomainErrorCode = "AUTHORIZATION"
	CodeNotFound       DomainErrorCode = "NOT_FOUND"
	CodeConflict       DomainErrorCode = "CONFLICT"
	CodeSystem         DomainErrorCode = "SYSTEM"
)

// DomainError is the typed error crossing the use-case boundary. Use
// cases return it and never catch it; the boundary maps it exactly once.
type DomainError struct {
	Code        DomainErrorCode
	Message     string
	FieldErrors []ValidationError
	Details     map[string]any
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewValidationDomainError carries the full field-error list, never just
// the first violation.
func NewValidationDomainError(result ValidationResult) *DomainError {
	return &DomainError{
		Code:        CodeValidation,
		Message:     "Validation failed",
		FieldErrors: result.Errors,
	}
}

func NewAuthenticationError(message string) *DomainError {
	return &DomainError{Code: CodeAuthentication, Message: message}
}

func NewAuthorizationError(message string) *DomainError {
	return &DomainError{Code: CodeAuthorization, Message: message}
}

func NewNotFoundError(message string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: message}
}

func NewConflictError(message string) *DomainError {
	return &DomainError{Code: CodeConflict, Message: message}
}

func NewSystemError(message string) *DomainError {
	return &DomainError{Code: CodeSystem, Message: message}
}

// AsDomainError unwraps err to the typed domain error, if any. Callers
// must branch on the Code field, not on the extraction itself.
func AsDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}
