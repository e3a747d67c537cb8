package types

import "regexp"

// ValidationError is one field-level constraint violation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult accumulates every violation found in one validation
// pass. Validators never stop at the first failure.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// NewValidationResult returns an empty, valid result.
func NewValidationResult() ValidationResult {
	return ValidationResult{Valid: true}
}

// AddError records a violation and marks the result invalid.
func (r *ValidationResult) AddError(field, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

// Combine ANDs validity and concatenates the errors of multiple
// sub-checks into a single result.
func (r ValidationResult) Combine(others ...ValidationResult) ValidationResult {
	combined := ValidationResult{Valid: r.Valid, Errors: append([]ValidationError(nil), r.Errors...)}
	for _, other := range others {
		combined.Valid = combined.Valid && other.Valid
		combined.Errors = append(combined.Errors, other.Errors...)
	}
	return combined
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail reports whether s has a plausible email shape.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}
