package usecase

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/dmelim/userbase/internal/types"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
	maxPageSize       = 500
)

// Command validators are pure: they accumulate every violation for the
// input and never touch a repository. Uniqueness and other storage
// invariants surface later as CONFLICT errors.

type RegisterCommand struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

// NormalizedEmail is the canonical lowercase form stored and used as
// the email provider id.
func (c RegisterCommand) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(c.Email))
}

func (c RegisterCommand) Validate() types.ValidationResult {
	result := validateEmailField(c.Email)
	result = result.Combine(
		validateNameField("firstName", c.FirstName),
		validateNameField("lastName", c.LastName),
		validatePassword(c.Password),
	)
	return result
}

type LoginCommand struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c LoginCommand) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(c.Email))
}

// Validate checks shape only. Whether the credentials are right is an
// authentication concern, so a short wrong password still reaches the
// generic credential check instead of leaking a validation hint.
func (c LoginCommand) Validate() types.ValidationResult {
	result := validateEmailField(c.Email)
	if c.Password == "" {
		result.AddError("password", "Password is required")
	} else if len(c.Password) > maxPasswordLength {
		result.AddError("password", "Password must be at most 128 characters")
	}
	return result
}

type GetProfileQuery struct {
	UserID uuid.UUID
}

func (q GetProfileQuery) Validate() types.ValidationResult {
	result := types.NewValidationResult()
	if q.UserID == uuid.Nil {
		result.AddError("userId", "User id is required")
	}
	return result
}

type DeleteUserCommand struct {
	UserID uuid.UUID
}

func (c DeleteUserCommand) Validate() types.ValidationResult {
	result := types.NewValidationResult()
	if c.UserID == uuid.Nil {
		result.AddError("userId", "User id is required")
	}
	return result
}

type ListUsersQuery struct {
	Page     int
	PageSize int
}

// Validate rejects out-of-range pagination instead of clamping it; the
// HTTP parser only fills in defaults for absent parameters.
func (q ListUsersQuery) Validate() types.ValidationResult {
	result := types.NewValidationResult()
	if q.Page < 1 {
		result.AddError("page", "Page must be at least 1")
	}
	if q.PageSize < 1 || q.PageSize > maxPageSize {
		result.AddError("pageSize", "Page size must be between 1 and 500")
	}
	return result
}

// ExternalIdentityCommand carries a social identity already verified by
// the provider handshake at the boundary.
type ExternalIdentityCommand struct {
	Provider   types.AuthProvider
	ProviderID string
	Email      string
	FirstName  string
	LastName   string
}

func (c ExternalIdentityCommand) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(c.Email))
}

func (c ExternalIdentityCommand) Validate() types.ValidationResult {
	result := types.NewValidationResult()
	if !c.Provider.Known() || c.Provider == types.ProviderEmail {
		result.AddError("provider", "Provider must be a supported external provider")
	}
	if strings.TrimSpace(c.ProviderID) == "" {
		result.AddError("providerId", "Provider id is required")
	}
	result = result.Combine(
		validateEmailField(c.Email),
		validateNameField("firstName", c.FirstName),
		validateNameField("lastName", c.LastName),
	)
	return result
}

func validateEmailField(email string) types.ValidationResult {
	result := types.NewValidationResult()
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		result.AddError("email", "Email is required")
		return result
	}
	if len(trimmed) > 255 {
		result.AddError("email", "Email must be at most 255 characters")
	}
	if !types.IsValidEmail(trimmed) {
		result.AddError("email", "Email format is invalid")
	}
	return result
}

func validateNameField(field, value string) types.ValidationResult {
	result := types.NewValidationResult()
	if strings.TrimSpace(value) == "" {
		result.AddError(field, "Must not be blank")
		return result
	}
	if len(value) > 100 {
		result.AddError(field, "Must be between 1 and 100 characters")
	}
	return result
}

func validatePassword(password string) types.ValidationResult {
	result := types.NewValidationResult()
	if password == "" {
		result.AddError("password", "Password is required")
		return result
	}
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		result.AddError("password", "Password must be between 8 and 128 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		result.AddError("password", "Password must contain at least one uppercase letter")
	}
	if !hasLower {
		result.AddError("password", "Password must contain at least one lowercase letter")
	}
	if !hasDigit {
		result.AddError("password", "Password must contain at least one digit")
	}
	return result
}
