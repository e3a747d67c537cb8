package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AuthProvider identifies where a credential came from.
type AuthProvider string

const (
	ProviderEmail     AuthProvider = "email"
	ProviderGoogle    AuthProvider = "google"
	ProviderGithub    AuthProvider = "github"
	ProviderFacebook  AuthProvider = "facebook"
	ProviderApple     AuthProvider = "apple"
	ProviderMicrosoft AuthProvider = "microsoft"
)

// Known reports whether p is one of the supported providers.
func (p AuthProvider) Known() bool {
	switch p {
	case ProviderEmail, ProviderGoogle, ProviderGithub, ProviderFacebook, ProviderApple, ProviderMicrosoft:
		return true
	}
	return false
}

const (
	maxEmailLength      = 255
	maxNameLength       = 100
	maxProviderLength   = 50
	maxProviderIDLength = 255
)

// User is the account entity. Timestamps are database-assigned.
type User struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
	IsActive  bool
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks data-shape constraints and accumulates every
// violation. Email uniqueness is a storage invariant, not checked here.
func (u *User) Validate() ValidationResult {
	result := NewValidationResult()

	email := strings.TrimSpace(u.Email)
	if email == "" {
		result.AddError("email", "Email is required")
	} else {
		if len(email) > maxEmailLength {
			result.AddError("email", "Email must be at most 255 characters")
		}
		if !IsValidEmail(email) {
			result.AddError("email", "Email format is invalid")
		}
	}

	result = result.Combine(
		validateName("firstName", u.FirstName),
		validateName("lastName", u.LastName),
	)
	return result
}

func validateName(field, value string) ValidationResult {
	result := NewValidationResult()
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		result.AddError(field, "Must not be blank")
		return result
	}
	if len(value) > maxNameLength {
		result.AddError(field, "Must be between 1 and 100 characters")
	}
	return result
}

// UserAuthentication is a weak entity owned by a User: one external
// identity (provider, providerID) mapping to exactly one local account.
type UserAuthentication struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Provider       AuthProvider
	ProviderID     string
	HashedPassword *string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate accumulates all constraint violations: the owning user id
// must be set, the hashed password is required for the email provider
// and forbidden for every other one, and an email-provider providerID
// must itself parse as an email address.
func (a *UserAuthentication) Validate() ValidationResult {
	result := NewValidationResult()

	if a.UserID == uuid.Nil {
		result.AddError("userId", "Owning user id is required")
	}

	if a.Provider == "" {
		result.AddError("provider", "Provider is required")
	} else {
		if len(a.Provider) > maxProviderLength {
			result.AddError("provider", "Provider must be at most 50 characters")
		}
		if !a.Provider.Known() {
			result.AddError("provider", "Provider is not supported")
		}
	}

	if a.ProviderID == "" {
		result.AddError("providerId", "Provider id is required")
	} else if len(a.ProviderID) > maxProviderIDLength {
		result.AddError("providerId", "Provider id must be at most 255 characters")
	}

	if a.Provider == ProviderEmail {
		if a.HashedPassword == nil || len(*a.HashedPassword) < 20 {
			result.AddError("hashedPassword", "Hashed password is required for the email provider")
		}
		if a.ProviderID != "" && !IsValidEmail(a.ProviderID) {
			result.AddError("providerId", "Provider id must be an email address for the email provider")
		}
	} else if a.Provider.Known() && a.HashedPassword != nil {
		result.AddError("hashedPassword", "Hashed password must be empty for external providers")
	}

	return result
}

// UserWithAuthentication is the combined login fetch, avoiding an N+1
// round trip for credential checks.
type UserWithAuthentication struct {
	User           User
	Authentication UserAuthentication
}
