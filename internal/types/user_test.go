package types

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func fieldsOf(result ValidationResult) []string {
	fields := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestUserValidate(t *testing.T) {
	t.Run("ValidUser", func(t *testing.T) {
		u := &User{Email: "jane@example.com", FirstName: "Jane", LastName: "Doe"}
		result := u.Validate()
		assert.True(t, result.Valid)
	})

	t.Run("AccumulatesAllViolations", func(t *testing.T) {
		u := &User{Email: "", FirstName: "  ", LastName: ""}
		result := u.Validate()
		assert.False(t, result.Valid)
		assert.ElementsMatch(t, []string{"email", "firstName", "lastName"}, fieldsOf(result))
	})

	t.Run("EmailTooLongAndMalformed", func(t *testing.T) {
		u := &User{
			Email:     strings.Repeat("a", 256),
			FirstName: "Jane",
			LastName:  "Doe",
		}
		result := u.Validate()
		assert.False(t, result.Valid)
		// Both the length and the format violation are reported.
		assert.Len(t, result.Errors, 2)
	})

	t.Run("NameAtLimit", func(t *testing.T) {
		u := &User{
			Email:     "jane@example.com",
			FirstName: strings.Repeat("a", 100),
			LastName:  strings.Repeat("b", 101),
		}
		result := u.Validate()
		assert.False(t, result.Valid)
		assert.Equal(t, []string{"lastName"}, fieldsOf(result))
	})
}

func TestUserAuthenticationValidate(t *testing.T) {
	userID := uuid.New()
	hash := strings.Repeat("x", 60)

	t.Run("ValidEmailCredential", func(t *testing.T) {
		a := &UserAuthentication{
			UserID:         userID,
			Provider:       ProviderEmail,
			ProviderID:     "jane@example.com",
			HashedPassword: &hash,
		}
		assert.True(t, a.Validate().Valid)
	})

	t.Run("ValidExternalCredential", func(t *testing.T) {
		a := &UserAuthentication{
			UserID:     userID,
			Provider:   ProviderGoogle,
			ProviderID: "google-subject-123",
		}
		assert.True(t, a.Validate().Valid)
	})

	t.Run("EmailProviderRequiresPassword", func(t *testing.T) {
		a := &UserAuthentication{
			UserID:     userID,
			Provider:   ProviderEmail,
			ProviderID: "jane@example.com",
		}
		result := a.Validate()
		assert.False(t, result.Valid)
		assert.Contains(t, fieldsOf(result), "hashedPassword")
	})

	t.Run("ExternalProviderForbidsPassword", func(t *testing.T) {
		a := &UserAuthentication{
			UserID:         userID,
			Provider:       ProviderGithub,
			ProviderID:     "gh-42",
			HashedPassword: &hash,
		}
		result := a.Validate()
		assert.False(t, result.Valid)
		assert.Contains(t, fieldsOf(result), "hashedPassword")
	})

	t.Run("EmailProviderIDMustBeEmail", func(t *testing.T) {
		a := &UserAuthentication{
			UserID:         userID,
			Provider:       ProviderEmail,
			ProviderID:     "not-an-email",
			HashedPassword: &hash,
		}
		result := a.Validate()
		assert.False(t, result.Valid)
		assert.Contains(t, fieldsOf(result), "providerId")
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		a := &UserAuthentication{
			UserID:     userID,
			Provider:   "myspace",
			ProviderID: "ms-1",
		}
		result := a.Validate()
		assert.False(t, result.Valid)
		assert.Contains(t, fieldsOf(result), "provider")
	})

	t.Run("MissingOwner", func(t *testing.T) {
		a := &UserAuthentication{
			Provider:   ProviderGoogle,
			ProviderID: "g-1",
		}
		result := a.Validate()
		assert.False(t, result.Valid)
		assert.Contains(t, fieldsOf(result), "userId")
	})
}
