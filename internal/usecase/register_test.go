package usecase

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmelim/userbase/internal/types"
)

func validRegisterCommand() RegisterCommand {
	return RegisterCommand{
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  "Sup3rSecret",
	}
}

func TestRegisterUser(t *testing.T) {
	logger := slog.Default()
	uc := NewRegisterUser(logger)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserRepo)
		auths := new(MockAuthenticationRepo)
		cmd := validRegisterCommand()

		created := &types.User{
			ID:        uuid.New(),
			Email:     "jane@example.com",
			FirstName: "Jane",
			LastName:  "Doe",
			IsActive:  true,
		}
		users.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, nil).Once()
		users.On("Create", mock.Anything, mock.AnythingOfType("*types.User")).Return(created, nil).Once()
		auths.On("Create", mock.Anything, mock.MatchedBy(func(a *types.UserAuthentication) bool {
			if a.Provider != types.ProviderEmail || a.ProviderID != "jane@example.com" {
				return false
			}
			if a.HashedPassword == nil {
				return false
			}
			return bcrypt.CompareHashAndPassword([]byte(*a.HashedPassword), []byte(cmd.Password)) == nil
		})).Return(&types.UserAuthentication{}, nil).Once()

		profile, err := uc.Execute(ctx, anonymousContext(), newTestBundle(users, auths), cmd)

		assert.NoError(t, err)
		assert.Equal(t, created.ID, profile.ID)
		assert.Equal(t, "jane@example.com", profile.Email)
		assert.False(t, profile.IsAdmin)
		users.AssertExpectations(t)
		auths.AssertExpectations(t)
	})

	t.Run("EmailIsNormalized", func(t *testing.T) {
		users := new(MockUserRepo)
		auths := new(MockAuthenticationRepo)
		cmd := validRegisterCommand()
		cmd.Email = "  Jane@Example.COM "

		created := &types.User{ID: uuid.New(), Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", IsActive: true}
		users.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, nil).Once()
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *types.User) bool {
			return u.Email == "jane@example.com"
		})).Return(created, nil).Once()
		auths.On("Create", mock.Anything, mock.AnythingOfType("*types.UserAuthentication")).Return(&types.UserAuthentication{}, nil).Once()

		_, err := uc.Execute(ctx, anonymousContext(), newTestBundle(users, auths), cmd)

		assert.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("WeakPasswordReportsEveryViolation", func(t *testing.T) {
		cmd := validRegisterCommand()
		cmd.Password = "short"

		_, err := uc.Execute(ctx, anonymousContext(), newTestBundle(new(MockUserRepo), new(MockAuthenticationRepo)), cmd)

		domainErr, ok := types.AsDomainError(err)
		assert.True(t, ok)
		assert.Equal(t, types.CodeValidation, domainErr.Code)
		// Too short, no uppercase, no digit.
		assert.Len(t, domainErr.FieldErrors, 3)
		for _, fe := range domainErr.FieldErrors {
			assert.Equal(t, "password", fe.Field)
		}
	})

	t.Run("AllFieldsMissing", func(t *testing.T) {
		_, err := uc.Execute(ctx, anonymousContext(), newTestBundle(new(MockUserRepo), new(MockAuthenticationRepo)), RegisterCommand{})

		domainErr, ok := types.AsDomainError(err)
		assert.True(t, ok)
		assert.Equal(t, types.CodeValidation, domainErr.Code)
		assert.Len(t, domainErr.FieldErrors, 4)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		users := new(MockUserRepo)
		existing := &types.User{ID: uuid.New(), Email: "jane@example.com"}
		users.On("FindByEmail", mock.Anything, "jane@example.com").Return(existing, nil).Once()

		_, err := uc.Execute(ctx, anonymousContext(), newTestBundle(users, new(MockAuthenticationRepo)), validRegisterCommand())

		assert.Equal(t, types.CodeConflict, domainCode(err))
		domainErr, _ := types.AsDomainError(err)
		assert.Equal(t, "Email is already registered", domainErr.Message)
		users.AssertExpectations(t)
	})

	t.Run("ConflictFromRepositoryRace", func(t *testing.T) {
		// Two concurrent registrations: the lookup misses but the
		// insert trips the unique constraint.
		users := new(MockUserRepo)
		users.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, nil).Once()
		users.On("Create", mock.Anything, mock.AnythingOfType("*types.User")).
			Return(nil, types.NewConflictError("Email is already registered")).Once()

		_, err := uc.Execute(ctx, anonymousContext(), newTestBundle(users, new(MockAuthenticationRepo)), validRegisterCommand())

		assert.Equal(t, types.CodeConflict, domainCode(err))
	})
}
