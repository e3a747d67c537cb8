package usecase

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dmelim/userbase/internal/types"
)

func TestDeleteUser(t *testing.T) {
	uc := NewDeleteUser(slog.Default())
	ctx := context.Background()

	t.Run("SelfDeletion", func(t *testing.T) {
		userID := uuid.New()
		users := new(MockUserRepo)
		auths := new(MockAuthenticationRepo)

		actor := &types.User{ID: userID, Email: "jane@example.com", IsActive: true}
		users.On("FindByID", mock.Anything, userID).Return(actor, nil).Twice()
		auths.On("DeleteByUserID", mock.Anything, userID).Return(int64(2), nil).Once()
		users.On("Delete", mock.Anything, userID).Return(true, nil).Once()

		result, err := uc.Execute(ctx, authenticatedContext(userID), newTestBundle(users, auths), DeleteUserCommand{UserID: userID})

		assert.NoError(t, err)
		assert.Equal(t, "User deleted successfully", result.Message)
		users.AssertExpectations(t)
		auths.AssertExpectations(t)
	})

	t.Run("AdminDeletesAnotherUser", func(t *testing.T) {
		adminID := uuid.New()
		targetID := uuid.New()
		users := new(MockUserRepo)
		auths := new(MockAuthenticationRepo)

		users.On("FindByID", mock.Anything, adminID).Return(&types.User{ID: adminID, IsAdmin: true, IsActive: true}, nil).Once()
		users.On("FindByID", mock.Anything, targetID).Return(&types.User{ID: targetID, IsActive: true}, nil).Once()
		auths.On("DeleteByUserID", mock.Anything, targetID).Return(int64(1), nil).Once()
		users.On("Delete", mock.Anything, targetID).Return(true, nil).Once()

		result, err := uc.Execute(ctx, authenticatedContext(adminID), newTestBundle(users, auths), DeleteUserCommand{UserID: targetID})

		assert.NoError(t, err)
		assert.Equal(t, "User deleted successfully", result.Message)
	})

	t.Run("NonAdminCannotDeleteOthers", func(t *testing.T) {
		actingID := uuid.New()
		users := new(MockUserRepo)
		users.On("FindByID", mock.Anything, actingID).Return(&types.User{ID: actingID, IsActive: true}, nil).Once()

		_, err := uc.Execute(ctx, authenticatedContext(actingID), newTestBundle(users, new(MockAuthenticationRepo)), DeleteUserCommand{UserID: uuid.New()})

		assert.Equal(t, types.CodeAuthorization, domainCode(err))
		domainErr, _ := types.AsDomainError(err)
		assert.Equal(t, "You do not have permission to delete this user", domainErr.Message)
	})

	t.Run("StaleSessionAfterOwnDeletion", func(t *testing.T) {
		// Deleting the same account twice: the second call fails at
		// session resolution, before any authorization decision.
		userID := uuid.New()
		users := new(MockUserRepo)
		users.On("FindByID", mock.Anything, userID).Return(nil, nil).Once()

		_, err := uc.Execute(ctx, authenticatedContext(userID), newTestBundle(users, new(MockAuthenticationRepo)), DeleteUserCommand{UserID: userID})

		assert.Equal(t, types.CodeAuthentication, domainCode(err))
		domainErr, _ := types.AsDomainError(err)
		assert.Equal(t, "Invalid user session", domainErr.Message)
	})

	t.Run("AdminDeletesMissingTarget", func(t *testing.T) {
		adminID := uuid.New()
		targetID := uuid.New()
		users := new(MockUserRepo)

		users.On("FindByID", mock.Anything, adminID).Return(&types.User{ID: adminID, IsAdmin: true, IsActive: true}, nil).Once()
		users.On("FindByID", mock.Anything, targetID).Return(nil, nil).Once()

		_, err := uc.Execute(ctx, authenticatedContext(adminID), newTestBundle(users, new(MockAuthenticationRepo)), DeleteUserCommand{UserID: targetID})

		assert.Equal(t, types.CodeNotFound, domainCode(err))
	})

	t.Run("UnauthenticatedCaller", func(t *testing.T) {
		_, err := uc.Execute(ctx, anonymousContext(), newTestBundle(new(MockUserRepo), new(MockAuthenticationRepo)), DeleteUserCommand{UserID: uuid.New()})

		assert.Equal(t, types.CodeAuthentication, domainCode(err))
	})
}
