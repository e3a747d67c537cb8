package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dmelim/userbase/internal/repository"
	"github.com/dmelim/userbase/internal/types"
)

// MockUserRepo is a mock implementation of the repository.UserRepo
// interface.
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*types.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserRepo) Create(ctx context.Context, user *types.User) (*types.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, user *types.User) (*types.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) FindMany(ctx context.Context, page types.PageRequest) ([]types.User, int, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]types.User), args.Int(1), args.Error(2)
}

// MockAuthenticationRepo is a mock implementation of the
// repository.AuthenticationRepo interface.
type MockAuthenticationRepo struct {
	mock.Mock
}

func (m *MockAuthenticationRepo) Create(ctx context.Context, auth *types.UserAuthentication) (*types.UserAuthentication, error) {
	args := m.Called(ctx, auth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuthentication), args.Error(1)
}

func (m *MockAuthenticationRepo) FindByUserID(ctx context.Context, userID uuid.UUID, page types.PageRequest) ([]types.UserAuthentication, int, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]types.UserAuthentication), args.Int(1), args.Error(2)
}

func (m *MockAuthenticationRepo) FindByProvider(ctx context.Context, provider types.AuthProvider, providerID string) (*types.UserAuthentication, error) {
	args := m.Called(ctx, provider, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuthentication), args.Error(1)
}

func (m *MockAuthenticationRepo) FindUserWithAuthentication(ctx context.Context, email string, provider types.AuthProvider) (*types.UserWithAuthentication, error) {
	args := m.Called(ctx, email, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserWithAuthentication), args.Error(1)
}

func (m *MockAuthenticationRepo) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func newTestBundle(users *MockUserRepo, auths *MockAuthenticationRepo) *repository.Bundle {
	return &repository.Bundle{Users: users, Authentications: auths}
}

func anonymousContext() *Context {
	return &Context{RequestID: "test-req", Logger: slog.Default()}
}

func authenticatedContext(userID uuid.UUID) *Context {
	return &Context{UserID: userID, RequestID: "test-req", Logger: slog.Default()}
}

func domainCode(err error) types.DomainErrorCode {
	domainErr, ok := types.AsDomainError(err)
	if !ok {
		return ""
	}
	return domainErr.Code
}
