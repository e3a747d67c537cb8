// Package repository defines the persistence contracts consumed by the
// use cases. Implementations return entities or paginated entity sets,
// never raw rows, and translate storage uniqueness violations into
// typed conflict errors before they escape.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmelim/userbase/internal/types"
)

// UserRepo persists User entities. Lookup methods return (nil, nil)
// when the row is absent so each use case can pick the domain error
// that fits its own contract.
type UserRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*types.User, error)
	FindByEmail(ctx context.Context, email string) (*types.User, error)
	Create(ctx context.Context, user *types.User) (*types.User, error)
	Update(ctx context.Context, user *types.User) (*types.User, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FindMany(ctx context.Context, page types.PageRequest) ([]types.User, int, error)
}

// AuthenticationRepo persists the credential rows owned by users.
type AuthenticationRepo interface {
	Create(ctx context.Context, auth *types.UserAuthentication) (*types.UserAuthentication, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, page types.PageRequest) ([]types.UserAuthentication, int, error)
	FindByProvider(ctx context.Context, provider types.AuthProvider, providerID string) (*types.UserAuthentication, error)
	FindUserWithAuthentication(ctx context.Context, email string, provider types.AuthProvider) (*types.UserWithAuthentication, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Bundle groups the repositories bound to one transaction scope. The
// harness builds a fresh bundle per transaction; there is no shared
// singleton repository.
type Bundle struct {
	Users           UserRepo
	Authentications AuthenticationRepo
}

// TxManager runs fn inside exactly one atomic scope, committing on nil
// and rolling back on any error. A nested Transactionally call joins
// the scope already open on ctx instead of starting a second one.
type TxManager interface {
	Transactionally(ctx context.Context, fn func(ctx context.Context, repos *Bundle) error) error
}
