package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmelim/userbase/internal/repository"
	"github.com/dmelim/userbase/internal/types"
)

// GetUserProfile returns the caller's own profile. Callers can never
// read somebody else's, admin or not.
type GetUserProfile struct {
	logger *slog.Logger
}

func NewGetUserProfile(logger *slog.Logger) *GetUserProfile {
	return &GetUserProfile{logger: logger}
}

func (u *GetUserProfile) Descriptor() Descriptor {
	return Descriptor{Name: "GetUserProfile", Kind: KindRead, Visibility: VisibilityPrivate}
}

func (u *GetUserProfile) Execute(ctx context.Context, rc *Context, repos *repository.Bundle, query GetProfileQuery) (*types.UserProfile, error) {
	if err := u.Descriptor().RequireIdentity(rc); err != nil {
		return nil, err
	}

	if result := query.Validate(); !result.Valid {
		return nil, types.NewValidationDomainError(result)
	}

	if rc.UserID != query.UserID {
		return nil, types.NewAuthorizationError("You may only access your own profile")
	}

	user, err := repos.Users.FindByID(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("fetching user profile: %w", err)
	}
	if user == nil {
		return nil, types.NewNotFoundError("User not found")
	}
	if !user.IsActive {
		return nil, types.NewAuthorizationError("Account is inactive")
	}

	profile := types.NewUserProfile(user)
	return &profile, nil
}
