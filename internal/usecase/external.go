package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmelim/userbase/internal/repository"
	"github.com/dmelim/userbase/internal/types"
)

// AuthenticateExternal finds or creates the local account behind a
// social identity the boundary already verified with the provider. A
// first-time identity links to an existing user by email, or registers
// a passwordless one; either way the credential row is created in the
// same transaction.
type AuthenticateExternal struct {
	logger *slog.Logger
}

func NewAuthenticateExternal(logger *slog.Logger) *AuthenticateExternal {
	return &AuthenticateExternal{logger: logger}
}

func (u *AuthenticateExternal) Descriptor() Descriptor {
	return Descriptor{Name: "AuthenticateExternal", Kind: KindWrite, Visibility: VisibilityPublic}
}

func (u *AuthenticateExternal) Execute(ctx context.Context, rc *Context, repos *repository.Bundle, cmd ExternalIdentityCommand) (*types.UserProfile, error) {
	l := u.logger.With(slog.String("method", "AuthenticateExternal"), slog.String("provider", string(cmd.Provider)))

	if err := u.Descriptor().RequireIdentity(rc); err != nil {
		return nil, err
	}

	if result := cmd.Validate(); !result.Valid {
		return nil, types.NewValidationDomainError(result)
	}

	auth, err := repos.Authentications.FindByProvider(ctx, cmd.Provider, cmd.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("looking up provider identity: %w", err)
	}
	if auth != nil {
		user, err := repos.Users.FindByID(ctx, auth.UserID)
		if err != nil {
			return nil, fmt.Errorf("resolving authentication owner: %w", err)
		}
		if user == nil {
			return nil, types.NewSystemError("Internal server error")
		}
		if !user.IsActive || !auth.IsActive {
			return nil, types.NewAuthenticationError("Account is inactive")
		}
		profile := types.NewUserProfile(user)
		return &profile, nil
	}

	email := cmd.NormalizedEmail()
	user, err := repos.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("looking up user by email: %w", err)
	}
	if user == nil {
		candidate := &types.User{
			Email:     email,
			FirstName: strings.TrimSpace(cmd.FirstName),
			LastName:  strings.TrimSpace(cmd.LastName),
			IsActive:  true,
			IsAdmin:   false,
		}
		if result := candidate.Validate(); !result.Valid {
			return nil, types.NewValidationDomainError(result)
		}
		user, err = repos.Users.Create(ctx, candidate)
		if err != nil {
			return nil, err
		}
		l.InfoContext(ctx, "User created from external identity", slog.String("userID", user.ID.String()))
	} else if !user.IsActive {
		return nil, types.NewAuthenticationError("Account is inactive")
	}

	newAuth := &types.UserAuthentication{
		UserID:     user.ID,
		Provider:   cmd.Provider,
		ProviderID: cmd.ProviderID,
		IsActive:   true,
	}
	if result := newAuth.Validate(); !result.Valid {
		return nil, types.NewValidationDomainError(result)
	}
	if _, err := repos.Authentications.Create(ctx, newAuth); err != nil {
		return nil, err
	}

	profile := types.NewUserProfile(user)
	return &profile, nil
}
