package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmelim/userbase/internal/repository"
	"github.com/dmelim/userbase/internal/types"
)

// RegisterUser creates an account plus its email credential. Both
// writes run inside the caller's transaction scope: if the credential
// insert fails, the user row does not survive.
type RegisterUser struct {
	logger *slog.Logger
}

func NewRegisterUser(logger *slog.Logger) *RegisterUser {
	return &RegisterUser{logger: logger}
}

func (u *RegisterUser) Descriptor() Descriptor {
	return Descriptor{Name: "RegisterUser", Kind: KindWrite, Visibility: VisibilityPublic}
}

func (u *RegisterUser) Execute(ctx context.Context, rc *Context, repos *repository.Bundle, cmd RegisterCommand) (*types.UserProfile, error) {
	ctx, span := otel.Tracer("usecase").Start(ctx, "RegisterUser")
	defer span.End()

	l := u.logger.With(slog.String("method", "RegisterUser"), slog.String("req_id", rc.RequestID))

	if err := u.Descriptor().RequireIdentity(rc); err != nil {
		return nil, err
	}

	if result := cmd.Validate(); !result.Valid {
		return nil, types.NewValidationDomainError(result)
	}

	email := cmd.NormalizedEmail()
	existing, err := repos.Users.FindByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "email lookup failed")
		return nil, fmt.Errorf("checking existing email: %w", err)
	}
	if existing != nil {
		return nil, types.NewConflictError("Email is already registered")
	}

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

	created, err := repos.Users.Create(ctx, candidate)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	hashedPassword := string(hashed)

	auth := &types.UserAuthentication{
		UserID:         created.ID,
		Provider:       types.ProviderEmail,
		ProviderID:     email,
		HashedPassword: &hashedPassword,
		IsActive:       true,
	}
	if result := auth.Validate(); !result.Valid {
		return nil, types.NewValidationDomainError(result)
	}
	if _, err := repos.Authentications.Create(ctx, auth); err != nil {
		span.RecordError(err)
		return nil, err
	}

	l.InfoContext(ctx, "User registered", slog.String("userID", created.ID.String()))
	profile := types.NewUserProfile(created)
	return &profile, nil
}
