package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmelim/userbase/internal/repository"
	"github.com/dmelim/userbase/internal/types"
)

// LoginResult is what a successful credential check hands back. Tokens
// are a boundary side effect layered on top, not part of this result.
type LoginResult struct {
	User    types.UserProfile `json:"user"`
	Message string            `json:"message"`
}

// LoginUser checks email-provider credentials. Classified as a write
// for routing because attempts are logged and throttled, not because it
// mutates persisted state.
type LoginUser struct {
	logger *slog.Logger
}

func NewLoginUser(logger *slog.Logger) *LoginUser {
	return &LoginUser{logger: logger}
}

func (u *LoginUser) Descriptor() Descriptor {
	return Descriptor{Name: "LoginUser", Kind: KindWrite, Visibility: VisibilityPublic}
}

func (u *LoginUser) Execute(ctx context.Context, rc *Context, repos *repository.Bundle, cmd LoginCommand) (*LoginResult, error) {
	ctx, span := otel.Tracer("usecase").Start(ctx, "LoginUser")
	defer span.End()

	l := u.logger.With(slog.String("method", "LoginUser"), slog.String("req_id", rc.RequestID))

	if err := u.Descriptor().RequireIdentity(rc); err != nil {
		return nil, err
	}

	if result := cmd.Validate(); !result.Valid {
		return nil, types.NewValidationDomainError(result)
	}

	found, err := repos.Authentications.FindUserWithAuthentication(ctx, cmd.NormalizedEmail(), types.ProviderEmail)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("fetching user with authentication: %w", err)
	}

	// Every rejection path returns the same wording so responses cannot
	// be used to enumerate accounts.
	if found == nil {
		return nil, types.NewAuthenticationError("Invalid email or password")
	}
	if !found.User.IsActive || !found.Authentication.IsActive {
		l.WarnContext(ctx, "Login rejected for inactive account", slog.String("userID", found.User.ID.String()))
		return nil, types.NewAuthenticationError("Invalid email or password")
	}
	if found.Authentication.HashedPassword == nil {
		return nil, types.NewAuthenticationError("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*found.Authentication.HashedPassword), []byte(cmd.Password)); err != nil {
		return nil, types.NewAuthenticationError("Invalid email or password")
	}

	l.InfoContext(ctx, "Login successful", slog.String("userID", found.User.ID.String()))
	return &LoginResult{
		User:    types.NewUserProfile(&found.User),
		Message: "Login successful",
	}, nil
}
