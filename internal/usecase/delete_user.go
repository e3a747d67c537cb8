package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmelim/userbase/internal/repository"
	"github.com/dmelim/userbase/internal/types"
)

// DeleteUserResult carries the static success message for a completed
// deletion.
type DeleteUserResult struct {
	Message string `json:"message"`
}

// DeleteUser removes a user and every credential it owns. Credentials
// go first so referential integrity holds at every point of the
// transaction.
type DeleteUser struct {
	logger *slog.Logger
}

func NewDeleteUser(logger *slog.Logger) *DeleteUser {
	return &DeleteUser{logger: logger}
}

func (u *DeleteUser) Descriptor() Descriptor {
	return Descriptor{Name: "DeleteUser", Kind: KindWrite, Visibility: VisibilityPrivate}
}

func (u *DeleteUser) Execute(ctx context.Context, rc *Context, repos *repository.Bundle, cmd DeleteUserCommand) (*DeleteUserResult, error) {
	l := u.logger.With(slog.String("method", "DeleteUser"), slog.String("req_id", rc.RequestID))

	if err := u.Descriptor().RequireIdentity(rc); err != nil {
		return nil, err
	}

	if result := cmd.Validate(); !result.Valid {
		return nil, types.NewValidationDomainError(result)
	}

	// Resolve the acting user first: a token for an already-deleted
	// account must not authorize anything.
	acting, err := repos.Users.FindByID(ctx, rc.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolving acting user: %w", err)
	}
	if acting == nil {
		return nil, types.NewAuthenticationError("Invalid user session")
	}

	if rc.UserID != cmd.UserID && !acting.IsAdmin {
		return nil, types.NewAuthorizationError("You do not have permission to delete this user")
	}

	target, err := repos.Users.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolving target user: %w", err)
	}
	if target == nil {
		return nil, types.NewNotFoundError("User not found")
	}

	removed, err := repos.Authentications.DeleteByUserID(ctx, target.ID)
	if err != nil {
		return nil, err
	}

	deleted, err := repos.Users.Delete(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, types.NewNotFoundError("User not found")
	}

	l.InfoContext(ctx, "User deleted",
		slog.String("userID", target.ID.String()),
		slog.Int64("authentications_removed", removed),
	)
	return &DeleteUserResult{Message: "User deleted successfully"}, nil
}
