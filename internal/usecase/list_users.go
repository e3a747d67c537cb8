package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/dmelim/userbase/internal/repository"
	"github.com/dmelim/userbase/internal/types"
)

// ListAllUsers pages through every account. Active admins only; the
// message wording is load-bearing for clients.
type ListAllUsers struct {
	logger *slog.Logger
}

func NewListAllUsers(logger *slog.Logger) *ListAllUsers {
	return &ListAllUsers{logger: logger}
}

func (u *ListAllUsers) Descriptor() Descriptor {
	return Descriptor{Name: "ListAllUsers", Kind: KindRead, Visibility: VisibilityPrivate}
}

func (u *ListAllUsers) Execute(ctx context.Context, rc *Context, repos *repository.Bundle, query ListUsersQuery) (*types.UserPage, error) {
	ctx, span := otel.Tracer("usecase").Start(ctx, "ListAllUsers")
	defer span.End()

	if err := u.Descriptor().RequireIdentity(rc); err != nil {
		return nil, err
	}

	if result := query.Validate(); !result.Valid {
		return nil, types.NewValidationDomainError(result)
	}

	acting, err := repos.Users.FindByID(ctx, rc.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("resolving acting user: %w", err)
	}
	if acting == nil {
		return nil, types.NewAuthenticationError("Invalid user session")
	}
	if !acting.IsAdmin || !acting.IsActive {
		return nil, types.NewAuthorizationError("Admin privileges required")
	}

	page := types.PageRequest{Page: query.Page, PageSize: query.PageSize}
	users, total, err := repos.Users.FindMany(ctx, page)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	profiles := make([]types.UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, types.NewUserProfile(&users[i]))
	}

	u.logger.DebugContext(ctx, "Listed users",
		slog.String("req_id", rc.RequestID),
		slog.Int("count", len(profiles)),
		slog.Int("total", total),
	)
	return &types.UserPage{
		Users: profiles,
		Meta:  types.NewPageMeta(total, query.Page, query.PageSize),
	}, nil
}
