package user

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmelim/userbase/internal/api"
	"github.com/dmelim/userbase/internal/repository"
	"github.com/dmelim/userbase/internal/types"
	"github.com/dmelim/userbase/internal/usecase"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
)

// UserHandler fronts the profile, listing and deletion use cases.
type UserHandler struct {
	logger *slog.Logger
	tx     repository.TxManager

	profile    *usecase.GetUserProfile
	list       *usecase.ListAllUsers
	deleteUser *usecase.DeleteUser
}

func NewUserHandler(
	logger *slog.Logger,
	tx repository.TxManager,
	profile *usecase.GetUserProfile,
	list *usecase.ListAllUsers,
	deleteUser *usecase.DeleteUser,
) *UserHandler {
	return &UserHandler{
		logger:     logger,
		tx:         tx,
		profile:    profile,
		list:       list,
		deleteUser: deleteUser,
	}
}

func (h *UserHandler) Routes() []api.Route {
	return []api.Route{
		{Pattern: "/users/profile", Handler: h.Profile, Descriptor: h.profile.Descriptor()},
		{Pattern: "/users", Handler: h.List, Descriptor: h.list.Descriptor()},
		{Pattern: "/users/{userID}", Handler: h.Delete, Method: http.MethodDelete, Descriptor: h.deleteUser.Descriptor()},
	}
}

// Profile returns the caller's own profile. An explicit userId query
// parameter is accepted but the use case only honors it for the caller
// themselves.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Profile"))

	rc := api.NewUseCaseContext(r, h.logger)

	targetID := rc.UserID
	if raw := r.URL.Query().Get("userId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, types.CodeValidation, "userId must be a valid UUID")
			return
		}
		targetID = parsed
	}

	var profile *types.UserProfile
	err := h.tx.Transactionally(ctx, func(ctx context.Context, repos *repository.Bundle) error {
		var execErr error
		profile, execErr = h.profile.Execute(ctx, rc, repos, usecase.GetProfileQuery{UserID: targetID})
		return execErr
	})
	if err != nil {
		api.DomainErrorResponse(w, r, l, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}

// List returns a page of all users. Admin only; the use case enforces
// that.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "List"))

	query := usecase.ListUsersQuery{Page: defaultPage, PageSize: defaultPageSize}
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, types.CodeValidation, "page must be an integer")
			return
		}
		query.Page = parsed
	}
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, types.CodeValidation, "pageSize must be an integer")
			return
		}
		query.PageSize = parsed
	}

	rc := api.NewUseCaseContext(r, h.logger)

	var page *types.UserPage
	err := h.tx.Transactionally(ctx, func(ctx context.Context, repos *repository.Bundle) error {
		var execErr error
		page, execErr = h.list.Execute(ctx, rc, repos, query)
		return execErr
	})
	if err != nil {
		api.DomainErrorResponse(w, r, l, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, page)
}

// Delete removes the addressed user. Self-deletion or admin only.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Delete"))

	targetID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, types.CodeValidation, "userID must be a valid UUID")
		return
	}

	rc := api.NewUseCaseContext(r, h.logger)

	var result *usecase.DeleteUserResult
	err = h.tx.Transactionally(ctx, func(ctx context.Context, repos *repository.Bundle) error {
		var execErr error
		result, execErr = h.deleteUser.Execute(ctx, rc, repos, usecase.DeleteUserCommand{UserID: targetID})
		return execErr
	})
	if err != nil {
		api.DomainErrorResponse(w, r, l, err)
		return
	}

	l.InfoContext(ctx, "User deleted", slog.String("user_id", targetID.String()))
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}
