package auth

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dmelim/userbase/app/tracer"
	"github.com/dmelim/userbase/internal/api"
	"github.com/dmelim/userbase/internal/repository"
	"github.com/dmelim/userbase/internal/types"
	"github.com/dmelim/userbase/internal/usecase"
)

// AuthHandler fronts the account lifecycle use cases. It owns the
// boundary-only concerns: decoding, token issuance, throttling and
// the translation of domain errors to HTTP.
type AuthHandler struct {
	logger   *slog.Logger
	tx       repository.TxManager
	issuer   *TokenIssuer
	throttle *LoginThrottle
	metrics  *tracer.AppMetrics

	register *usecase.RegisterUser
	login    *usecase.LoginUser
	profile  *usecase.GetUserProfile
	external *usecase.AuthenticateExternal
}

func NewAuthHandler(
	logger *slog.Logger,
	tx repository.TxManager,
	issuer *TokenIssuer,
	throttle *LoginThrottle,
	metrics *tracer.AppMetrics,
	register *usecase.RegisterUser,
	login *usecase.LoginUser,
	profile *usecase.GetUserProfile,
	external *usecase.AuthenticateExternal,
) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		tx:       tx,
		issuer:   issuer,
		throttle: throttle,
		metrics:  metrics,
		register: register,
		login:    login,
		profile:  profile,
		external: external,
	}
}

// Routes lists every endpoint this handler serves, paired with the
// descriptor of the use case behind it.
func (h *AuthHandler) Routes() []api.Route {
	return []api.Route{
		{Pattern: "/auth/register", Handler: h.Register, Descriptor: h.register.Descriptor()},
		{Pattern: "/auth/login", Handler: h.Login, Descriptor: h.login.Descriptor()},
		{Pattern: "/auth/refresh", Handler: h.Refresh, Descriptor: usecase.Descriptor{
			Name: "RefreshSession", Kind: usecase.KindWrite, Visibility: usecase.VisibilityPublic,
		}},
		{Pattern: "/auth/logout", Handler: h.Logout, Descriptor: usecase.Descriptor{
			Name: "Logout", Kind: usecase.KindWrite, Visibility: usecase.VisibilityPrivate,
		}},
		{Pattern: "/auth/{provider}", Handler: h.SocialBegin, Method: http.MethodGet, Descriptor: h.external.Descriptor()},
		{Pattern: "/auth/{provider}/callback", Handler: h.SocialCallback, Method: http.MethodGet, Descriptor: h.external.Descriptor()},
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))

	var cmd usecase.RegisterCommand
	if err := api.DecodeJSONBody(w, r, &cmd); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, types.CodeValidation, err.Error())
		return
	}

	rc := api.NewUseCaseContext(r, h.logger)
	start := time.Now()
	var profile *types.UserProfile
	err := h.tx.Transactionally(ctx, func(ctx context.Context, repos *repository.Bundle) error {
		var execErr error
		profile, execErr = h.register.Execute(ctx, rc, repos, cmd)
		return execErr
	})
	h.metrics.RegisterRequestsTotal.Add(ctx, 1)
	h.metrics.UseCaseDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		api.DomainErrorResponse(w, r, l, err)
		return
	}

	access, refresh, err := h.issuer.IssuePair(profile.ID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue token pair", slog.Any("error", err))
		api.DomainErrorResponse(w, r, l, err)
		return
	}

	l.InfoContext(ctx, "User registered", slog.String("user_id", profile.ID.String()))
	api.WriteJSONResponse(w, r, http.StatusCreated, AuthResponse{
		User:         *profile,
		AccessToken:  access,
		RefreshToken: refresh,
		Message:      "User registered successfully",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	clientKey := clientAddr(r)
	if !h.throttle.Allow(clientKey) {
		l.WarnContext(ctx, "Login throttled", slog.String("client", clientKey))
		api.ErrorResponse(w, r, http.StatusTooManyRequests, types.CodeAuthentication, "Too many failed login attempts, try again later")
		return
	}

	var cmd usecase.LoginCommand
	if err := api.DecodeJSONBody(w, r, &cmd); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, types.CodeValidation, err.Error())
		return
	}

	rc := api.NewUseCaseContext(r, h.logger)
	start := time.Now()
	var result *usecase.LoginResult
	err := h.tx.Transactionally(ctx, func(ctx context.Context, repos *repository.Bundle) error {
		var execErr error
		result, execErr = h.login.Execute(ctx, rc, repos, cmd)
		return execErr
	})
	h.metrics.LoginAttemptsTotal.Add(ctx, 1)
	h.metrics.UseCaseDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		h.metrics.LoginFailuresTotal.Add(ctx, 1)
		h.throttle.RecordFailure(clientKey)
		api.DomainErrorResponse(w, r, l, err)
		return
	}
	h.throttle.Reset(clientKey)

	access, refresh, err := h.issuer.IssuePair(result.User.ID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue token pair", slog.Any("error", err))
		api.DomainErrorResponse(w, r, l, err)
		return
	}

	l.InfoContext(ctx, "User logged in", slog.String("user_id", result.User.ID.String()))
	api.WriteJSONResponse(w, r, http.StatusOK, AuthResponse{
		User:         result.User,
		AccessToken:  access,
		RefreshToken: refresh,
		Message:      result.Message,
	})
}

// Refresh exchanges a valid refresh token for a new pair. The token is
// verified here; the profile use case then re-checks that the account
// still exists and is active before anything is issued.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Refresh"))

	var req RefreshRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, types.CodeValidation, err.Error())
		return
	}

	userID, err := h.issuer.ParseRefresh(req.RefreshToken)
	if err != nil {
		l.WarnContext(ctx, "Refresh token rejected", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusUnauthorized, types.CodeAuthentication, "Invalid or expired refresh token")
		return
	}

	rc := api.NewUseCaseContext(r, h.logger)
	rc.UserID = userID

	var profile *types.UserProfile
	err = h.tx.Transactionally(ctx, func(ctx context.Context, repos *repository.Bundle) error {
		var execErr error
		profile, execErr = h.profile.Execute(ctx, rc, repos, usecase.GetProfileQuery{UserID: userID})
		return execErr
	})
	if err != nil {
		api.DomainErrorResponse(w, r, l, err)
		return
	}

	access, refresh, err := h.issuer.IssuePair(profile.ID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue token pair", slog.Any("error", err))
		api.DomainErrorResponse(w, r, l, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, AuthResponse{
		User:         *profile,
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// Logout exists so clients have a uniform sign-out call. Tokens are
// stateless, so there is nothing to revoke server side; clients drop
// their copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// clientAddr keys the login throttle. RealIP middleware has already
// rewritten RemoteAddr when forwarding headers are present.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
