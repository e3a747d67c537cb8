package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/github"
	"github.com/markbates/goth/providers/google"

	"github.com/dmelim/userbase/internal/api"
	"github.com/dmelim/userbase/internal/repository"
	"github.com/dmelim/userbase/internal/types"
	"github.com/dmelim/userbase/internal/usecase"
)

// ConfigureProviders registers the OAuth providers that have
// credentials present in the environment. Providers without keys are
// simply not offered.
func ConfigureProviders(callbackBase string) {
	var providers []goth.Provider
	if key := os.Getenv("GOOGLE_KEY"); key != "" {
		providers = append(providers, google.New(key, os.Getenv("GOOGLE_SECRET"),
			fmt.Sprintf("%s/auth/google/callback", callbackBase)))
	}
	if key := os.Getenv("GITHUB_KEY"); key != "" {
		providers = append(providers, github.New(key, os.Getenv("GITHUB_SECRET"),
			fmt.Sprintf("%s/auth/github/callback", callbackBase)))
	}
	goth.UseProviders(providers...)
}

// SocialBegin redirects the browser to the provider's consent page.
func (h *AuthHandler) SocialBegin(w http.ResponseWriter, r *http.Request) {
	gothic.BeginAuthHandler(w, withProviderParam(r))
}

// SocialCallback completes the provider handshake and signs the
// verified identity in, provisioning an account on first contact.
func (h *AuthHandler) SocialCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "SocialCallback"))

	gothUser, err := gothic.CompleteUserAuth(w, withProviderParam(r))
	if err != nil {
		l.WarnContext(ctx, "Provider handshake failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusUnauthorized, types.CodeAuthentication, "Social sign-in could not be completed")
		return
	}

	cmd := usecase.ExternalIdentityCommand{
		Provider:   types.AuthProvider(gothUser.Provider),
		ProviderID: gothUser.UserID,
		Email:      gothUser.Email,
		FirstName:  gothUser.FirstName,
		LastName:   gothUser.LastName,
	}
	// Some providers only hand back a display name.
	if cmd.FirstName == "" && gothUser.Name != "" {
		parts := strings.SplitN(gothUser.Name, " ", 2)
		cmd.FirstName = parts[0]
		if len(parts) > 1 {
			cmd.LastName = parts[1]
		}
	}

	rc := api.NewUseCaseContext(r, h.logger)
	start := time.Now()
	var profile *types.UserProfile
	err = h.tx.Transactionally(ctx, func(ctx context.Context, repos *repository.Bundle) error {
		var execErr error
		profile, execErr = h.external.Execute(ctx, rc, repos, cmd)
		return execErr
	})
	h.metrics.LoginAttemptsTotal.Add(ctx, 1)
	h.metrics.UseCaseDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		h.metrics.LoginFailuresTotal.Add(ctx, 1)
		api.DomainErrorResponse(w, r, l, err)
		return
	}

	access, refresh, err := h.issuer.IssuePair(profile.ID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue token pair", slog.Any("error", err))
		api.DomainErrorResponse(w, r, l, err)
		return
	}

	l.InfoContext(ctx, "Social sign-in completed",
		slog.String("provider", gothUser.Provider),
		slog.String("user_id", profile.ID.String()),
	)
	api.WriteJSONResponse(w, r, http.StatusOK, AuthResponse{
		User:         *profile,
		AccessToken:  access,
		RefreshToken: refresh,
		Message:      "Login successful",
	})
}

// withProviderParam exposes the chi route parameter where gothic looks
// for the provider name.
func withProviderParam(r *http.Request) *http.Request {
	return gothic.GetContextWithProvider(r, chi.URLParam(r, "provider"))
}
