package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmelim/userbase/internal/api"
	"github.com/dmelim/userbase/internal/types"
)

// Authenticate validates the bearer access token and attaches the
// resolved user id to the request context. The core never parses
// tokens; this is the only place identity enters the pipeline.
func Authenticate(logger *slog.Logger, issuer *TokenIssuer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				api.ErrorResponse(w, r, http.StatusUnauthorized, types.CodeAuthentication, "Authorization header required")
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
				api.ErrorResponse(w, r, http.StatusUnauthorized, types.CodeAuthentication, "Authorization header format must be Bearer {token}")
				return
			}

			userID, err := issuer.ParseAccess(headerParts[1])
			if err != nil {
				l.WarnContext(ctx, "Token validation failed", slog.Any("error", err))
				errMsg := "Invalid or expired token"
				if errors.Is(err, jwt.ErrTokenExpired) {
					errMsg = "Token has expired"
				} else if errors.Is(err, jwt.ErrTokenMalformed) {
					errMsg = "Malformed token"
				}
				api.ErrorResponse(w, r, http.StatusUnauthorized, types.CodeAuthentication, errMsg)
				return
			}

			next.ServeHTTP(w, r.WithContext(api.WithUserID(ctx, userID)))
		})
	}
}
