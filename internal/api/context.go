package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dmelim/userbase/internal/usecase"
)

type contextKey string

// UserIDKey carries the authenticated caller id set by the bearer-token
// middleware.
const UserIDKey contextKey = "userID"

// WithUserID attaches a resolved identity to the request context.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// UserIDFromContext returns the authenticated caller id, if any.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// NewUseCaseContext builds the per-request envelope handed to use
// cases: caller identity (uuid.Nil when unauthenticated), correlation
// id and request logger. One fresh instance per inbound request.
func NewUseCaseContext(r *http.Request, logger *slog.Logger) *usecase.Context {
	reqID := middleware.GetReqID(r.Context())
	rc := &usecase.Context{
		RequestID: reqID,
		Logger:    logger.With(slog.String("req_id", reqID)),
	}
	if userID, ok := UserIDFromContext(r.Context()); ok {
		rc.UserID = userID
	}
	return rc
}
