// Package usecase holds the stateless command/query handlers at the
// center of the application. Every handler runs the same pipeline:
// visibility gate, command validation, entity resolution,
// authorization, entity validation, repository writes, explicit DTO
// mapping. Failures surface as *types.DomainError and abort the whole
// operation; the surrounding transaction rolls back.
package usecase

import (
	"log/slog"

	"github.com/google/uuid"
)

// Context is the per-request envelope handed to every use case. The
// boundary builds a fresh one per inbound request; UserID stays
// uuid.Nil until the authentication middleware resolves an identity.
type Context struct {
	UserID    uuid.UUID
	RequestID string
	Logger    *slog.Logger
}

// Authenticated reports whether a caller identity has been attached.
func (c *Context) Authenticated() bool {
	return c.UserID != uuid.Nil
}

// Log returns the request logger, falling back to the process default
// so use cases never nil-check.
func (c *Context) Log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
