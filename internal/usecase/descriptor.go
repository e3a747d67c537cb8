package usecase

import "github.com/dmelim/userbase/internal/types"

// Kind says whether a use case is a safe retrieval or a mutation. The
// router consults it when registering routes.
type Kind int

const (
	KindRead Kind = iota
	KindWrite
)

// Visibility says whether a use case may run unauthenticated.
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityPrivate
)

// Descriptor is the static routing contract a use case publishes. It is
// resolved once at route-registration time, never via reflection.
type Descriptor struct {
	Name       string
	Kind       Kind
	Visibility Visibility
}

// RequireIdentity is the first pipeline step: private use cases demand
// a resolved caller identity before anything else runs.
func (d Descriptor) RequireIdentity(rc *Context) error {
	if d.Visibility == VisibilityPrivate && !rc.Authenticated() {
		return types.NewAuthenticationError("Authentication required")
	}
	return nil
}
