package api

import (
	"net/http"

	"github.com/dmelim/userbase/internal/usecase"
)

// Route pairs a handler with the descriptor of the use case it fronts.
// The router resolves method and middleware from the descriptor once,
// at registration time.
type Route struct {
	Pattern    string
	Method     string // overrides the kind-derived default when set
	Handler    http.HandlerFunc
	Descriptor usecase.Descriptor
}

// ResolveMethod derives the HTTP verb from the use-case kind unless the
// route overrides it (DELETE semantics, for example).
func (rt Route) ResolveMethod() string {
	if rt.Method != "" {
		return rt.Method
	}
	if rt.Descriptor.Kind == usecase.KindRead {
		return http.MethodGet
	}
	return http.MethodPost
}
