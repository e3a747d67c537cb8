package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/dmelim/userbase/internal/api"
	"github.com/dmelim/userbase/internal/usecase"
)

// Config carries the route tables and the auth middleware the router
// wires together.
type Config struct {
	Routes                 []api.Route
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter builds the API router. Routes are split into the public
// and the protected group by their descriptor's visibility, resolved
// once at registration time, never per request.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	var public, protected []api.Route
	for _, rt := range cfg.Routes {
		if rt.Descriptor.Visibility == usecase.VisibilityPrivate {
			protected = append(protected, rt)
		} else {
			public = append(public, rt)
		}
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			for _, rt := range public {
				r.Method(rt.ResolveMethod(), rt.Pattern, rt.Handler)
			}
		})

		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)
			for _, rt := range protected {
				r.Method(rt.ResolveMethod(), rt.Pattern, rt.Handler)
			}
		})
	})

	return r
}
