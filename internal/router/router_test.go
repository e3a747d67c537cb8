package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmelim/userbase/internal/api"
	"github.com/dmelim/userbase/internal/usecase"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func denyAll(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
}

func TestSetupRouter(t *testing.T) {
	r := SetupRouter(&Config{
		Routes: []api.Route{
			{Pattern: "/auth/login", Handler: okHandler, Descriptor: usecase.Descriptor{
				Name: "LoginUser", Kind: usecase.KindWrite, Visibility: usecase.VisibilityPublic,
			}},
			{Pattern: "/users", Handler: okHandler, Descriptor: usecase.Descriptor{
				Name: "ListAllUsers", Kind: usecase.KindRead, Visibility: usecase.VisibilityPrivate,
			}},
			{Pattern: "/users/{userID}", Handler: okHandler, Method: http.MethodDelete, Descriptor: usecase.Descriptor{
				Name: "DeleteUser", Kind: usecase.KindWrite, Visibility: usecase.VisibilityPrivate,
			}},
		},
		AuthenticateMiddleware: denyAll,
	})

	t.Run("Ping", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "pong", rec.Body.String())
	})

	t.Run("PublicRouteSkipsAuth", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("PrivateRouteGoesThroughAuth", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ReadRouteRejectsPost", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/users", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("DeleteOverrideRegistered", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/users/abc", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
