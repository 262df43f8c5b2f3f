package middleware

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"bloghub/internal/auth"
	"bloghub/internal/config"
	"bloghub/internal/logutil"
	"bloghub/internal/models"
	"bloghub/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/steinfletcher/apitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	service.AuthService
	mock.Mock
}

func (m *MockAuthService) Resolve(ctx context.Context, token string, now time.Time) auth.Identity {
	args := m.Called(token)
	return args.Get(0).(auth.Identity)
}

var (
	regular = auth.Authenticated(&models.User{UserID: "u1", FirstName: "Ada"}, nil)
	admin   = auth.Authenticated(&models.User{UserID: "a1", FirstName: "Grace", IsAdmin: true}, nil)
)

func withIdentity(id auth.Identity, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	})
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
})

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		policy   auth.Policy
		identity auth.Identity
		status   int
		location string
	}{
		{"Admin route, anonymous", auth.RequireAdmin, auth.Anonymous(), http.StatusFound, "/login"},
		{"Admin route, regular user", auth.RequireAdmin, regular, http.StatusFound, "/not-admin"},
		{"Admin route, admin", auth.RequireAdmin, admin, http.StatusOK, ""},
		{"Private route, anonymous", auth.RequireAuthenticated, auth.Anonymous(), http.StatusFound, "/login"},
		{"Private route, regular user", auth.RequireAuthenticated, regular, http.StatusOK, ""},
		{"Login page, in session", auth.RequireAnonymous, regular, http.StatusFound, "/profile"},
		{"Login page, anonymous", auth.RequireAnonymous, auth.Anonymous(), http.StatusOK, ""},
		{"Public page, anonymous", auth.Public, auth.Anonymous(), http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := withIdentity(tt.identity, Authorize(tt.policy)(okHandler))

			expect := apitest.New().
				Handler(handler).
				Get("/somewhere").
				Expect(t).
				Status(tt.status)
			if tt.location != "" {
				expect = expect.Header("Location", tt.location)
			} else {
				expect = expect.Body("ok")
			}
			expect.End()
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	cookies := auth.NewCookieManager(&config.Config{CookieTTL: time.Hour})

	seen := func(got *auth.Identity) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*got = auth.IdentityFrom(r.Context())
		})
	}

	t.Run("No cookie is anonymous without a lookup", func(t *testing.T) {
		svc := &MockAuthService{}
		var got auth.Identity

		apitest.New().
			Handler(AuthMiddleware(svc, cookies)(seen(&got))).
			Get("/").
			Expect(t).
			Status(http.StatusOK).
			End()

		assert.False(t, got.IsAuthenticated())
		svc.AssertNotCalled(t, "Resolve", mock.Anything)
	})

	t.Run("Logged out cookie is anonymous", func(t *testing.T) {
		svc := &MockAuthService{}
		var got auth.Identity

		apitest.New().
			Handler(AuthMiddleware(svc, cookies)(seen(&got))).
			Get("/").
			Cookie(auth.CookieName, "logout").
			Expect(t).
			Status(http.StatusOK).
			End()

		assert.False(t, got.IsAuthenticated())
		svc.AssertNotCalled(t, "Resolve", mock.Anything)
	})

	t.Run("Resolved identity reaches the handler", func(t *testing.T) {
		svc := &MockAuthService{}
		svc.On("Resolve", "token-1").Return(admin).Once()
		var got auth.Identity

		apitest.New().
			Handler(AuthMiddleware(svc, cookies)(seen(&got))).
			Get("/").
			Cookie(auth.CookieName, "token-1").
			Expect(t).
			Status(http.StatusOK).
			End()

		assert.True(t, got.IsAdmin())
		svc.AssertExpectations(t)
	})

	t.Run("Rejected token never blocks the request", func(t *testing.T) {
		svc := &MockAuthService{}
		svc.On("Resolve", "expired").Return(auth.Anonymous()).Once()

		apitest.New().
			Handler(AuthMiddleware(svc, cookies)(okHandler)).
			Get("/").
			Cookie(auth.CookieName, "expired").
			Expect(t).
			Status(http.StatusOK).
			Body("ok").
			End()
	})
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = previous })

	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logutil.GetOrDefault(r.Context())
		logger.Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	apitest.New().
		Handler(handler).
		Get("/brew").
		Header(RequestIDHeader, "req-42").
		Expect(t).
		Status(http.StatusTeapot).
		Header(RequestIDHeader, "req-42").
		End()

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-42"`)
	assert.Contains(t, out, `"message":"inside"`)
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"path":"/brew"`)
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	apitest.New().
		Handler(Chain(okHandler, mark("inner"), mark("outer"))).
		Get("/").
		Expect(t).
		Status(http.StatusOK).
		End()

	assert.Equal(t, []string{"outer", "inner"}, order)
}
