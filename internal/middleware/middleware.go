package middleware

import (
	"net/http"
	"time"

	"bloghub/internal/auth"
	"bloghub/internal/logutil"
	"bloghub/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Middleware func(http.Handler) http.Handler

const RequestIDHeader = "X-Request-ID"

// AuthMiddleware resolves the session cookie into an auth.Identity on the
// request context. It never writes a response; routes decide what to do with
// an anonymous caller.
func AuthMiddleware(authService service.AuthService, cookies *auth.CookieManager) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := auth.Anonymous()
			if token, ok := cookies.Read(r); ok {
				identity = authService.Resolve(r.Context(), token, time.Now())
			}

			ctx := auth.WithIdentity(r.Context(), identity)
			if identity.IsAuthenticated() {
				logger := logutil.GetOrDefault(ctx).With().Str("user_id", identity.UserID()).Logger()
				ctx = logutil.WithLogger(ctx, logger)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func redirectTarget(d auth.Decision) string {
	switch d {
	case auth.RedirectInSession:
		return "/profile"
	case auth.RedirectLogin:
		return "/login"
	case auth.RedirectForbidden:
		return "/not-admin"
	}
	return ""
}

// Authorize applies a route policy to the identity left by AuthMiddleware.
func Authorize(policy auth.Policy) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := auth.Decide(policy, auth.IdentityFrom(r.Context()))
			if decision != auth.Proceed {
				http.Redirect(w, r, redirectTarget(decision), http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		logger := log.Logger.With().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(logutil.WithLogger(r.Context(), logger)))

		logger.Info().
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// Chain wraps h so that the first middleware is the innermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
