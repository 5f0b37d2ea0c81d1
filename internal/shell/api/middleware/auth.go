// Package middleware provides HTTP middleware for the sandwich API.
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shorepound/TheSandwich/internal/core/auth"
)

// =============================================================================
// Session Resolver Interface
// =============================================================================

// SessionResolver resolves an opaque bearer token to a user id. The API's
// store-backed session adapter implements this interface.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (int64, error)
}

// =============================================================================
// Auth Middleware
// =============================================================================

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	// Resolver maps bearer tokens to user ids. If nil, every request is
	// treated as anonymous.
	Resolver SessionResolver

	// Logger for auth middleware logging.
	Logger *slog.Logger
}

// AuthMiddleware resolves the bearer credential (if any) and stores the
// resulting auth context in the request context. An invalid or expired token
// degrades to anonymous rather than rejecting the request: most of the API
// is usable without an account.
type AuthMiddleware struct {
	config AuthConfig
}

// NewAuthMiddleware creates a new auth middleware with the given config.
func NewAuthMiddleware(cfg AuthConfig) *AuthMiddleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &AuthMiddleware{config: cfg}
}

// Handler returns the middleware handler function.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authCtx := auth.Context{}

		if token := auth.BearerToken(r); token != "" && m.config.Resolver != nil {
			userID, err := m.config.Resolver.ResolveSession(r.Context(), token)
			if err != nil {
				m.config.Logger.Debug("bearer token did not resolve",
					"path", r.URL.Path, "error", err)
			} else {
				authCtx = auth.Context{UserID: userID, Authenticated: true}
			}
		}

		r = r.WithContext(auth.WithContext(r.Context(), authCtx))
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Require Auth Middleware
// =============================================================================

// RequireAuth rejects anonymous requests with 401. Must be used after
// AuthMiddleware.
func RequireAuth(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.FromContext(r.Context()).Authenticated {
				logger.Warn("unauthenticated request to protected endpoint",
					"path", r.URL.Path, "method", r.Method)
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeJSONError writes a JSON error body.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
