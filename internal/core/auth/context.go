// Package auth provides the per-request authentication context and the MFA
// code check used by the login flow.
package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const authContextKey contextKey = "auth"

// Context is the caller identity attached to a request. The bearer
// credential itself is opaque to the rest of the system: middleware resolves
// it to a user id (or anonymous) and everything downstream reads only this.
type Context struct {
	// UserID is the integer PK from the users table. Zero when anonymous.
	UserID int64

	// Authenticated indicates whether the request carried a valid session.
	Authenticated bool
}

// Owner returns the user id as an optional value for order ownership:
// nil when the caller is anonymous.
func (c Context) Owner() *int64 {
	if !c.Authenticated {
		return nil
	}
	id := c.UserID
	return &id
}

// BearerToken extracts the opaque token from an Authorization header.
// Returns "" when the header is absent or not a bearer scheme.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// WithContext stores the auth context in the request context.
func WithContext(ctx context.Context, authCtx Context) context.Context {
	return context.WithValue(ctx, authContextKey, authCtx)
}

// FromContext retrieves the auth context. Missing context means anonymous.
func FromContext(ctx context.Context) Context {
	if authCtx, ok := ctx.Value(authContextKey).(Context); ok {
		return authCtx
	}
	return Context{}
}
