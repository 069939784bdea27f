// Package session holds the portal's authenticated session. There is no
// global mutable auth state: Login and Logout produce and retire immutable
// Session values through the Manager, and everything that needs the current
// user receives a Session explicitly or reads it from a request context.
package session

import (
	"context"
	"time"

	"deliveryPortal/models"
)

// Session is an immutable snapshot of the authenticated user. A new value is
// created on login; the value is never mutated in place.
type Session struct {
	UserID   string
	Name     string
	Role     models.Role
	Verified bool
	Token    string
	// ExpiresAt is zero when the token carries no expiry claim.
	ExpiresAt time.Time
}

// Expired reports whether the session's token has expired.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

type sessionKey struct{}

// WithSession stores the session in a request context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext retrieves the session from a request context, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok
}
