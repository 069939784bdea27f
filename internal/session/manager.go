package session

import (
	"context"
	"log"
	"sync"

	"deliveryPortal/internal/api"
	"deliveryPortal/models"
)

// Manager owns the portal's single active session. Login installs the bearer
// token on the API client; Logout and Invalidate remove it. All methods are
// safe for concurrent use.
type Manager struct {
	client *api.Client
	secret string

	mu       sync.RWMutex
	current  *Session
	onChange func(*Session)
}

// NewManager wires a manager to the API client. The manager registers itself
// as the client's 401 hook so any unauthorized response, from any caller,
// tears the session down uniformly.
func NewManager(client *api.Client, secret string) *Manager {
	m := &Manager{client: client, secret: secret}
	client.OnUnauthorized(m.Invalidate)
	return m
}

// OnChange registers a callback invoked with the new session after login or
// resume, and with nil after logout. Used to tie the socket connection's
// lifetime to the session's.
func (m *Manager) OnChange(fn func(*Session)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

func (m *Manager) notify(s *Session) {
	m.mu.RLock()
	fn := m.onChange
	m.mu.RUnlock()
	if fn != nil {
		fn(s)
	}
}

// Login authenticates against the backend and makes the resulting session
// current. The previous session, if any, is replaced wholesale.
func (m *Manager) Login(ctx context.Context, creds api.Credentials) (*Session, error) {
	res, err := m.client.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	s, err := sessionFromToken(res.Token, m.secret)
	if err != nil {
		return nil, err
	}
	// The user object is authoritative for display fields; the token is
	// authoritative for identity and expiry.
	if res.User.Name != "" {
		s = &Session{
			UserID:    s.UserID,
			Name:      res.User.Name,
			Role:      s.Role,
			Verified:  res.User.Verified || s.Verified,
			Token:     s.Token,
			ExpiresAt: s.ExpiresAt,
		}
	}

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	m.client.SetToken(s.Token)
	m.notify(s)
	return s, nil
}

// Resume restores a session from a previously issued token, e.g. after a
// portal restart. Fails for expired or malformed tokens.
func (m *Manager) Resume(token string) (*Session, error) {
	s, err := sessionFromToken(token, m.secret)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	m.client.SetToken(s.Token)
	m.notify(s)
	return s, nil
}

// Logout retires the current session and removes the token from the client.
func (m *Manager) Logout() {
	m.mu.Lock()
	had := m.current != nil
	m.current = nil
	m.mu.Unlock()
	m.client.ClearToken()
	if had {
		m.notify(nil)
	}
}

// Invalidate is Logout triggered by the backend (401). Logged separately so
// forced teardowns are visible in the portal log.
func (m *Manager) Invalidate() {
	m.mu.RLock()
	had := m.current != nil
	m.mu.RUnlock()
	if had {
		log.Printf("session: backend rejected the token, forcing logout")
	}
	m.Logout()
}

// Current returns the active session, or false when logged out or expired.
// An expired session is treated as absent; the caller redirects to login.
func (m *Manager) Current() (*Session, bool) {
	m.mu.RLock()
	s := m.current
	m.mu.RUnlock()
	if s == nil || s.Expired() {
		return nil, false
	}
	return s, true
}

// Role returns the active session's role, or "" when logged out.
func (m *Manager) Role() models.Role {
	if s, ok := m.Current(); ok {
		return s.Role
	}
	return ""
}
