package session

import (
	"errors"
	"fmt"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"

	"deliveryPortal/models"
)

// claims is the shape of the backend's access tokens.
type claims struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Verified bool   `json:"verified"`
	jwt.RegisteredClaims
}

// sessionFromToken decodes a backend-issued JWT into a Session. With a
// non-empty secret the HS256 signature is verified; with an empty secret the
// token is only decoded, since the backend is the issuer and the portal just
// needs role and expiry out of it.
func sessionFromToken(token, secret string) (*Session, error) {
	var c claims
	if secret != "" {
		tok, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil {
			return nil, fmt.Errorf("parse token: %w", err)
		}
		if !tok.Valid {
			return nil, errors.New("invalid token")
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
			return nil, fmt.Errorf("decode token: %w", err)
		}
	}

	userID := c.ID
	if userID == "" {
		userID = c.Subject
	}
	role := models.NormalizeRole(c.Role)
	if userID == "" || !role.Valid() {
		return nil, errors.New("token missing id or role claim")
	}

	s := &Session{
		UserID:   userID,
		Name:     strings.TrimSpace(c.Name),
		Role:     role,
		Verified: c.Verified,
		Token:    token,
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	if s.Expired() {
		return nil, errors.New("token expired")
	}
	return s, nil
}
