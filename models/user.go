package models

import "strings"

// Role identifies which dashboard a user belongs to.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleClient  Role = "client"
	RoleLivreur Role = "livreur"
)

// NormalizeRole maps a raw role string to its canonical lowercase form.
// Unknown roles come back as-is (lowercased) so callers can log them.
func NormalizeRole(raw string) Role {
	return Role(strings.ToLower(strings.TrimSpace(raw)))
}

// Valid reports whether the role is one of the three the portal serves.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient || r == RoleLivreur
}

// User represents an account on the delivery platform. Accounts are owned by
// the backend; the portal only renders them.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  Role   `json:"role"`
	// Verified applies to livreurs only: an unverified livreur cannot be
	// assigned orders.
	Verified bool `json:"verified,omitempty"`
	Active   bool `json:"active"`
}
