package testutil

import (
	"database/sql"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"deliveryPortal/internal/db"
)

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// Caller is responsible for closing the DB, typically via t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	// Shared cache so multiple connections in one test see the same DB.
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// GenerateToken returns a signed HS256 JWT with the claims the backend puts
// in its access tokens.
func GenerateToken(t *testing.T, secret, id, name, role string, verified bool, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"id":       id,
		"name":     name,
		"role":     role,
		"verified": verified,
	}
	if expiresIn != 0 {
		claims["exp"] = time.Now().Add(expiresIn).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}
