package config

import (
	"fmt"
	"os"
)

// Config holds all portal configuration.
type Config struct {
	Backend BackendConfig
	HTTP    HTTPConfig
	Cache   CacheConfig
	Auth    AuthConfig
}

// BackendConfig points at the delivery platform's services.
type BackendConfig struct {
	APIBaseURL string // REST base URL (e.g. "http://localhost:3000/api")
	SocketURL  string // realtime channel URL (e.g. "ws://localhost:3000/socket")
}

// HTTPConfig contains the portal's own listen settings.
type HTTPConfig struct {
	Address string // listen address (e.g. ":8080")
}

// CacheConfig contains local projection cache settings.
type CacheConfig struct {
	Path string // SQLite cache file path
}

// AuthConfig contains token verification settings.
type AuthConfig struct {
	// JWTSecret enables signature verification of backend tokens. Empty
	// means tokens are decoded without verification, which is acceptable
	// only when the portal talks to a trusted backend over a trusted link.
	JWTSecret string
}

// Load reads configuration from environment variables with sensible
// defaults for local development.
func Load() (*Config, error) {
	cfg := &Config{
		Backend: BackendConfig{
			APIBaseURL: getEnv("API_BASE_URL", "http://localhost:3000/api"),
			SocketURL:  getEnv("SOCKET_URL", "ws://localhost:3000/socket"),
		},
		HTTP: HTTPConfig{
			Address: getEnv("LISTEN_ADDRESS", ":8080"),
		},
		Cache: CacheConfig{
			Path: getEnv("CACHE_PATH", "portal-cache.db"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
	}
	if cfg.Backend.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL must not be empty")
	}
	return cfg, nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	secret := "(unset)"
	if c.Auth.JWTSecret != "" {
		secret = "*** (masked) ***"
	}
	return fmt.Sprintf("Config{API: %s, Socket: %s, Listen: %s, Cache: %s, JWT: %s}",
		c.Backend.APIBaseURL, c.Backend.SocketURL, c.HTTP.Address, c.Cache.Path, secret)
}
