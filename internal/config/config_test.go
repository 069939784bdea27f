package config

import (
	"os"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Ensure envs are clean to use defaults
	os.Unsetenv("API_BASE_URL")
	os.Unsetenv("SOCKET_URL")
	os.Unsetenv("LISTEN_ADDRESS")
	os.Unsetenv("CACHE_PATH")
	os.Unsetenv("JWT_SECRET")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.APIBaseURL == "" || cfg.Backend.SocketURL == "" || cfg.HTTP.Address == "" || cfg.Cache.Path == "" {
		t.Fatalf("unexpected empty defaults: %+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.bj/api")
	t.Setenv("LISTEN_ADDRESS", ":9090")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.APIBaseURL != "https://api.example.bj/api" {
		t.Errorf("APIBaseURL = %s", cfg.Backend.APIBaseURL)
	}
	if cfg.HTTP.Address != ":9090" {
		t.Errorf("Address = %s", cfg.HTTP.Address)
	}
}

func TestString_MasksSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "super-secret-value")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s := cfg.String(); strings.Contains(s, "super-secret-value") {
		t.Errorf("secret leaked in String(): %s", s)
	}
}
