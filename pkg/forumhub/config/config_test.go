package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "FORUMHUB_DB_PATH", "FORUMHUB_BASE_URL", "JWT_SECRET"} {
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.DBPath != "forumhub.db" {
		t.Errorf("Expected default DB path forumhub.db, got %s", cfg.DBPath)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("Expected default base URL, got %s", cfg.BaseURL)
	}
	if cfg.JWTSecret != "" {
		t.Errorf("Expected empty JWT secret by default, got %s", cfg.JWTSecret)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FORUMHUB_DB_PATH", "/tmp/test.db")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("Expected DB path /tmp/test.db, got %s", cfg.DBPath)
	}
	if cfg.JWTSecret != "env-secret" {
		t.Errorf("Expected JWT secret from environment, got %s", cfg.JWTSecret)
	}
}
