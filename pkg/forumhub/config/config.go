package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the server configuration. It is loaded once in main and
// passed explicitly to whatever needs it.
type Config struct {
	Port      string
	DBPath    string
	BaseURL   string
	JWTSecret string
}

// Load reads configuration from a .env file (if present) and the
// environment, falling back to development defaults.
func Load() *Config {
	// Missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	return &Config{
		Port:      getEnv("PORT", "8080"),
		DBPath:    getEnv("FORUMHUB_DB_PATH", "forumhub.db"),
		BaseURL:   getEnv("FORUMHUB_BASE_URL", "http://localhost:8080"),
		JWTSecret: getEnv("JWT_SECRET", ""),
	}
}

// getEnv returns the environment value for key, or defaultValue when unset.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
