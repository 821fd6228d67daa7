package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	Environment    string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	// CORSOrigins is the list of allowed origins; "*" allows any.
	CORSOrigins []string

	// RecencyWindowDays is how far back the challenge selector looks when
	// avoiding templates a child completed recently.
	RecencyWindowDays int

	// Weekly digest email (disabled when either address is empty).
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	DigestEmail  string
}

// Load reads configuration from the environment with sensible defaults.
// A .env file in the working directory is applied first if present.
func Load() *Config {
	// Missing .env is fine; real environments set variables directly
	_ = godotenv.Load()

	return &Config{
		ServerPort:        getEnv("PORT", "8080"),
		Environment:       getEnv("GO_ENV", "development"),
		DatabaseType:      getEnv("DB_TYPE", "sqlite"),
		DatabasePath:      getEnv("DB_PATH", "./screenbreak.db"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", "./migrations"),
		CORSOrigins:       splitAndTrim(getEnv("CORS_ORIGINS", "*")),
		RecencyWindowDays: getEnvInt("RECENCY_WINDOW_DAYS", 7),
		AWSRegion:         getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "ScreenBreak"),
		DigestEmail:       getEnv("DIGEST_EMAIL", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

// splitAndTrim splits a comma-separated list and trims whitespace
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
