package config

import (
	"os"
	"time"

	// Autoload .env so local runs pick up credentials without exporting
	_ "github.com/joho/godotenv/autoload"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	AppBaseURL      string
	SessionDuration time.Duration

	// Database: sqlite by default, postgres/mysql via DB_TYPE + DB_URL
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	// TMDB metadata collaborator
	TMDBAPIKey       string
	PoolSnapshotPath string
	PosterCacheDir   string

	// Share email (SES); empty from-address disables sending
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	EmailDebug   bool

	// Admin endpoint guard: bcrypt hash of the operator token
	AdminTokenHash string

	// OAuth account sync
	GoogleClientID       string
	GoogleClientSecret   string
	FacebookClientID     string
	FacebookClientSecret string
	AppleClientID        string
	AppleClientSecret    string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		AppBaseURL:      getEnv("APP_BASE_URL", "http://localhost:8080"),
		SessionDuration: 365 * 24 * time.Hour,

		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./cinephile.db"),
		DatabaseURL:    getEnv("DB_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		TMDBAPIKey:       getEnv("TMDB_API_KEY", ""),
		PoolSnapshotPath: getEnv("POOL_SNAPSHOT_PATH", ""),
		PosterCacheDir:   getEnv("POSTER_CACHE_DIR", "./static/posters"),

		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "Cinephile"),
		EmailDebug:   getEnv("EMAIL_DEBUG", "") == "true",

		AdminTokenHash: getEnv("ADMIN_TOKEN_HASH", ""),

		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		FacebookClientID:     getEnv("FACEBOOK_CLIENT_ID", ""),
		FacebookClientSecret: getEnv("FACEBOOK_CLIENT_SECRET", ""),
		AppleClientID:        getEnv("APPLE_CLIENT_ID", ""),
		AppleClientSecret:    getEnv("APPLE_CLIENT_SECRET", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
