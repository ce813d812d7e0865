package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	SessionJWTSecret    string
	SessionExpiry       time.Duration
	FirebaseCredentials string
	FirebaseProjectID   string
	StorageBucket       string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	sessionExpiry := 168 * time.Hour // 7 days
	if exp := os.Getenv("SESSION_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			sessionExpiry = parsed
		}
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		SessionJWTSecret:    getEnv("SESSION_JWT_SECRET", "your-secret-key-change-in-production"),
		SessionExpiry:       sessionExpiry,
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		FirebaseProjectID:   getEnv("FIREBASE_PROJECT_ID", ""),
		StorageBucket:       getEnv("STORAGE_BUCKET", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
