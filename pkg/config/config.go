package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once in main and passed by reference into every component.
// Nothing outside this package reads environment variables directly.
type Config struct {
	Port      string
	JWTSecret string
	// ServiceKey authenticates trusted internal callers (e.g. the ingest
	// pipeline invoking classification on behalf of a user).
	ServiceKey string

	DatabaseURL string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleProjectID    string
	GooglePubSubTopic  string
	GoogleCredentials  string
	// GoogleTokenURL is the OAuth token endpoint. Overridable for tests.
	GoogleTokenURL string

	OpenAIAPIKey string
	OpenAIModel  string

	// TokenRefreshMargin: refresh access tokens this long before expiry.
	TokenRefreshMargin time.Duration

	LogLevel string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8080"),
		JWTSecret:          getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		ServiceKey:         getEnv("SERVICE_KEY", ""),
		DatabaseURL:        getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=ghostinbox port=5432 sslmode=disable"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleProjectID:    getEnv("GOOGLE_PROJECT_ID", ""),
		GooglePubSubTopic:  getEnv("GOOGLE_PUBSUB_TOPIC", "gmail-updates"),
		GoogleCredentials:  getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		GoogleTokenURL:     getEnv("GOOGLE_TOKEN_URL", "https://oauth2.googleapis.com/token"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o"),
		TokenRefreshMargin: 60 * time.Second,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
