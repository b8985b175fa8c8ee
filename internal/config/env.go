package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultGeminiModel = "gemini-1.5-flash"
	defaultRefineModel = "gemini-3-flash-preview"
	defaultPort        = "8080"
	defaultRateLimit   = "60-M"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	return &Config{
		GeminiAPIKey: apiKey,
		GeminiModel:  getenv("GEMINI_MODEL", defaultGeminiModel),
		RefineModel:  getenv("REFINE_MODEL", defaultRefineModel),
		Port:         getenv("PORT", defaultPort),
		RedisURL:     os.Getenv("REDIS_URL"),
		RateLimit:    getenv("RATE_LIMIT", defaultRateLimit),
		Environment:  getenv("ENVIRONMENT", "development"),
	}, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
