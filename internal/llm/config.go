package llm

import (
	"time"

	"codeberg.org/whbprompts/server/internal/config"
)

const (
	defaultBaseURL           = "https://generativelanguage.googleapis.com"
	defaultModel             = "gemini-1.5-flash"
	defaultRefineTemperature = float32(0.7)
	defaultTimeout           = 60 * time.Second
)

type GeminiConfig struct {
	APIKey      string
	Model       string // image analysis, e.g. "gemini-1.5-flash"
	RefineModel string // prompt refinement; falls back to Model
	BaseURL     string // overridden in tests
}

// builds the client config from the server environment
func ConfigFromEnv(cfg *config.Config) GeminiConfig {
	return GeminiConfig{
		APIKey:      cfg.GeminiAPIKey,
		Model:       cfg.GeminiModel,
		RefineModel: cfg.RefineModel,
	}
}
