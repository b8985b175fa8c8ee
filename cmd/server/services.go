package main

import (
	"codeberg.org/whbprompts/server/internal/config"
	"codeberg.org/whbprompts/server/internal/llm"
)

// creates and configures all service clients
func InitializeServices(cfg *config.Config) *Services {
	model := llm.NewGeminiClient(llm.ConfigFromEnv(cfg))

	return &Services{
		Model: model,
	}
}
