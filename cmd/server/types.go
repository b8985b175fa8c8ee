package main

import (
	"codeberg.org/whbprompts/server/internal/config"
	"codeberg.org/whbprompts/server/internal/llm"
	"codeberg.org/whbprompts/server/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// holds all dependencies and state for the API server
type Server struct {
	config   *config.Config
	services *Services
	limiter  *ratelimit.Limiter
	redis    *redis.Client // nil when limiting in memory
	router   *gin.Engine
}

// holds all external service clients
type Services struct {
	Model llm.PromptModel
}
