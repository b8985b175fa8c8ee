package main

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/whbprompts/server/internal/config"
	"codeberg.org/whbprompts/server/internal/errors"
	"codeberg.org/whbprompts/server/internal/logger"
	"codeberg.org/whbprompts/server/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// how long startup waits for redis before limiting in memory
const redisPingTimeout = 5 * time.Second

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	limiterConfig := ratelimit.DefaultConfig()
	limiterConfig.Rate = cfg.RateLimit

	limiter, redisClient, err := newLimiter(cfg, limiterConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rate limiter: %w", err)
	}

	logger.Info("rate limiter initialized",
		"enabled", limiterConfig.Enabled,
		"rate", limiterConfig.Rate,
		"shared", redisClient != nil,
	)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Logger(), gin.CustomRecovery(func(c *gin.Context, recovered any) {
		errors.InternalError(c, "internal server error", fmt.Errorf("panic: %v", recovered))
		c.Abort()
	}))

	server := &Server{
		config:   cfg,
		services: InitializeServices(cfg),
		limiter:  limiter,
		redis:    redisClient,
		router:   router,
	}

	RegisterRoutes(router, server)

	return server, nil
}

// uses redis counters when REDIS_URL is set and reachable, memory otherwise
func newLimiter(cfg *config.Config, limiterConfig *ratelimit.Config) (*ratelimit.Limiter, *redis.Client, error) {
	if cfg.RedisURL == "" {
		limiter, err := ratelimit.NewMemoryLimiter(limiterConfig)
		return limiter, nil, err
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.ErrorErr(err, "redis unreachable, limiting in memory")
		client.Close() //nolint:errcheck,gosec // best-effort cleanup

		limiter, err := ratelimit.NewMemoryLimiter(limiterConfig)
		return limiter, nil, err
	}

	limiter, err := ratelimit.NewRedisLimiter(limiterConfig, client)
	if err != nil {
		client.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, nil, err
	}

	return limiter, client, nil
}

// releases connections held by the server
func (s *Server) Close() {
	if s.redis != nil {
		s.redis.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown
	}
}
