// Package ratelimit throttles relay clients per IP address on top of
// ulule/limiter, keeping counters in memory or in redis.
package ratelimit

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"codeberg.org/whbprompts/server/internal/errors"
	"codeberg.org/whbprompts/server/internal/logger"
	"codeberg.org/whbprompts/server/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const storePrefix = "whb_limiter"

type Config struct {
	// whether limiting is active
	Enabled bool

	// formatted rate, e.g. "60-M" for 60 requests per minute
	Rate string

	// paths that bypass limiting (health checks, metrics)
	ExemptPaths []string
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:     true,
		Rate:        "60-M",
		ExemptPaths: []string{"/health", "/metrics", "/api/v1/ping"},
	}
}

type Limiter struct {
	config   *Config
	instance *limiter.Limiter
}

// keeps counters in process memory
func NewMemoryLimiter(cfg *Config) (*Limiter, error) {
	return newLimiter(cfg, memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          storePrefix,
		CleanUpInterval: time.Minute,
	}))
}

// shares counters between relay instances through redis
func NewRedisLimiter(cfg *Config, client *redis.Client) (*Limiter, error) {
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   storePrefix,
		MaxRetry: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis limiter store: %w", err)
	}

	return newLimiter(cfg, store)
}

func newLimiter(cfg *Config, store limiter.Store) (*Limiter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	rate, err := limiter.NewRateFromFormatted(cfg.Rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", cfg.Rate, err)
	}

	return &Limiter{
		config:   cfg,
		instance: limiter.New(store, rate),
	}, nil
}

// returns a Gin middleware enforcing the per-IP rate
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.config.Enabled || slices.Contains(l.config.ExemptPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		ip := c.ClientIP()

		result, err := l.instance.Get(c.Request.Context(), ip)
		if err != nil {
			// fail open on counter store errors
			logger.ErrorErr(err, "failed to check rate limit", "ip", ip)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.Reset, 10))

		if result.Reached {
			l.handleRateLimited(c, ip, result)
			return
		}

		c.Next()
	}
}

func (l *Limiter) handleRateLimited(c *gin.Context, ip string, result limiter.Context) {
	logger.Warn("rate limit exceeded", "ip", ip, "path", c.Request.URL.Path)
	metrics.RateLimitedTotal.Inc()

	retryAfter := max(result.Reset-time.Now().Unix(), 1)

	c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
	errors.TooManyRequests(c, "too many requests. please slow down.")
	c.Abort()
}
