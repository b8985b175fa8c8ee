package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// records request count and latency per route template
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// returns "ok" or "error" for outcome labels
func Status(err error) string {
	if err != nil {
		return "error"
	}

	return "ok"
}
