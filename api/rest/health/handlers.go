package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	serviceName = "whb-prompts"
	version     = "1.0.0"
)

// Handler godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Router /health [get]
func Handler(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Status:  "healthy",
		Service: serviceName,
		Version: version,
	})
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{
		Message: "pong",
	})
}

// TestHandler godoc
// @Summary Deployment smoke test
// @Description Reports whether the relay is up and has a model API key configured
// @Tags health
// @Produce json
// @Success 200 {object} TestResponse
// @Router /api/test [get]
func TestHandler(keyExists bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, TestResponse{
			Message:   "WHB Prompts API ready",
			App:       "WHB Prompts App",
			KeyExists: keyExists,
		})
	}
}
