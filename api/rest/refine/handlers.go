package refine

import (
	"net/http"
	"time"

	"codeberg.org/whbprompts/server/internal/errors"
	"codeberg.org/whbprompts/server/internal/llm"
	"codeberg.org/whbprompts/server/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Handler godoc
// @Summary Refine a generated prompt
// @Description Rewrites an existing prompt following a short instruction, keeping its formatting
// @Tags generate
// @Accept json
// @Produce json
// @Param request body Request true "Prompt and instruction"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/refine [post]
func Handler(refiner llm.Refiner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		start := time.Now()
		prompt, err := refiner.Refine(c.Request.Context(), req.Prompt, req.Instruction)
		metrics.ModelLatency.WithLabelValues("refine").Observe(time.Since(start).Seconds())
		metrics.PromptsRefinedTotal.WithLabelValues(metrics.Status(err)).Inc()

		if err != nil {
			errors.UpstreamError(c, "refinement failed", err)
			return
		}

		c.JSON(http.StatusOK, Response{Prompt: prompt})
	}
}
