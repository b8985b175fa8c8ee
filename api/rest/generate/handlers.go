package generate

import (
	"net/http"
	"time"

	"codeberg.org/whbprompts/server/internal/errors"
	"codeberg.org/whbprompts/server/internal/gateway"
	"codeberg.org/whbprompts/server/internal/logger"
	"codeberg.org/whbprompts/server/internal/metrics"
	"github.com/gin-gonic/gin"
)

// upper bound for a base64 image body
const maxBodyBytes = 20 << 20

// Handler godoc
// @Summary Generate an art prompt from an image
// @Description Describes the uploaded reference image as a prompt for Midjourney, Stable Diffusion or general use
// @Tags generate
// @Accept json
// @Produce json
// @Param request body Request true "Image and prompt options"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Failure 504 {object} errors.ErrorResponse
// @Router /api/generate [post]
func Handler(model gateway.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		if req.Image == "" {
			errors.BadRequest(c, "No image provided", nil)
			return
		}

		image, err := gateway.ImageFromDataURL(req.Image)
		if err != nil {
			errors.BadRequest(c, "invalid image", err)
			return
		}

		start := time.Now()
		prompt, err := model.Generate(c.Request.Context(), image, req.Options)
		metrics.ModelLatency.WithLabelValues("generate").Observe(time.Since(start).Seconds())
		metrics.PromptsGeneratedTotal.WithLabelValues(metrics.Status(err)).Inc()

		if err != nil {
			errors.UpstreamError(c, "generation failed", err)
			return
		}

		logger.Debug("prompt generated",
			"mime_type", image.MIMEType,
			"image_bytes", len(image.Data),
			"prompt_chars", len(prompt),
			"duration", time.Since(start),
		)

		c.JSON(http.StatusOK, Response{Prompt: prompt})
	}
}
