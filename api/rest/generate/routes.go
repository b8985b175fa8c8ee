package generate

import (
	"codeberg.org/whbprompts/server/internal/gateway"
	"github.com/gin-gonic/gin"
)

// registers prompt generation routes
func RegisterRoutes(router *gin.RouterGroup, model gateway.Gateway) {
	router.POST("/generate", Handler(model))
}
