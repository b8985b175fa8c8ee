package refine

import (
	"codeberg.org/whbprompts/server/internal/llm"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, refiner llm.Refiner) {
	router.POST("/refine", Handler(refiner))
}
