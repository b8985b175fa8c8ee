package main

import (
	"codeberg.org/whbprompts/server/api/rest/generate"
	"codeberg.org/whbprompts/server/api/rest/health"
	"codeberg.org/whbprompts/server/api/rest/refine"
	"codeberg.org/whbprompts/server/internal/errors"
	"codeberg.org/whbprompts/server/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware(), metrics.Middleware())
	router.GET("/health", health.Handler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.NoRoute(func(c *gin.Context) {
		errors.NotFound(c, "route")
	})

	api := router.Group("/api")
	api.Use(server.limiter.Middleware())

	{
		// unversioned paths used by the web client
		api.GET("/test", health.TestHandler(server.config.GeminiAPIKey != ""))
		generate.RegisterRoutes(api, server.services.Model)
	}

	v1 := api.Group("/v1")

	{
		v1.GET("/ping", health.PingHandler)

		generate.RegisterRoutes(v1, server.services.Model)
		refine.RegisterRoutes(v1, server.services.Model)
	}
}
