package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/whbprompts/server/internal/config"
	"codeberg.org/whbprompts/server/internal/logger"
)

// @title WHB Prompts API
// @version 1.0
// @description Prompt relay for the WHB Prompts app
// @description
// @description Features:
// @description - Image to art prompt generation (Midjourney, Stable Diffusion, general)
// @description - Prompt refinement from a short instruction
// @description - Per-IP rate limiting

// @contact.name API Support
// @contact.url https://codeberg.org/whbprompts/server

func main() {
	logger.Info("starting whb prompts relay")

	// load configuration from environment
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	// create server with all dependencies
	srv, err := NewServer(cfg)
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     srv.router,
		ReadTimeout: 30 * time.Second,
		// model calls may take up to a minute
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Port, "model", cfg.GeminiModel)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// graceful shutdown with 10 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	srv.Close()

	logger.Info("server stopped")
}
