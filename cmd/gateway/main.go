package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wodwise/gateway/internal/config"
	"github.com/wodwise/gateway/internal/logger"
)

// @title WODwise AI Gateway
// @version 1.0
// @description Server-side proxy between the WODwise mobile app and the
// @description vision/text model backend.
// @description
// @description Features:
// @description - Whiteboard workout photo parsing into structured data
// @description - Personalized workout strategy generation
// @description - Per-user daily quota keyed by subscription tier
// @description - Atomic usage tracking with midnight-UTC rollover

// @contact.name API Support

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authenticated requests. Format: Bearer {token}

func main() {
	logger.Info("starting wodwise gateway")

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

	// get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      srv.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // model calls can run long
		IdleTimeout:  60 * time.Second,
	}

	// start server in goroutine
	go func() {
		logger.Info("gateway listening", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down gateway")

	// graceful shutdown with 10 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// close Redis connection if one was configured
	if srv.redis != nil {
		srv.redis.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown
	}

	// close database connection
	srv.db.Close()

	logger.Info("gateway stopped")
}
