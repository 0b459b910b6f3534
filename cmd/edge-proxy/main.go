package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	// Initialize composition root with all dependencies
	root, err := NewCompositionRoot()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	// Ensure cleanup on exit
	defer func() {
		if err := root.Cleanup(); err != nil {
			root.Logger.Error("Failed to cleanup resources", zap.Error(err))
		}
	}()

	// Start the client-facing edge server
	go func() {
		if err := root.EdgeServer.Start(root.Config.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			root.Logger.Error("Edge server failed", zap.Error(err))
		}
	}()

	// Start the operational server
	go func() {
		if err := root.OpsServer.Start(root.Config.OpsAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			root.Logger.Error("Ops server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	root.Logger.Info("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown servers
	if err := root.EdgeServer.Stop(ctx); err != nil {
		root.Logger.Error("Edge server forced to shutdown", zap.Error(err))
	}
	if err := root.OpsServer.Stop(ctx); err != nil {
		root.Logger.Error("Ops server forced to shutdown", zap.Error(err))
	}

	root.Logger.Info("Server exited")
}
