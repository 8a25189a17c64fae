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

	"gallery-backend/pkg/container"
	"gallery-backend/pkg/logger"
)

const (
	startupTimeout  = 2 * time.Minute
	shutdownTimeout = 10 * time.Second
)

// Serve build container, chạy HTTP server và chờ signal để shutdown
func Serve() {
	// 1. BUILD DI CONTAINER
	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	appContainer, err := container.NewContainer(startCtx)
	cancel()
	if err != nil {
		logger.Fatal("Failed to initialize container", err)
	}

	// 2. SETUP ROUTER + SERVER
	port := appContainer.Config.App.Port
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", port),
		Handler:        SetupRouter(appContainer),
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 3. START (NON-BLOCKING)
	go func() {
		logger.Info("Server starting", map[string]interface{}{
			"port":        port,
			"environment": appContainer.Config.App.Environment,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// 4. GRACEFUL SHUTDOWN
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	appContainer.Cleanup(shutdownCtx)

	logger.Info("Server exited gracefully", nil)
}
