package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo_api/internal/app"
	"todo_api/internal/config"
	"todo_api/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx := context.Background()
	a, err := app.Build(ctx, cfg)
	if err != nil {
		logger.Fatal("build app", "error", err)
	}
	defer a.Close()

	// a long-running process migrates before accepting traffic
	if err := a.Gate.EnsureReady(ctx); err != nil {
		a.Close()
		logger.Fatal("startup migrations failed", "error", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
