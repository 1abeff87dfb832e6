package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshitk-cp/ratelens/internal/api"
	"github.com/Harshitk-cp/ratelens/internal/buildinfo"
	"github.com/Harshitk-cp/ratelens/internal/config"
	"github.com/Harshitk-cp/ratelens/internal/llm"
	"github.com/Harshitk-cp/ratelens/internal/service"
	"github.com/Harshitk-cp/ratelens/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := cfg.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}

func main() {
	// Config must be loaded before the level is known.
	if err := config.Load(); err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("failed to load config", zap.Error(err))
	}

	logger := newLogger(config.LogLevel())
	defer func() { _ = logger.Sync() }()
	logger.Info("starting ratelens", zap.String("version", buildinfo.Get().String()))

	ctx := context.Background()

	storeOpts := store.ConfigOptions()
	feedbackStore, err := store.Open(ctx, storeOpts)
	if err != nil {
		logger.Fatal("failed to open feedback store", zap.String("backend", storeOpts.Backend), zap.Error(err))
	}
	defer func() { _ = feedbackStore.Close() }()
	logger.Info("feedback store ready", zap.String("backend", storeOpts.Backend))

	predictor, err := llm.NewPredictor(llm.ConfigOptions())
	if err != nil {
		logger.Fatal("failed to initialize predictor", zap.String("provider", config.LLMProvider()), zap.Error(err))
	}
	logger.Info("predictor initialized", zap.String("predictor", predictor.Name()))

	app := api.NewApp(feedbackStore, predictor, logger, api.Options{
		RateLimitRPS:     config.RateLimitRPS(),
		RateLimitBurst:   config.RateLimitBurst(),
		AdminKeyHash:     config.AdminKeyHash(),
		BatchMaxRows:     config.BatchMaxRows(),
		BatchConcurrency: config.BatchConcurrency(),
		Monitor: service.MonitorConfig{
			Schedule:          config.MonitorSchedule(),
			MaxCorrectionRate: config.MonitorMaxCorrectionRate(),
			MinFeedback:       config.MonitorMinFeedback(),
		},
	})
	defer app.Close()

	// Start background services
	monitorOn := config.MonitorEnabled()
	if monitorOn {
		if err := app.Monitor.Start(); err != nil {
			logger.Fatal("failed to start accuracy monitor", zap.Error(err))
		}
	}

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	if monitorOn {
		app.Monitor.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
