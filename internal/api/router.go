package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/Harshitk-cp/ratelens/internal/api/handlers"
	mw "github.com/Harshitk-cp/ratelens/internal/api/middleware"
	"github.com/Harshitk-cp/ratelens/internal/buildinfo"
	"github.com/Harshitk-cp/ratelens/internal/domain"
	"github.com/Harshitk-cp/ratelens/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const limiterCleanupInterval = 10 * time.Minute

// Options carries the settings NewApp needs beyond its collaborators.
type Options struct {
	RateLimitRPS     float64
	RateLimitBurst   int
	AdminKeyHash     string
	BatchMaxRows     int
	BatchConcurrency int
	Monitor          service.MonitorConfig
}

// App holds the router and background services for lifecycle management.
type App struct {
	Router  *chi.Mux
	Monitor *service.MonitorService

	store       domain.FeedbackStore
	predictor   domain.Predictor
	metrics     *mw.Metrics
	limiter     *mw.RateLimiter
	stopLimiter context.CancelFunc
	startTime   time.Time
}

func NewApp(store domain.FeedbackStore, predictor domain.Predictor, logger *zap.Logger, opts Options) *App {
	// Services
	predictionSvc := service.NewPredictionService(store, predictor, logger)
	feedbackSvc := service.NewFeedbackService(store, logger)
	similaritySvc := service.NewSimilarityService(store)
	analyticsSvc := service.NewAnalyticsService(store)
	batchSvc := service.NewBatchService(predictionSvc, logger, opts.BatchMaxRows, opts.BatchConcurrency)
	monitorSvc := service.NewMonitorService(analyticsSvc, logger, opts.Monitor)

	// Handlers
	predictionHandler := handlers.NewPredictionHandler(predictionSvc)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackSvc)
	similarHandler := handlers.NewSimilarHandler(similaritySvc)
	adminHandler := handlers.NewAdminHandler(analyticsSvc, batchSvc)

	r := chi.NewRouter()

	limiterCtx, stopLimiter := context.WithCancel(context.Background())
	app := &App{
		Router:      r,
		Monitor:     monitorSvc,
		store:       store,
		predictor:   predictor,
		metrics:     mw.NewMetrics(),
		limiter:     mw.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		stopLimiter: stopLimiter,
		startTime:   time.Now(),
	}
	go app.limiter.Run(limiterCtx, limiterCleanupInterval)

	// Global middleware (order matters)
	r.Use(mw.RequestID)           // Generate/extract request ID first
	r.Use(middleware.RealIP)      // Extract real IP
	r.Use(app.metrics.Middleware) // Collect metrics
	r.Use(mw.Logging(logger))     // Log all requests
	r.Use(middleware.Recoverer)   // Recover from panics
	r.Use(app.limiter.Middleware) // Rate limiting

	r.Get("/health", app.healthHandler())
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/predict", predictionHandler.Predict)
		r.Post("/feedback", feedbackHandler.Create)
		r.Post("/similar", similarHandler.Find)

		if opts.AdminKeyHash == "" {
			logger.Warn("ADMIN_KEY_HASH not set, admin routes disabled")
			return
		}
		r.Route("/admin", func(r chi.Router) {
			r.Use(mw.AdminAuth(opts.AdminKeyHash))

			r.Get("/feedback", feedbackHandler.List)
			r.Get("/analytics", adminHandler.Analytics)
			r.Get("/export", adminHandler.Export)
			r.Post("/batch", adminHandler.Batch)
		})
	})

	return app
}

// Close stops the background work started by NewApp. The monitor is started
// and stopped separately by the caller.
func (app *App) Close() {
	app.stopLimiter()
}

func (app *App) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := app.store.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    "ok",
			"predictor": app.predictor.Name(),
			"version":   buildinfo.Get().Version,
		})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)
		snap := app.metrics.Snapshot()

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  snap.RequestCount,
			"error_count":    snap.ErrorCount,
			"client_errors":  snap.ClientErrors,
			"server_errors":  snap.ServerErrors,
			"avg_latency_ms": snap.AvgLatencyMS,
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb": float64(memStats.Alloc) / 1024 / 1024,
				"sys_mb":   float64(memStats.Sys) / 1024 / 1024,
				"num_gc":   memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}
