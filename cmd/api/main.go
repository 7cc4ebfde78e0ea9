package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/saudeviva/clinic-scheduler/internal/api/router"
	"github.com/saudeviva/clinic-scheduler/internal/assistant"
	appconfig "github.com/saudeviva/clinic-scheduler/internal/config"
	"github.com/saudeviva/clinic-scheduler/internal/http/handlers"
	"github.com/saudeviva/clinic-scheduler/internal/observability/metrics"
	"github.com/saudeviva/clinic-scheduler/internal/scheduling"
	"github.com/saudeviva/clinic-scheduler/internal/storage"
	"github.com/saudeviva/clinic-scheduler/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-scheduler API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"backend", cfg.StorageBackend,
	)

	// Initialize repository
	repo, cleanup, err := buildRepository(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	schedulingMetrics := metrics.NewSchedulingMetrics(registry)

	service := scheduling.NewService(repo, logger, schedulingMetrics)

	// Assistant is optional: without an API key the natural-language
	// endpoint reports the feature as unavailable.
	var apptAssistant *assistant.Assistant
	if cfg.GeminiAPIKey != "" {
		llm, err := assistant.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		defer func() { _ = llm.Close() }()
		apptAssistant = assistant.New(llm, cfg.ClinicName, cfg.DoctorName, logger)
	} else {
		logger.Warn("GEMINI_API_KEY not set; natural-language scheduling disabled")
	}

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		Appointments:       handlers.NewAppointmentsHandler(service, apptAssistant, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// buildRepository wires the appointment store named by STORAGE_BACKEND.
func buildRepository(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (scheduling.Repository, func(), error) {
	switch cfg.StorageBackend {
	case appconfig.BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		return storage.NewPostgresStore(pool), pool.Close, nil

	case appconfig.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return storage.NewRedisStore(client, cfg.AppointmentsKey), func() { _ = client.Close() }, nil

	case appconfig.BackendFile:
		logger.Info("using file-backed appointment store", "path", cfg.DataFile)
		return storage.NewFileStore(cfg.DataFile), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
