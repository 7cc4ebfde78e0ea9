// Package router assembles the HTTP surface of the scheduler.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saudeviva/clinic-scheduler/internal/http/handlers"
	httpmiddleware "github.com/saudeviva/clinic-scheduler/internal/http/middleware"
	"github.com/saudeviva/clinic-scheduler/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Appointments       *handlers.AppointmentsHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitRPS > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	r.Get("/health", cfg.Appointments.HealthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/appointments", func(r chi.Router) {
		r.Get("/", cfg.Appointments.List)
		r.Post("/", cfg.Appointments.Create)
		r.Post("/interpret", cfg.Appointments.Interpret)
		r.Delete("/{id}", cfg.Appointments.Cancel)
	})

	return r
}
