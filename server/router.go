package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nvollmar/sharefs/auth"
	"github.com/nvollmar/sharefs/config"
	"github.com/nvollmar/sharefs/core"
	"github.com/nvollmar/sharefs/metrics"
	"github.com/nvollmar/sharefs/server/handlers"
	sharefsMiddleware "github.com/nvollmar/sharefs/server/middleware"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	store *core.Store,
	authenticator auth.Authenticator,
	serverConfig *config.ServerConfig,
	logger *zap.Logger,
) chi.Router {
	metrics.RegisterMetrics()

	r := chi.NewRouter()

	// Basic middleware
	r.Use(sharefsMiddleware.RequestIDMiddleware())
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(sharefsMiddleware.SecurityHeaders())

	// Custom logging and metrics middleware
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)

			metrics.HTTPRequestsTotal.WithLabelValues(
				r.Method,
				r.URL.Path,
				http.StatusText(ww.Status()),
			).Inc()

			metrics.HTTPRequestDuration.WithLabelValues(
				r.Method,
				r.URL.Path,
			).Observe(duration.Seconds())

			logger.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", duration),
				zap.String("user_agent", r.UserAgent()),
				zap.String("remote_addr", r.RemoteAddr))
		})
	})

	// Health check endpoint (no auth required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			logger.Warn("Failed to write health check response", zap.Error(err))
		}
	})

	// Metrics endpoint (no auth required)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes with authentication
	r.Route("/v1", func(r chi.Router) {
		r.Use(sharefsMiddleware.AuthMiddleware(authenticator, logger))

		// File content operations
		r.Route("/files", func(r chi.Router) {
			r.Get("/*", handlers.GetFile(store, serverConfig, logger))
			r.Put("/*", handlers.SaveFile(store, serverConfig, logger))
			r.Delete("/*", handlers.DeleteFile(store, serverConfig, logger))
		})

		// Path existence and attributes
		r.Route("/info", func(r chi.Router) {
			r.Get("/*", handlers.GetFileInfo(store, serverConfig, logger))
		})

		// Directory listing
		r.Route("/directories", func(r chi.Router) {
			r.Get("/*", handlers.ListDirectory(store, serverConfig, logger))
		})

		// Copy and rename are rate limited: both fan out into multiple
		// backend calls per request.
		mutationLimiter := rate.NewLimiter(rate.Limit(serverConfig.MutationRPS), 1)
		r.With(sharefsMiddleware.RateLimitMiddleware(mutationLimiter, logger)).
			Post("/copy", handlers.CopyFile(store, serverConfig, logger))
		r.With(sharefsMiddleware.RateLimitMiddleware(mutationLimiter, logger)).
			Post("/rename", handlers.RenameFile(store, serverConfig, logger))
	})

	logger.Info("HTTP router configured successfully")

	return r
}
