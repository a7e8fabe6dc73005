// Package rest wires the HTTP routes of the document API.
package rest

import (
	"net/http"

	"docstore-backend/application/ports"
	"docstore-backend/interfaces/http/rest/handlers"
	"docstore-backend/interfaces/http/rest/middleware"
	"docstore-backend/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterOptions toggles optional parts of the middleware chain.
type RouterOptions struct {
	EnableCORS     bool
	AllowedOrigins []string
	EnableMetrics  bool
	CircuitBreaker middleware.CircuitBreakerConfig
}

// Router creates and configures the HTTP router
type Router struct {
	documents   *handlers.DocumentHandler
	diagnostics *handlers.DiagnosticsHandler
	opener      ports.ClientOpener
	metrics     *observability.Collector
	options     RouterOptions
	logger      *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	documents *handlers.DocumentHandler,
	diagnostics *handlers.DiagnosticsHandler,
	opener ports.ClientOpener,
	metrics *observability.Collector,
	options RouterOptions,
	logger *zap.Logger,
) *Router {
	if options.CircuitBreaker.Name == "" {
		options.CircuitBreaker = middleware.DefaultCircuitBreakerConfig("document-store")
	}
	return &Router{
		documents:   documents,
		diagnostics: diagnostics,
		opener:      opener,
		metrics:     metrics,
		options:     options,
		logger:      logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.options.EnableMetrics && rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}

	if rt.options.EnableCORS {
		origins := rt.options.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.options.EnableMetrics && rt.metrics != nil {
		router.Handle("/metrics", promhttp.HandlerFor(rt.metrics.GetRegistry(), promhttp.HandlerOpts{}))
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/JustReturnTest", rt.diagnostics.Ping)
		r.Get("/Test", rt.diagnostics.Echo)
		r.Post("/Test", rt.diagnostics.Echo)

		r.Group(func(r chi.Router) {
			r.Use(middleware.CircuitBreaker(rt.options.CircuitBreaker, rt.logger))

			r.Post("/Create", rt.documents.Create)
			r.Post("/Upsert", rt.documents.Upsert)
			r.Delete("/Delete", rt.documents.Delete)
			r.Get("/QueryById", rt.documents.QueryByID)
			r.Get("/QueryByMessage", rt.documents.QueryByMessage)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck opens and closes a store client.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	client, err := rt.opener.Open(req.Context())
	if err != nil {
		rt.logger.Warn("Readiness check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	if err := client.Close(); err != nil {
		rt.logger.Warn("Readiness check could not close client", zap.Error(err))
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
