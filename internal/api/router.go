package api

import (
	"context"
	"customer-registry/internal/api/handler"
	mw "customer-registry/internal/api/middleware"
	"customer-registry/internal/config"
	"customer-registry/internal/domain/customer"
	"log/slog"
	"net/http"

	_ "customer-registry/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// SetupRouter builds the HTTP handler. Background work started for it, such
// as rate limiter cleanup, ends when ctx is done.
func SetupRouter(ctx context.Context, customerService customer.CustomerService, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	limiter := mw.NewRateLimiterMiddleware(ctx, cfg.Server.RateLimit, logger)
	setupCustomerRoutes(router, customerService, limiter, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(corsHandler(cfg.Server.CORS))
	router.Use(middleware.Compress(5))
	router.Use(mw.MetricsMiddleware())
}

// corsHandler answers preflight requests before routing.
func corsHandler(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

// setupCustomerRoutes rate limits the customer endpoints only; status stays
// answerable for liveness probes.
func setupCustomerRoutes(r chi.Router, svc customer.CustomerService, limiter *mw.RateLimiterMiddleware, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", handler.Status)
		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware)
			r.Get("/customers", h.ListCustomers)
			r.Post("/customers", h.CreateCustomer)
		})
	})
}
