package http

import (
	"net/http"
	"strings"

	"github.com/nexuslabs/nexus-shortener/internal/config"
	"github.com/nexuslabs/nexus-shortener/internal/infrastructure/telemetry"
	"github.com/nexuslabs/nexus-shortener/internal/ratelimit"
	"github.com/nexuslabs/nexus-shortener/internal/shortener"
	"github.com/nexuslabs/nexus-shortener/internal/transport/http/middleware"
	"github.com/nexuslabs/nexus-shortener/pkg/httputils"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var spanNames = map[string]string{
	"GET /health":               "health",
	"GET /metrics":              "metrics",
	"GET /{$}":                  "root",
	"POST /shorten":             "urls.create",
	"GET /api/urls":             "urls.list",
	"GET /api/urls/{code}":      "urls.info",
	"GET /api/analytics/{code}": "urls.analytics",
	"GET /{code}":               "urls.redirect",
}

type RouterOptions struct {
	EnableCORS    bool
	EnableLogging bool
	EnableMetrics bool
}

func DefaultRouterOptions() RouterOptions {
	return RouterOptions{
		EnableCORS:    true,
		EnableLogging: true,
		EnableMetrics: true,
	}
}

type RouterDeps struct {
	Service    *shortener.Service
	Aggregator *shortener.Aggregator
	Sink       shortener.ClickSink
	Limiter    ratelimit.Limiter
}

func NewRouter(cfg *config.Config, deps RouterDeps) http.Handler {
	return NewRouterWithOptions(cfg, deps, DefaultRouterOptions())
}

func NewRouterWithOptions(cfg *config.Config, deps RouterDeps, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()

	healthHandler := NewHealthHandler()
	urlsHandler := NewURLsHandler(cfg, deps.Service, deps.Aggregator, deps.Sink)

	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", healthHandler.Metrics())

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		httputils.RespondJSON(w, http.StatusOK, map[string]string{
			"service": cfg.App.Name,
			"version": cfg.App.Version,
			"shorten": "POST /shorten",
		})
	})

	rateLimited := middleware.RateLimitMiddleware(deps.Limiter)

	mux.Handle("POST /shorten", middleware.Chain(
		http.HandlerFunc(urlsHandler.Create),
		rateLimited,
	))

	mux.Handle("GET /api/urls", middleware.Chain(
		http.HandlerFunc(urlsHandler.List),
		middleware.APIKeyMiddleware(cfg.Security.APIKeys),
	))
	mux.HandleFunc("GET /api/urls/{code}", urlsHandler.Info)
	mux.HandleFunc("GET /api/analytics/{code}", urlsHandler.Analytics)

	mux.Handle("GET /{code}", middleware.Chain(
		http.HandlerFunc(urlsHandler.Redirect),
		rateLimited,
	))

	var innerHandler http.Handler = mux
	if opts.EnableCORS {
		innerHandler = middleware.CORSMiddleware(cfg.Security.AllowedOrigins)(innerHandler)
	}
	if opts.EnableLogging {
		innerHandler = middleware.LoggingMiddleware(innerHandler)
	}
	if opts.EnableMetrics {
		innerHandler = middleware.MetricsMiddleware(innerHandler)
	}

	otelOptions := []otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			key := r.Method + " " + r.Pattern
			if name, ok := spanNames[key]; ok {
				return name
			}
			if r.Pattern != "" {
				return r.Pattern
			}
			path := strings.TrimSpace(r.URL.Path)
			if path == "" {
				path = "/"
			}
			return path
		}),
	}

	if telemetry.TracerProvider != nil {
		otelOptions = append(otelOptions, otelhttp.WithTracerProvider(telemetry.TracerProvider))
	}

	return otelhttp.NewHandler(innerHandler, cfg.App.Name, otelOptions...)
}
