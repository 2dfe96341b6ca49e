package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/goldrror9999-sys/Mpdb/internal/infrastructure/http/handlers"
	"github.com/goldrror9999-sys/Mpdb/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	OperatorHandler *handlers.OperatorHandler
	PublicHandler   *handlers.PublicHandler
	HealthHandler   *handlers.HealthHandler
	RequireOperator func(http.Handler) http.Handler // X-Mpdb-Operator-Secret for /operator/*
	CORS            func(http.Handler) http.Handler // public API only
	Log             zerolog.Logger
	Secure          func(http.Handler) http.Handler
	IPRateLimit     func(http.Handler) http.Handler
	Metrics         bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	r.Use(chimid.SetHeader("Content-Type", "application/json"))
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/public", func(r chi.Router) {
		if cfg.CORS != nil {
			r.Use(cfg.CORS)
		}
		r.Post("/{project_name}/query", cfg.PublicHandler.Query)
	})

	if cfg.OperatorHandler != nil && cfg.RequireOperator != nil {
		r.Route("/operator", func(r chi.Router) {
			r.Use(cfg.RequireOperator)
			r.Post("/projects", cfg.OperatorHandler.CreateProject)
			r.Get("/projects", cfg.OperatorHandler.ListProjects)
			r.Get("/projects/{id}", cfg.OperatorHandler.GetProject)
			r.Post("/projects/{id}/execute", cfg.OperatorHandler.Execute)
			r.Post("/projects/{id}/api-key", cfg.OperatorHandler.GenerateAPIKey)
			r.Patch("/projects/{id}/privacy", cfg.OperatorHandler.SetPrivacy)
			r.Get("/projects/{id}/tables/{table}", cfg.OperatorHandler.TablePreview)
		})
	}

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimid.GetReqID(r.Context())
			log.Info().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("request")
			next.ServeHTTP(w, r)
		})
	}
}
