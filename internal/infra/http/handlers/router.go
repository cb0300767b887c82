package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Board       *BoardHandler
	Migration   *MigrationHandler
	Health      *HealthHandler
	Logger      *zap.Logger
	CORSOrigins []string
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))

	if cfg.Health != nil {
		r.Get("/health", cfg.Health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/funnel", func(r chi.Router) {
		r.Get("/", cfg.Board.GetFunnel)
		r.Get("/columns/{stage}", cfg.Board.GetColumn)
		r.Post("/reload", cfg.Board.Reload)
		r.Post("/{entryId}/advance", cfg.Board.Advance)
		r.Post("/{entryId}/retreat", cfg.Board.Retreat)
		r.Post("/{entryId}/archive", cfg.Board.Archive)
	})

	r.Route("/migrations", func(r chi.Router) {
		r.Post("/", cfg.Migration.Submit)
		r.Post("/open", cfg.Migration.Open)
		r.Post("/postal-code", cfg.Migration.PostalCode)
	})

	return r
}
