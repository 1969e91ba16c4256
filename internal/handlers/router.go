package handlers

import (
	"net/http"
	"time"

	"alumind-feedback/internal/metrics"
	customMiddleware "alumind-feedback/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Reporting is what the HTTP layer needs from the report service.
type Reporting interface {
	Summarizer
	Reports
}

type RouterConfig struct {
	ServiceName       string
	AllowedOrigins    []string
	JWTSecret         string
	DashboardCacheTTL time.Duration
	Classifier        Classifier
	Reports           Reporting
	Metrics           *metrics.Metrics
}

// NewRouter wires every route. Admin routes are mounted only when a JWT
// secret is configured.
func NewRouter(cfg RouterConfig) chi.Router {
	feedbackHandler := NewFeedbackHandler(cfg.Classifier, cfg.Reports)
	pagesHandler := NewPagesHandler(cfg.Reports, cfg.DashboardCacheTTL)
	reportHandler := NewReportHandler(cfg.Reports)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(customMiddleware.Metrics(cfg.Metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", Health(cfg.ServiceName))
	r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())

	// Public routes
	r.Post("/feedbacks", feedbackHandler.SubmitFeedback)
	r.Get("/feedbacks/summary", feedbackHandler.GetSummary)
	r.Get("/dashboard", pagesHandler.Dashboard)
	r.Get("/submit", pagesHandler.SubmitForm)
	r.Handle("/static/*", Static())

	// Admin routes (JWT required)
	if cfg.JWTSecret != "" {
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.JWTAuth(cfg.JWTSecret))

			r.Post("/admin/reports/weekly", reportHandler.SendWeekly)
			r.Get("/admin/reports/weekly/preview", reportHandler.PreviewWeekly)
		})
	}

	return r
}
