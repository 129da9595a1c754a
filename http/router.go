package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"loan-advisor/observability"
)

// RouterDeps are the handlers and middleware collaborators of the API.
// Metrics, MetricsHandler and Limiter are optional.
type RouterDeps struct {
	Loans           *LoanHandler
	Recommendations *RecommendationHandler
	Chat            *ChatHandler
	Predictions     *PredictionHandler
	Documents       *DocumentHandler
	Health          *HealthHandler
	Limiter         *RateLimiter
	Metrics         observability.HTTPMetrics
	MetricsHandler  http.Handler
	Logger          *slog.Logger
}

func NewRouter(d RouterDeps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(logger, d.Metrics))
	r.Use(middleware.Recoverer)

	r.Get("/health", d.Health.Check)
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Route("/v1", func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(RateLimit(d.Limiter, d.Metrics))
		}
		r.Use(SessionID)

		r.Post("/loans/calculate", d.Loans.CalculateLoan)
		r.Post("/loans/assessment", d.Loans.Assess)
		r.Get("/lenders", d.Loans.Lenders)

		r.Post("/recommendations", d.Recommendations.Recommend)
		r.Get("/recommendations/current", d.Recommendations.Current)
		r.Delete("/recommendations/current", d.Recommendations.Clear)
		r.Get("/recommendations/current/report", d.Recommendations.Report)

		r.Post("/chat", d.Chat.Ask)
		r.Get("/chat/quick-questions", d.Chat.QuickQuestions)

		r.Post("/predictions", d.Predictions.Predict)
		r.Post("/documents/extract", d.Documents.Extract)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}
