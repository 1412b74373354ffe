package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bagdasarian/collabquest-assistant/internal/handler"
)

// NewRouter собирает маршруты API. metricsHandler может быть nil.
func NewRouter(h *handler.Handler, metricsHandler http.Handler, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(handler.RequestLogger(logger))

	r.Get("/health", h.Health)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}
	r.Get("/stats", h.GetStats)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireUser)

		r.Route("/chat", func(r chi.Router) {
			r.Post("/", h.Chat)
			r.Get("/history", h.GetChatHistory)
		})

		r.Route("/teams/{teamID}", func(r chi.Router) {
			r.Get("/", h.GetTeam)
			r.Post("/votes", h.CastVote)
		})

		r.Get("/notifications", h.GetNotifications)
	})

	return r
}
