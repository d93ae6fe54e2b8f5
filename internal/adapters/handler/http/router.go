package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/afisha/api/internal/core/ports"
	"github.com/afisha/api/internal/rate"
)

func NewHandler(
	log *zap.Logger,
	authService ports.AuthService,
	authLimiter rate.Limiter,
	authHandler *AuthHandler,
	eventHandler *EventHandler,
	userHandler *UserHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(log))

	requireAuth := RequireAuth(authService, log)
	limited := RateLimit(authLimiter, log)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondMessage(w, http.StatusOK, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.With(limited).Post("/register", authHandler.Register)
		r.With(limited).Post("/login", authHandler.Login)
		// Logout validates the token itself so that revoking an
		// already-revoked token stays a 200, not a 401.
		r.Post("/logout", authHandler.Logout)
	})

	r.Route("/public", func(r chi.Router) {
		r.Get("/events", eventHandler.List)
		r.Get("/events/{id}", eventHandler.Get)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/users/{id}", userHandler.GetByID)
		r.Get("/events/{id}/participants", eventHandler.Participants)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/me", userHandler.GetMe)
			r.Post("/events", eventHandler.Create)
			r.Put("/events/{id}", eventHandler.Update)
			r.Delete("/events/{id}", eventHandler.Delete)
			r.Post("/events/{id}/join", eventHandler.Join)
			r.Delete("/events/{id}/leave", eventHandler.Leave)
		})
	})

	return r
}
