package api

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/iconidentify/vidrelay/internal/api/handler"
	mw "github.com/iconidentify/vidrelay/internal/api/middleware"
)

// NewRouter creates the HTTP router with all routes configured. When apiKey
// is empty the API routes are served unauthenticated.
func NewRouter(
	youtubeHandler *handler.YouTubeHandler,
	instagramHandler *handler.InstagramHandler,
	healthHandler *handler.HealthHandler,
	apiKey string,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CleanPath)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger(logger))
	r.Use(mw.Recovery(logger))
	r.Use(middleware.Timeout(10 * time.Minute))
	r.Use(mw.CORS)

	// Health endpoint (no auth)
	r.Get("/health", healthHandler.Check)

	r.Route("/api", func(r chi.Router) {
		if apiKey != "" {
			r.Use(mw.APIKeyAuth(apiKey))
		}

		r.Post("/youtube/info", youtubeHandler.Info)
		r.Post("/youtube/download", youtubeHandler.Download)
		r.Post("/instagram/info", instagramHandler.Info)
		r.Post("/instagram/download", instagramHandler.Download)
	})

	return r
}
