package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	r.Get("/sitemap.xml", h.Sitemap)
	r.Get("/feed.xml", h.Feed)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Get("/health", h.Health)
		r.Get("/stats", h.Stats)
		r.Get("/collections", h.ListCollections)
		r.Route("/collections/{collection}", func(r chi.Router) {
			r.Use(CollectionMiddleware)
			r.Get("/entries", h.ListEntries)
			r.Get("/entries/*", h.GetEntry)
			r.Post("/validate", h.ValidateRecord)
		})
		r.Get("/pages", h.ListPages)
		r.Get("/pages/{id}", h.GetPage)

		// Protected routes (auth required)
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(h.apiKey))
			r.Post("/reload", h.Reload)
		})
	})

	return r
}
