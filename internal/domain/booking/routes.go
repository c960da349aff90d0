package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns booking routes. Creation and code lookup are public (the
// booking form is unauthenticated); management is admin only.
func (h *Handler) Routes(adminAuth, rateLimit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.With(rateLimit).Post("/", h.Create)
	r.Get("/track/{code}", h.Track)

	r.Group(func(r chi.Router) {
		r.Use(adminAuth)
		r.Get("/", h.List)
		r.Get("/stats", h.Stats)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}/status", h.UpdateStatus)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
