package promo

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns promo code routes. Validation is public (rate limited at
// the router level); management is admin only.
func (h *Handler) Routes(adminAuth, rateLimit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.With(rateLimit).Post("/validate", h.Validate)

	r.Group(func(r chi.Router) {
		r.Use(adminAuth)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Post("/bulk-create", h.BulkCreate)
		r.Post("/bulk-delete", h.BulkDelete)
		r.Get("/export", h.Export)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Get("/{id}/usage", h.Usage)
	})

	return r
}
