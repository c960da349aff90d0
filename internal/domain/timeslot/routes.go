package timeslot

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns time slot routes. Listing is public so the booking form
// can show availability; everything else is admin only.
func (h *Handler) Routes(adminAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)

	r.Group(func(r chi.Router) {
		r.Use(adminAuth)
		r.Post("/", h.Create)
		r.Post("/bulk", h.BulkCreate)
		r.Delete("/bulk", h.BulkDelete)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
