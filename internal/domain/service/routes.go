package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns service routes. Reads are public so the booking form can
// render the catalog; mutations require admin auth.
func (h *Handler) Routes(adminAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(adminAuth)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/packages", h.CreatePackage)
	})

	return r
}

// PackageRoutes returns package mutation routes (admin only).
func (h *Handler) PackageRoutes(adminAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(adminAuth)

	r.Put("/{id}", h.UpdatePackage)
	r.Delete("/{id}", h.DeletePackage)

	return r
}
