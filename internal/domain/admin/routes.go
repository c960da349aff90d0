package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) Routes(adminAuth, rateLimit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.With(rateLimit).Post("/login", h.Login)
	r.With(adminAuth).Get("/me", h.Me)

	return r
}
