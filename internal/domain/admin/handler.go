package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yosef-agil/thirtys-api/internal/middleware"
	"github.com/yosef-agil/thirtys-api/internal/pkg/response"
	"github.com/yosef-agil/thirtys-api/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	token, a, err := h.service.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		response.Unauthorized(w, "invalid username or password")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("login failed")
		response.InternalError(w)
		return
	}

	response.OK(w, LoginResponse{Token: token, Admin: a.ToResponse()})
}

// Me returns the authenticated admin from the token in the request
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetAdminID(r.Context())
	if id == uuid.Nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	a, err := h.service.GetByID(r.Context(), id)
	if errors.Is(err, ErrAdminNotFound) {
		response.Unauthorized(w, "authentication required")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to load admin")
		response.InternalError(w)
		return
	}
	response.OK(w, a.ToResponse())
}
