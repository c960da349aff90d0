package service

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yosef-agil/thirtys-api/internal/pkg/response"
	"github.com/yosef-agil/thirtys-api/internal/pkg/validator"
)

// Handler handles service HTTP requests
type Handler struct {
	repo *Repository
}

// NewHandler creates a new service handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// List returns all services with their packages
// GET /api/services
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.repo.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list services")
		response.InternalError(w)
		return
	}

	responses := make([]*ServiceResponse, 0, len(services))
	for i := range services {
		packages, err := h.repo.ListPackages(r.Context(), services[i].ID)
		if err != nil {
			log.Error().Err(err).Str("service_id", services[i].ID.String()).Msg("Failed to list packages")
			response.InternalError(w)
			return
		}
		responses = append(responses, services[i].ToResponse(packages))
	}

	response.OK(w, responses)
}

// Get returns a single service with packages
// GET /api/services/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid service id")
		return
	}

	svc, err := h.repo.GetByID(r.Context(), id)
	if errors.Is(err, ErrServiceNotFound) {
		response.NotFound(w, "service not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to get service")
		response.InternalError(w)
		return
	}

	packages, err := h.repo.ListPackages(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list packages")
		response.InternalError(w)
		return
	}

	response.OK(w, svc.ToResponse(packages))
}

// Create creates a new service
// POST /api/services
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	now := time.Now()
	svc := &Service{
		ID:                 uuid.New(),
		Name:               req.Name,
		BasePrice:          req.BasePrice,
		DiscountPercentage: req.DiscountPercentage,
		HasTimeSlots:       req.HasTimeSlots,
		RequiresFaculty:    req.RequiresFaculty,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := h.repo.Create(r.Context(), svc); err != nil {
		log.Error().Err(err).Msg("Failed to create service")
		response.InternalError(w)
		return
	}

	response.Created(w, svc.ToResponse(nil))
}

// Update applies a patch to a service
// PUT /api/services/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid service id")
		return
	}

	var req UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	err = h.repo.Update(r.Context(), id, &req)
	switch {
	case errors.Is(err, ErrServiceNotFound):
		response.NotFound(w, "service not found")
		return
	case errors.Is(err, ErrNoFieldsToSet):
		response.BadRequest(w, "no fields to update")
		return
	case err != nil:
		log.Error().Err(err).Msg("Failed to update service")
		response.InternalError(w)
		return
	}

	svc, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to reload service")
		response.InternalError(w)
		return
	}
	packages, _ := h.repo.ListPackages(r.Context(), id)

	response.OK(w, svc.ToResponse(packages))
}

// Delete removes a service
// DELETE /api/services/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid service id")
		return
	}

	err = h.repo.Delete(r.Context(), id)
	switch {
	case errors.Is(err, ErrServiceNotFound):
		response.NotFound(w, "service not found")
		return
	case errors.Is(err, ErrServiceInUse):
		response.Conflict(w, "service has bookings and cannot be deleted")
		return
	case err != nil:
		log.Error().Err(err).Msg("Failed to delete service")
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}

// CreatePackage adds a package to a service
// POST /api/services/{id}/packages
func (h *Handler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid service id")
		return
	}

	if _, err := h.repo.GetByID(r.Context(), serviceID); err != nil {
		if errors.Is(err, ErrServiceNotFound) {
			response.NotFound(w, "service not found")
			return
		}
		log.Error().Err(err).Msg("Failed to get service")
		response.InternalError(w)
		return
	}

	var req CreatePackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	now := time.Now()
	pkg := &Package{
		ID:          uuid.New(),
		ServiceID:   serviceID,
		PackageName: req.PackageName,
		Price:       req.Price,
		Description: sql.NullString{String: req.Description, Valid: req.Description != ""},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.repo.CreatePackage(r.Context(), pkg); err != nil {
		log.Error().Err(err).Msg("Failed to create package")
		response.InternalError(w)
		return
	}

	response.Created(w, pkg.ToResponse())
}

// UpdatePackage applies a patch to a package
// PUT /api/packages/{id}
func (h *Handler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid package id")
		return
	}

	var req UpdatePackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	err = h.repo.UpdatePackage(r.Context(), id, &req)
	switch {
	case errors.Is(err, ErrPackageNotFound):
		response.NotFound(w, "package not found")
		return
	case errors.Is(err, ErrNoFieldsToSet):
		response.BadRequest(w, "no fields to update")
		return
	case err != nil:
		log.Error().Err(err).Msg("Failed to update package")
		response.InternalError(w)
		return
	}

	pkg, err := h.repo.GetPackageByID(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to reload package")
		response.InternalError(w)
		return
	}

	response.OK(w, pkg.ToResponse())
}

// DeletePackage removes a package
// DELETE /api/packages/{id}
func (h *Handler) DeletePackage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid package id")
		return
	}

	err = h.repo.DeletePackage(r.Context(), id)
	switch {
	case errors.Is(err, ErrPackageNotFound):
		response.NotFound(w, "package not found")
		return
	case errors.Is(err, ErrPackageInUse):
		response.Conflict(w, "package has bookings and cannot be deleted")
		return
	case err != nil:
		log.Error().Err(err).Msg("Failed to delete package")
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}
