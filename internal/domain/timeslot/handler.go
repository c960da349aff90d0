package timeslot

import (
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

// Handler handles time slot HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new time slot handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List returns slots with availability
// GET /api/time-slots?serviceId=&date=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var serviceID *uuid.UUID
	if raw := r.URL.Query().Get("serviceId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "invalid serviceId")
			return
		}
		serviceID = &id
	}

	var date *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := ParseDate(raw)
		if err != nil {
			response.BadRequest(w, "invalid date, expected YYYY-MM-DD")
			return
		}
		date = &d
	}

	slots, err := h.service.List(r.Context(), serviceID, date)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list time slots")
		response.InternalError(w)
		return
	}

	responses := make([]*Response, 0, len(slots))
	for i := range slots {
		responses = append(responses, slots[i].ToResponse())
	}
	response.OK(w, responses)
}

// Create creates a single slot
// POST /api/time-slots
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	slot, err := h.service.Create(r.Context(), &req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create time slot")
		response.InternalError(w)
		return
	}

	response.Created(w, slot.ToResponse())
}

// BulkCreate creates many slots at once
// POST /api/time-slots/bulk
func (h *Handler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	var req BulkCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.BulkCreate(r.Context(), &req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to bulk create time slots")
		response.InternalError(w)
		return
	}

	response.Created(w, result)
}

// Update patches a single slot
// PUT /api/time-slots/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid time slot id")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	slot, err := h.service.Update(r.Context(), id, req)
	switch {
	case errors.Is(err, ErrSlotNotFound):
		response.NotFound(w, "time slot not found")
	case errors.Is(err, ErrCapacityBelowBooked):
		response.Conflict(w, "max capacity cannot go below current bookings")
	case errors.Is(err, ErrNoFieldsToSet):
		response.BadRequest(w, "no fields to update")
	case err != nil:
		log.Error().Err(err).Msg("Failed to update time slot")
		response.InternalError(w)
	default:
		response.OK(w, slot.ToResponse())
	}
}

// Delete removes a single slot
// DELETE /api/time-slots/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid time slot id")
		return
	}

	err = h.service.Delete(r.Context(), id)
	switch {
	case errors.Is(err, ErrSlotNotFound):
		response.NotFound(w, "time slot not found")
		return
	case errors.Is(err, ErrSlotHasBookings):
		response.Conflict(w, "time slot has bookings and cannot be deleted")
		return
	case err != nil:
		log.Error().Err(err).Msg("Failed to delete time slot")
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}

// BulkDelete deletes slots in a date range, with preview-and-confirm
// DELETE /api/time-slots/bulk
func (h *Handler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.BulkDelete(r.Context(), &req)
	if errors.Is(err, ErrRequiresConfirmation) {
		// 409 with counts so the dashboard can show a confirm dialog
		response.JSON(w, http.StatusConflict, result)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to bulk delete time slots")
		response.InternalError(w)
		return
	}

	response.OK(w, result)
}
