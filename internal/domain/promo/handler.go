package promo

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yosef-agil/thirtys-api/internal/pkg/response"
	"github.com/yosef-agil/thirtys-api/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Validate is the public dry-run endpoint the booking form calls before
// submit. It never mutates usage counters. Failures carry distinct codes so
// the form can show a specific message.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		response.BadRequest(w, "invalid service id")
		return
	}
	bookingDate, err := time.Parse(dateLayout, req.BookingDate)
	if err != nil {
		response.BadRequest(w, "invalid booking date")
		return
	}

	promo, err := h.service.Validate(r.Context(), req.Code, serviceID, bookingDate)
	if err != nil {
		h.respondValidationFailure(w, err)
		return
	}

	resp := ValidateResponse{
		Valid:         true,
		Code:          promo.Code,
		DiscountType:  string(promo.DiscountType),
		DiscountValue: promo.DiscountValue,
	}
	if req.Price > 0 {
		resp.DiscountAmount = promo.DiscountAmount(req.Price)
	}
	response.OK(w, resp)
}

func (h *Handler) respondValidationFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPromoNotFound):
		response.Error(w, http.StatusNotFound, "PROMO_NOT_FOUND", "promo code not found")
	case errors.Is(err, ErrPromoInactive):
		response.Error(w, http.StatusBadRequest, "PROMO_INACTIVE", "promo code is inactive")
	case errors.Is(err, ErrServiceMismatch):
		response.Error(w, http.StatusBadRequest, "PROMO_SERVICE_MISMATCH", "promo code is not valid for this service")
	case errors.Is(err, ErrNotYetValid):
		response.Error(w, http.StatusBadRequest, "PROMO_NOT_YET_VALID", "promo code is not yet valid")
	case errors.Is(err, ErrPromoExpired):
		response.Error(w, http.StatusBadRequest, "PROMO_EXPIRED", "promo code has expired")
	case errors.Is(err, ErrLimitReached):
		response.Error(w, http.StatusBadRequest, "PROMO_LIMIT_REACHED", "promo code usage limit reached")
	default:
		log.Error().Err(err).Msg("failed to validate promo code")
		response.InternalError(w)
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	promos, err := h.service.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list promo codes")
		response.InternalError(w)
		return
	}
	resp := make([]PromoResponse, len(promos))
	for i := range promos {
		resp[i] = promos[i].ToResponse()
	}
	response.OK(w, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid promo code id")
		return
	}
	promo, err := h.service.GetByID(r.Context(), id)
	if errors.Is(err, ErrPromoNotFound) {
		response.NotFound(w, "promo code not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to get promo code")
		response.InternalError(w)
		return
	}
	response.OK(w, promo.ToResponse())
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	promo, err := h.service.Create(r.Context(), req)
	if errors.Is(err, ErrDuplicateCode) {
		response.Conflict(w, "promo code already exists")
		return
	}
	if errors.Is(err, ErrInvalidDiscount) {
		response.BadRequest(w, "percentage discount cannot exceed 100")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to create promo code")
		response.InternalError(w)
		return
	}
	response.Created(w, promo.ToResponse())
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid promo code id")
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

	promo, err := h.service.Update(r.Context(), id, req)
	switch {
	case errors.Is(err, ErrPromoNotFound):
		response.NotFound(w, "promo code not found")
	case errors.Is(err, ErrNoFieldsToSet):
		response.BadRequest(w, "no fields to update")
	case errors.Is(err, ErrDuplicateCode):
		response.Conflict(w, "promo code already exists")
	case errors.Is(err, ErrInvalidDiscount):
		response.BadRequest(w, "percentage discount cannot exceed 100")
	case err != nil:
		log.Error().Err(err).Msg("failed to update promo code")
		response.InternalError(w)
	default:
		response.OK(w, promo.ToResponse())
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid promo code id")
		return
	}
	deleted, err := h.service.Delete(r.Context(), id)
	if errors.Is(err, ErrPromoNotFound) {
		response.NotFound(w, "promo code not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to delete promo code")
		response.InternalError(w)
		return
	}
	response.OK(w, map[string]bool{"deleted": deleted, "deactivated": !deleted})
}

func (h *Handler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	var req BulkCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	promos, err := h.service.BulkCreate(r.Context(), req)
	if errors.Is(err, ErrInvalidDiscount) {
		response.BadRequest(w, "percentage discount cannot exceed 100")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to bulk create promo codes")
		response.InternalError(w)
		return
	}
	resp := make([]PromoResponse, len(promos))
	for i := range promos {
		resp[i] = promos[i].ToResponse()
	}
	response.Created(w, resp)
}

func (h *Handler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.BulkDelete(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("failed to bulk delete promo codes")
		response.InternalError(w)
		return
	}
	response.OK(w, result)
}

// Export streams all promo codes as CSV for spreadsheet use
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	promos, err := h.service.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to export promo codes")
		response.InternalError(w)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="promo-codes-%s.csv"`, time.Now().Format("2006-01-02")))

	cw := csv.NewWriter(w)
	cw.Write([]string{"code", "discount_type", "discount_value", "service_id",
		"usage_limit", "used_count", "valid_from", "valid_until", "is_active"})
	for _, p := range promos {
		serviceID, usageLimit, validFrom, validUntil := "", "", "", ""
		if p.ServiceID.Valid {
			serviceID = p.ServiceID.UUID.String()
		}
		if p.UsageLimit.Valid {
			usageLimit = strconv.FormatInt(p.UsageLimit.Int64, 10)
		}
		if p.ValidFrom.Valid {
			validFrom = p.ValidFrom.Time.Format(dateLayout)
		}
		if p.ValidUntil.Valid {
			validUntil = p.ValidUntil.Time.Format(dateLayout)
		}
		cw.Write([]string{
			p.Code, string(p.DiscountType), strconv.FormatInt(p.DiscountValue, 10),
			serviceID, usageLimit, strconv.FormatInt(p.UsedCount, 10),
			validFrom, validUntil, strconv.FormatBool(p.IsActive),
		})
	}
	cw.Flush()
}

func (h *Handler) Usage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid promo code id")
		return
	}
	usage, err := h.service.ListUsage(r.Context(), id)
	if errors.Is(err, ErrPromoNotFound) {
		response.NotFound(w, "promo code not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to list promo usage")
		response.InternalError(w)
		return
	}
	resp := make([]UsageResponse, len(usage))
	for i := range usage {
		resp[i] = usage[i].ToResponse()
	}
	response.OK(w, resp)
}
