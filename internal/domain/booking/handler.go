package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yosef-agil/thirtys-api/internal/domain/promo"
	"github.com/yosef-agil/thirtys-api/internal/domain/service"
	"github.com/yosef-agil/thirtys-api/internal/domain/timeslot"
	"github.com/yosef-agil/thirtys-api/internal/pkg/response"
	"github.com/yosef-agil/thirtys-api/internal/pkg/storage"
	"github.com/yosef-agil/thirtys-api/internal/pkg/validator"
)

// maxFormMemory bounds multipart parsing: proof limit plus form field slack
const maxFormMemory = storage.MaxProofSize + 1<<20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles the public booking form. The request is multipart because
// it carries the payment proof image alongside the fields.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	req := CreateRequest{
		CustomerName: r.FormValue("customerName"),
		PhoneNumber:  r.FormValue("phoneNumber"),
		ServiceID:    r.FormValue("serviceId"),
		PackageID:    r.FormValue("packageId"),
		BookingDate:  r.FormValue("bookingDate"),
		PaymentType:  r.FormValue("paymentType"),
	}
	if v := r.FormValue("timeSlotId"); v != "" {
		req.TimeSlotID = &v
	}
	if v := r.FormValue("faculty"); v != "" {
		req.Faculty = &v
	}
	if v := r.FormValue("university"); v != "" {
		req.University = &v
	}
	if v := r.FormValue("promoCode"); v != "" {
		req.PromoCode = &v
	}

	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	proof, _, err := r.FormFile("paymentProof")
	if err != nil {
		response.BadRequest(w, "payment proof is required")
		return
	}
	defer proof.Close()

	b, err := h.service.Create(r.Context(), req, proof)
	if err != nil {
		h.respondCreateFailure(w, err)
		return
	}

	response.Created(w, CreateResponse{
		BookingID:   b.ID,
		BookingCode: b.BookingCode,
		TotalPrice:  b.TotalPrice,
	})
}

func (h *Handler) respondCreateFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrServiceNotFound):
		response.NotFound(w, "service not found")
	case errors.Is(err, service.ErrPackageNotFound):
		response.NotFound(w, "package not found")
	case errors.Is(err, ErrPackageMismatch):
		response.BadRequest(w, "package does not belong to the selected service")
	case errors.Is(err, ErrSlotRequired):
		response.BadRequest(w, "a time slot is required for this service")
	case errors.Is(err, ErrFacultyRequired):
		response.BadRequest(w, "faculty is required for this service")
	case errors.Is(err, timeslot.ErrSlotNotFound):
		response.NotFound(w, "time slot not found")
	case errors.Is(err, timeslot.ErrSlotFull):
		response.Conflict(w, "time slot is fully booked")
	case errors.Is(err, promo.ErrPromoNotFound):
		response.Error(w, http.StatusBadRequest, "PROMO_NOT_FOUND", "promo code not found")
	case errors.Is(err, promo.ErrPromoInactive):
		response.Error(w, http.StatusBadRequest, "PROMO_INACTIVE", "promo code is inactive")
	case errors.Is(err, promo.ErrServiceMismatch):
		response.Error(w, http.StatusBadRequest, "PROMO_SERVICE_MISMATCH", "promo code is not valid for this service")
	case errors.Is(err, promo.ErrNotYetValid):
		response.Error(w, http.StatusBadRequest, "PROMO_NOT_YET_VALID", "promo code is not yet valid")
	case errors.Is(err, promo.ErrPromoExpired):
		response.Error(w, http.StatusBadRequest, "PROMO_EXPIRED", "promo code has expired")
	case errors.Is(err, promo.ErrLimitReached):
		response.Error(w, http.StatusConflict, "PROMO_LIMIT_REACHED", "promo code usage limit reached")
	case errors.Is(err, storage.ErrFileTooLarge):
		response.BadRequest(w, "payment proof exceeds the maximum size")
	case errors.Is(err, storage.ErrInvalidMimeType):
		response.BadRequest(w, "payment proof must be a JPEG, PNG or WebP image")
	case errors.Is(err, storage.ErrEmptyFile):
		response.BadRequest(w, "payment proof file is empty")
	default:
		log.Error().Err(err).Msg("failed to create booking")
		response.InternalError(w)
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Status: r.URL.Query().Get("status"),
		Month:  r.URL.Query().Get("month"),
	}
	if filter.Status != "" && !ValidStatus(filter.Status) {
		response.BadRequest(w, "invalid status filter")
		return
	}
	if v := r.URL.Query().Get("serviceId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(w, "invalid service id")
			return
		}
		filter.ServiceID = &id
	}
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			response.BadRequest(w, "invalid date filter")
			return
		}
		filter.Date = &d
	}
	if filter.Month != "" {
		if _, err := time.Parse("2006-01", filter.Month); err != nil {
			response.BadRequest(w, "invalid month filter")
			return
		}
	}
	filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	bookings, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list bookings")
		response.InternalError(w)
		return
	}

	resp := make([]BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = bookings[i].ToResponse()
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	pages := (total + limit - 1) / limit
	response.WithMeta(w, resp, response.Meta{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid booking id")
		return
	}
	b, err := h.service.GetByID(r.Context(), id)
	if errors.Is(err, ErrBookingNotFound) {
		response.NotFound(w, "booking not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")
		response.InternalError(w)
		return
	}
	response.OK(w, b.ToResponse())
}

// Track lets a customer look up their booking by code, no auth required
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	b, err := h.service.GetByCode(r.Context(), code)
	if errors.Is(err, ErrBookingNotFound) {
		response.NotFound(w, "booking not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to track booking")
		response.InternalError(w)
		return
	}
	response.OK(w, b.ToResponse())
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid booking id")
		return
	}
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	b, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	switch {
	case errors.Is(err, ErrBookingNotFound):
		response.NotFound(w, "booking not found")
	case errors.Is(err, ErrInvalidStatus):
		response.BadRequest(w, "invalid booking status")
	case err != nil:
		log.Error().Err(err).Msg("failed to update booking status")
		response.InternalError(w)
	default:
		response.OK(w, b.ToResponse())
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid booking id")
		return
	}
	err = h.service.Delete(r.Context(), id)
	if errors.Is(err, ErrBookingNotFound) {
		response.NotFound(w, "booking not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to delete booking")
		response.InternalError(w)
		return
	}
	response.NoContent(w)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month != "" {
		if _, err := time.Parse("2006-01", month); err != nil {
			response.BadRequest(w, "invalid month filter")
			return
		}
	}
	stats, err := h.service.Stats(r.Context(), month)
	if err != nil {
		log.Error().Err(err).Msg("failed to load booking stats")
		response.InternalError(w)
		return
	}
	response.OK(w, stats)
}
