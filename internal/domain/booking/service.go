package booking

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/yosef-agil/thirtys-api/internal/domain/promo"
	"github.com/yosef-agil/thirtys-api/internal/domain/service"
	"github.com/yosef-agil/thirtys-api/internal/pkg/imaging"
	"github.com/yosef-agil/thirtys-api/internal/pkg/storage"
)

type repository interface {
	CreateWithReservation(ctx context.Context, b *Booking, steps ...func(tx *sqlx.Tx) error) error
	List(ctx context.Context, filter ListFilter) ([]Booking, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByCode(ctx context.Context, code string) (*Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	DeleteWithRelease(ctx context.Context, id uuid.UUID, steps ...func(tx *sqlx.Tx) error) error
	Stats(ctx context.Context, month string) (map[string]interface{}, error)
}

type catalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*service.Service, error)
	GetPackageByID(ctx context.Context, id uuid.UUID) (*service.Package, error)
}

type slotReserver interface {
	ReserveTx(ctx context.Context, tx *sqlx.Tx, slotID, bookingID uuid.UUID) error
	ReleaseTx(ctx context.Context, tx *sqlx.Tx, bookingID uuid.UUID) error
}

type promoValidator interface {
	Validate(ctx context.Context, code string, serviceID uuid.UUID, bookingDate time.Time) (*promo.PromoCode, error)
}

type promoRedeemer interface {
	RedeemTx(ctx context.Context, tx *sqlx.Tx, promoID, bookingID uuid.UUID, customerPhone string, discountAmount int64) error
}

// publisher pushes booking lifecycle events to the live admin feed
type publisher interface {
	Publish(event string, payload interface{})
}

type Service struct {
	repo      repository
	catalog   catalog
	slots     slotReserver
	promos    promoValidator
	redeemer  promoRedeemer
	store     storage.Storage
	processor *imaging.Processor
	feed      publisher
}

func NewService(
	repo *Repository,
	services *service.Repository,
	slots slotReserver,
	promos promoValidator,
	redeemer promoRedeemer,
	store storage.Storage,
	processor *imaging.Processor,
	feed publisher,
) *Service {
	return &Service{
		repo:      repo,
		catalog:   services,
		slots:     slots,
		promos:    promos,
		redeemer:  redeemer,
		store:     store,
		processor: processor,
		feed:      feed,
	}
}

// Create runs the full booking flow: resolve the package, price it, apply
// the promo, store the payment proof, then insert the booking with slot
// reservation and promo redemption in a single transaction. If the
// transaction fails the stored proof is removed again.
func (s *Service) Create(ctx context.Context, req CreateRequest, proof io.Reader) (*Booking, error) {
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("invalid service id: %w", err)
	}
	packageID, err := uuid.Parse(req.PackageID)
	if err != nil {
		return nil, fmt.Errorf("invalid package id: %w", err)
	}
	bookingDate, err := time.Parse(dateLayout, req.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("invalid booking date: %w", err)
	}

	svc, err := s.catalog.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	pkg, err := s.catalog.GetPackageByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg.ServiceID != serviceID {
		return nil, ErrPackageMismatch
	}

	var slotID uuid.NullUUID
	if svc.HasTimeSlots {
		if req.TimeSlotID == nil {
			return nil, ErrSlotRequired
		}
		id, err := uuid.Parse(*req.TimeSlotID)
		if err != nil {
			return nil, fmt.Errorf("invalid time slot id: %w", err)
		}
		slotID = uuid.NullUUID{UUID: id, Valid: true}
	}

	if svc.RequiresFaculty && (req.Faculty == nil || *req.Faculty == "") {
		return nil, ErrFacultyRequired
	}

	var appliedPromo *promo.PromoCode
	if req.PromoCode != nil && *req.PromoCode != "" {
		appliedPromo, err = s.promos.Validate(ctx, *req.PromoCode, serviceID, bookingDate)
		if err != nil {
			return nil, err
		}
	}

	var terms *PromoTerms
	if appliedPromo != nil {
		terms = &PromoTerms{
			Percentage: appliedPromo.DiscountType == promo.DiscountPercentage,
			Value:      appliedPromo.DiscountValue,
		}
	}
	quote := ComputeQuote(pkg.Price, svc.DiscountPercentage, terms, PaymentType(req.PaymentType))

	code := GenerateCode(time.Now())

	proofKey, err := s.storeProof(ctx, code, proof)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		BookingCode:    code,
		CustomerName:   req.CustomerName,
		PhoneNumber:    req.PhoneNumber,
		ServiceID:      serviceID,
		PackageID:      packageID,
		TimeSlotID:     slotID,
		BookingDate:    bookingDate,
		PaymentType:    PaymentType(req.PaymentType),
		BasePrice:      quote.BasePrice,
		DiscountAmount: quote.ServiceDiscount + quote.PromoDiscount,
		TotalPrice:     quote.TotalPrice,
		PaymentProof:   sql.NullString{String: proofKey, Valid: true},
		Status:         StatusPending,
	}
	if req.Faculty != nil && *req.Faculty != "" {
		b.Faculty = sql.NullString{String: *req.Faculty, Valid: true}
	}
	if req.University != nil && *req.University != "" {
		b.University = sql.NullString{String: *req.University, Valid: true}
	}
	if appliedPromo != nil {
		b.PromoCodeID = uuid.NullUUID{UUID: appliedPromo.ID, Valid: true}
	}

	steps := []func(tx *sqlx.Tx) error{}
	if slotID.Valid {
		steps = append(steps, func(tx *sqlx.Tx) error {
			return s.slots.ReserveTx(ctx, tx, slotID.UUID, b.ID)
		})
	}
	if appliedPromo != nil {
		steps = append(steps, func(tx *sqlx.Tx) error {
			return s.redeemer.RedeemTx(ctx, tx, appliedPromo.ID, b.ID, b.PhoneNumber, quote.PromoDiscount)
		})
	}

	if err := s.repo.CreateWithReservation(ctx, b, steps...); err != nil {
		if delErr := s.store.Delete(ctx, proofKey); delErr != nil {
			log.Warn().Err(delErr).Str("key", proofKey).Msg("failed to remove proof after rollback")
		}
		return nil, err
	}

	b.ServiceName = svc.Name
	b.PackageName = pkg.PackageName
	if appliedPromo != nil {
		b.PromoCode = sql.NullString{String: appliedPromo.Code, Valid: true}
	}

	if s.feed != nil {
		s.feed.Publish("booking.created", b.ToResponse())
	}
	return b, nil
}

// storeProof validates, normalizes and persists a payment proof, returning
// its storage key.
func (s *Service) storeProof(ctx context.Context, bookingCode string, proof io.Reader) (string, error) {
	buf, mimeType, err := storage.ValidateProof(proof)
	if err != nil {
		return "", err
	}

	data := buf.Bytes()
	if s.processor != nil && mimeType != "image/webp" {
		normalized, normalizedType, err := s.processor.Normalize(bytes.NewReader(data))
		if err != nil {
			log.Warn().Err(err).Msg("proof normalization failed, storing original")
		} else {
			data = normalized
			mimeType = normalizedType
		}
	}

	key := fmt.Sprintf("proofs/%s%s", bookingCode, storage.ExtensionForMime(mimeType))
	if err := s.store.Save(ctx, key, bytes.NewReader(data), mimeType); err != nil {
		return "", fmt.Errorf("failed to store payment proof: %w", err)
	}
	return key, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByCode(ctx context.Context, code string) (*Booking, error) {
	return s.repo.GetByCode(ctx, code)
}

// UpdateStatus accepts any valid status value; the studio moves bookings
// back and forth freely (a cancelled booking can be reopened by phone).
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Booking, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, Status(status)); err != nil {
		return nil, err
	}
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.feed != nil {
		s.feed.Publish("booking.status_changed", b.ToResponse())
	}
	return b, nil
}

// Delete removes a booking and frees its slot. Promo usage is kept as a
// historical record and the used_count stays incremented.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.repo.DeleteWithRelease(ctx, id, func(tx *sqlx.Tx) error {
		return s.slots.ReleaseTx(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	if b.PaymentProof.Valid {
		if err := s.store.Delete(ctx, b.PaymentProof.String); err != nil {
			log.Warn().Err(err).Str("key", b.PaymentProof.String).Msg("failed to remove proof for deleted booking")
		}
	}
	return nil
}

func (s *Service) Stats(ctx context.Context, month string) (map[string]interface{}, error) {
	return s.repo.Stats(ctx, month)
}
