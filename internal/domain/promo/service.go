package promo

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type repository interface {
	List(ctx context.Context) ([]PromoCode, error)
	GetByID(ctx context.Context, id uuid.UUID) (*PromoCode, error)
	GetByCode(ctx context.Context, code string) (*PromoCode, error)
	Create(ctx context.Context, promo *PromoCode) error
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*PromoCode, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ListUsage(ctx context.Context, promoID uuid.UUID) ([]PromoUsage, error)
}

type Service struct {
	repo repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Validate checks a promo code against a service and booking date without
// recording anything. Checks run in a fixed order so the caller always gets
// the most specific failure: not found, inactive, wrong service, not yet
// valid, expired, then limit reached.
func (s *Service) Validate(ctx context.Context, code string, serviceID uuid.UUID, bookingDate time.Time) (*PromoCode, error) {
	promo, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !promo.IsActive {
		return nil, ErrPromoInactive
	}
	if promo.ServiceID.Valid && promo.ServiceID.UUID != serviceID {
		return nil, ErrServiceMismatch
	}
	if promo.ValidFrom.Valid && bookingDate.Before(truncateDay(promo.ValidFrom.Time)) {
		return nil, ErrNotYetValid
	}
	if promo.ValidUntil.Valid && bookingDate.After(endOfDay(promo.ValidUntil.Time)) {
		return nil, ErrPromoExpired
	}
	if promo.IsExhausted() {
		return nil, ErrLimitReached
	}

	return promo, nil
}

func (s *Service) List(ctx context.Context) ([]PromoCode, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*PromoCode, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*PromoCode, error) {
	if err := checkDiscount(DiscountType(req.DiscountType), req.DiscountValue); err != nil {
		return nil, err
	}
	promo := buildPromo(req.Code, req.DiscountType, req.DiscountValue,
		req.ServiceID, req.UsageLimit, req.ValidFrom, req.ValidUntil)
	if req.IsActive != nil {
		promo.IsActive = *req.IsActive
	}
	if err := s.repo.Create(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*PromoCode, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// the patch may change type and value independently, so the bound is
	// checked against the combination that would be stored
	discountType := existing.DiscountType
	if req.DiscountType != nil {
		discountType = DiscountType(*req.DiscountType)
	}
	discountValue := existing.DiscountValue
	if req.DiscountValue != nil {
		discountValue = *req.DiscountValue
	}
	if err := checkDiscount(discountType, discountValue); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, req)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) (deleted bool, err error) {
	return s.repo.Delete(ctx, id)
}

// BulkCreate generates count codes of the form PREFIX-XXXXXX. Collisions with
// existing codes are retried with a fresh suffix; persistent failures are
// skipped and logged.
func (s *Service) BulkCreate(ctx context.Context, req BulkCreateRequest) ([]PromoCode, error) {
	if err := checkDiscount(DiscountType(req.DiscountType), req.DiscountValue); err != nil {
		return nil, err
	}
	created := make([]PromoCode, 0, req.Count)
	prefix := NormalizeCode(req.Prefix)

	for i := 0; i < req.Count; i++ {
		var promo *PromoCode
		var err error
		for attempt := 0; attempt < 3; attempt++ {
			code := fmt.Sprintf("%s-%s", prefix, randomSuffix())
			promo = buildPromo(code, req.DiscountType, req.DiscountValue,
				req.ServiceID, req.UsageLimit, req.ValidFrom, req.ValidUntil)
			err = s.repo.Create(ctx, promo)
			if !errors.Is(err, ErrDuplicateCode) {
				break
			}
		}
		if err != nil {
			log.Warn().Err(err).Str("prefix", prefix).Msg("skipping promo code in bulk create")
			continue
		}
		created = append(created, *promo)
	}
	return created, nil
}

func (s *Service) BulkDelete(ctx context.Context, req BulkDeleteRequest) (*BulkDeleteResult, error) {
	result := &BulkDeleteResult{Requested: len(req.IDs)}
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			result.Skipped++
			continue
		}
		deleted, err := s.repo.Delete(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("promo_id", raw).Msg("skipping promo code in bulk delete")
			result.Skipped++
			continue
		}
		if deleted {
			result.Deleted++
		} else {
			result.Skipped++
		}
	}
	return result, nil
}

func (s *Service) ListUsage(ctx context.Context, promoID uuid.UUID) ([]PromoUsage, error) {
	if _, err := s.repo.GetByID(ctx, promoID); err != nil {
		return nil, err
	}
	return s.repo.ListUsage(ctx, promoID)
}

// checkDiscount enforces the bound the validator tags cannot express:
// percentage discounts must stay within 100.
func checkDiscount(discountType DiscountType, discountValue int64) error {
	if discountType == DiscountPercentage && discountValue > 100 {
		return ErrInvalidDiscount
	}
	return nil
}

func buildPromo(code, discountType string, discountValue int64, serviceID *string, usageLimit *int64, validFrom, validUntil *string) *PromoCode {
	promo := &PromoCode{
		Code:          NormalizeCode(code),
		DiscountType:  DiscountType(discountType),
		DiscountValue: discountValue,
		IsActive:      true,
	}
	if serviceID != nil && *serviceID != "" {
		if id, err := uuid.Parse(*serviceID); err == nil {
			promo.ServiceID = uuid.NullUUID{UUID: id, Valid: true}
		}
	}
	if usageLimit != nil {
		promo.UsageLimit = sql.NullInt64{Int64: *usageLimit, Valid: true}
	}
	if validFrom != nil && *validFrom != "" {
		if t, err := time.Parse(dateLayout, *validFrom); err == nil {
			promo.ValidFrom = sql.NullTime{Time: t, Valid: true}
		}
	}
	if validUntil != nil && *validUntil != "" {
		if t, err := time.Parse(dateLayout, *validUntil); err == nil {
			promo.ValidUntil = sql.NullTime{Time: t, Valid: true}
		}
	}
	return promo
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

func randomSuffix() string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	b := make([]byte, 6)
	rand.Read(b)
	for i := range b {
		b[i] = alphabet[int(b[i])%len(alphabet)]
	}
	return string(b)
}
