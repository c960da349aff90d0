package promo

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type stubRepo struct {
	promos map[string]*PromoCode
}

func (s *stubRepo) List(ctx context.Context) ([]PromoCode, error) { return nil, nil }
func (s *stubRepo) GetByID(ctx context.Context, id uuid.UUID) (*PromoCode, error) {
	for _, p := range s.promos {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrPromoNotFound
}
func (s *stubRepo) GetByCode(ctx context.Context, code string) (*PromoCode, error) {
	if p, ok := s.promos[NormalizeCode(code)]; ok {
		return p, nil
	}
	return nil, ErrPromoNotFound
}
func (s *stubRepo) Create(ctx context.Context, promo *PromoCode) error {
	if _, ok := s.promos[promo.Code]; ok {
		return ErrDuplicateCode
	}
	promo.ID = uuid.New()
	s.promos[promo.Code] = promo
	return nil
}
func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*PromoCode, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.DiscountType != nil {
		p.DiscountType = DiscountType(*req.DiscountType)
	}
	if req.DiscountValue != nil {
		p.DiscountValue = *req.DiscountValue
	}
	return p, nil
}
func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, ErrPromoNotFound
}
func (s *stubRepo) ListUsage(ctx context.Context, promoID uuid.UUID) ([]PromoUsage, error) {
	return nil, nil
}

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestValidateOrder(t *testing.T) {
	serviceID := uuid.New()
	otherService := uuid.New()
	bookingDate := date("2025-06-15")

	tests := []struct {
		name    string
		promo   PromoCode
		service uuid.UUID
		wantErr error
	}{
		{
			name:    "inactive wins over everything else",
			promo:   PromoCode{Code: "P1", IsActive: false, ServiceID: uuid.NullUUID{UUID: otherService, Valid: true}, UsedCount: 10, UsageLimit: sql.NullInt64{Int64: 5, Valid: true}},
			service: serviceID,
			wantErr: ErrPromoInactive,
		},
		{
			name:    "service mismatch before date window",
			promo:   PromoCode{Code: "P2", IsActive: true, ServiceID: uuid.NullUUID{UUID: otherService, Valid: true}, ValidUntil: sql.NullTime{Time: date("2025-01-01"), Valid: true}},
			service: serviceID,
			wantErr: ErrServiceMismatch,
		},
		{
			name:    "not yet valid",
			promo:   PromoCode{Code: "P3", IsActive: true, ValidFrom: sql.NullTime{Time: date("2025-07-01"), Valid: true}},
			service: serviceID,
			wantErr: ErrNotYetValid,
		},
		{
			name:    "expired before limit",
			promo:   PromoCode{Code: "P4", IsActive: true, ValidUntil: sql.NullTime{Time: date("2025-06-01"), Valid: true}, UsedCount: 5, UsageLimit: sql.NullInt64{Int64: 5, Valid: true}},
			service: serviceID,
			wantErr: ErrPromoExpired,
		},
		{
			name:    "limit reached",
			promo:   PromoCode{Code: "P5", IsActive: true, UsedCount: 5, UsageLimit: sql.NullInt64{Int64: 5, Valid: true}},
			service: serviceID,
			wantErr: ErrLimitReached,
		},
		{
			name:    "valid on boundary dates",
			promo:   PromoCode{Code: "P6", IsActive: true, ValidFrom: sql.NullTime{Time: date("2025-06-15"), Valid: true}, ValidUntil: sql.NullTime{Time: date("2025-06-15"), Valid: true}},
			service: serviceID,
			wantErr: nil,
		},
		{
			name:    "global code applies to any service",
			promo:   PromoCode{Code: "P7", IsActive: true},
			service: serviceID,
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubRepo{promos: map[string]*PromoCode{tt.promo.Code: &tt.promo}}
			svc := &Service{repo: repo}

			_, err := svc.Validate(context.Background(), tt.promo.Code, tt.service, bookingDate)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNotFound(t *testing.T) {
	repo := &stubRepo{promos: map[string]*PromoCode{}}
	svc := &Service{repo: repo}

	_, err := svc.Validate(context.Background(), "missing", uuid.New(), time.Now())
	if !errors.Is(err, ErrPromoNotFound) {
		t.Fatalf("Validate() error = %v, want ErrPromoNotFound", err)
	}
}

func TestValidateCaseInsensitive(t *testing.T) {
	repo := &stubRepo{promos: map[string]*PromoCode{
		"SUMMER10": {Code: "SUMMER10", IsActive: true},
	}}
	svc := &Service{repo: repo}

	promo, err := svc.Validate(context.Background(), "  summer10 ", uuid.New(), time.Now())
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if promo.Code != "SUMMER10" {
		t.Errorf("Code = %q, want SUMMER10", promo.Code)
	}
}

func TestDiscountAmount(t *testing.T) {
	tests := []struct {
		name  string
		promo PromoCode
		price int64
		want  int64
	}{
		{"percentage", PromoCode{DiscountType: DiscountPercentage, DiscountValue: 10}, 500000, 50000},
		{"fixed", PromoCode{DiscountType: DiscountFixed, DiscountValue: 25000}, 500000, 25000},
		{"fixed capped at price", PromoCode{DiscountType: DiscountFixed, DiscountValue: 600000}, 500000, 500000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.promo.DiscountAmount(tt.price); got != tt.want {
				t.Errorf("DiscountAmount(%d) = %d, want %d", tt.price, got, tt.want)
			}
		})
	}
}

func TestCreateRejectsPercentageOver100(t *testing.T) {
	repo := &stubRepo{promos: map[string]*PromoCode{}}
	svc := &Service{repo: repo}

	_, err := svc.Create(context.Background(), CreateRequest{
		Code:          "BIG",
		DiscountType:  string(DiscountPercentage),
		DiscountValue: 150,
	})
	if !errors.Is(err, ErrInvalidDiscount) {
		t.Fatalf("Create() error = %v, want ErrInvalidDiscount", err)
	}
	if len(repo.promos) != 0 {
		t.Errorf("promo was stored despite invalid discount")
	}

	// fixed discounts are amounts, not percentages, so large values are fine
	if _, err := svc.Create(context.Background(), CreateRequest{
		Code:          "FIXED",
		DiscountType:  string(DiscountFixed),
		DiscountValue: 150000,
	}); err != nil {
		t.Fatalf("Create() fixed error = %v", err)
	}
}

func TestUpdateRejectsPercentageOver100(t *testing.T) {
	existing := &PromoCode{ID: uuid.New(), Code: "TEN", DiscountType: DiscountPercentage, DiscountValue: 10, IsActive: true}
	repo := &stubRepo{promos: map[string]*PromoCode{"TEN": existing}}
	svc := &Service{repo: repo}

	big := int64(150)
	_, err := svc.Update(context.Background(), existing.ID, UpdateRequest{DiscountValue: &big})
	if !errors.Is(err, ErrInvalidDiscount) {
		t.Fatalf("Update() error = %v, want ErrInvalidDiscount", err)
	}

	// flipping a large fixed discount to percentage must also be caught
	fixed := &PromoCode{ID: uuid.New(), Code: "CUT", DiscountType: DiscountFixed, DiscountValue: 50000, IsActive: true}
	repo.promos["CUT"] = fixed
	pct := string(DiscountPercentage)
	_, err = svc.Update(context.Background(), fixed.ID, UpdateRequest{DiscountType: &pct})
	if !errors.Is(err, ErrInvalidDiscount) {
		t.Fatalf("Update() type flip error = %v, want ErrInvalidDiscount", err)
	}

	// within bounds still goes through
	small := int64(50)
	updated, err := svc.Update(context.Background(), existing.ID, UpdateRequest{DiscountValue: &small})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.DiscountValue != 50 {
		t.Errorf("DiscountValue = %d, want 50", updated.DiscountValue)
	}
}

func TestBulkCreateGeneratesDistinctCodes(t *testing.T) {
	repo := &stubRepo{promos: map[string]*PromoCode{}}
	svc := &Service{repo: repo}

	created, err := svc.BulkCreate(context.Background(), BulkCreateRequest{
		Prefix:        "camp",
		Count:         20,
		DiscountType:  string(DiscountPercentage),
		DiscountValue: 15,
	})
	if err != nil {
		t.Fatalf("BulkCreate() error = %v", err)
	}
	if len(created) != 20 {
		t.Fatalf("created %d codes, want 20", len(created))
	}
	seen := map[string]bool{}
	for _, p := range created {
		if seen[p.Code] {
			t.Fatalf("duplicate code generated: %s", p.Code)
		}
		seen[p.Code] = true
		if len(p.Code) < 5 || p.Code[:5] != "CAMP-" {
			t.Errorf("code %q missing normalized prefix", p.Code)
		}
	}
}
