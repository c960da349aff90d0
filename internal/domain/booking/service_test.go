package booking

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yosef-agil/thirtys-api/internal/domain/promo"
	"github.com/yosef-agil/thirtys-api/internal/domain/service"
	"github.com/yosef-agil/thirtys-api/internal/domain/timeslot"
)

// pngProof is a minimal PNG signature, enough for MIME detection
const pngProof = "\x89PNG\r\n\x1a\n" + "fakepixels"

type stubRepo struct {
	created    *Booking
	rolledBack bool
	stepErr    error
}

func (s *stubRepo) CreateWithReservation(ctx context.Context, b *Booking, steps ...func(tx *sqlx.Tx) error) error {
	b.ID = uuid.New()
	for _, step := range steps {
		if err := step(nil); err != nil {
			s.rolledBack = true
			return err
		}
	}
	s.created = b
	return nil
}

func (s *stubRepo) List(ctx context.Context, filter ListFilter) ([]Booking, int, error) {
	return nil, 0, nil
}
func (s *stubRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	if s.created != nil && s.created.ID == id {
		return s.created, nil
	}
	return nil, ErrBookingNotFound
}
func (s *stubRepo) GetByCode(ctx context.Context, code string) (*Booking, error) {
	return nil, ErrBookingNotFound
}
func (s *stubRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if s.created == nil || s.created.ID != id {
		return ErrBookingNotFound
	}
	s.created.Status = status
	return nil
}
func (s *stubRepo) DeleteWithRelease(ctx context.Context, id uuid.UUID, steps ...func(tx *sqlx.Tx) error) error {
	for _, step := range steps {
		if err := step(nil); err != nil {
			return err
		}
	}
	if s.created == nil || s.created.ID != id {
		return ErrBookingNotFound
	}
	s.created = nil
	return nil
}
func (s *stubRepo) Stats(ctx context.Context, month string) (map[string]interface{}, error) {
	return nil, nil
}

type stubCatalog struct {
	services map[uuid.UUID]*service.Service
	packages map[uuid.UUID]*service.Package
}

func (s *stubCatalog) GetByID(ctx context.Context, id uuid.UUID) (*service.Service, error) {
	if svc, ok := s.services[id]; ok {
		return svc, nil
	}
	return nil, service.ErrServiceNotFound
}
func (s *stubCatalog) GetPackageByID(ctx context.Context, id uuid.UUID) (*service.Package, error) {
	if pkg, ok := s.packages[id]; ok {
		return pkg, nil
	}
	return nil, service.ErrPackageNotFound
}

type stubSlots struct {
	reserveErr error
	reserved   []uuid.UUID
	released   []uuid.UUID
}

func (s *stubSlots) ReserveTx(ctx context.Context, tx *sqlx.Tx, slotID, bookingID uuid.UUID) error {
	if s.reserveErr != nil {
		return s.reserveErr
	}
	s.reserved = append(s.reserved, slotID)
	return nil
}
func (s *stubSlots) ReleaseTx(ctx context.Context, tx *sqlx.Tx, bookingID uuid.UUID) error {
	s.released = append(s.released, bookingID)
	return nil
}

type stubPromos struct {
	promo       *promo.PromoCode
	validateErr error
	redeemErr   error
	redeemed    int
}

func (s *stubPromos) Validate(ctx context.Context, code string, serviceID uuid.UUID, bookingDate time.Time) (*promo.PromoCode, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return s.promo, nil
}
func (s *stubPromos) RedeemTx(ctx context.Context, tx *sqlx.Tx, promoID, bookingID uuid.UUID, customerPhone string, discountAmount int64) error {
	if s.redeemErr != nil {
		return s.redeemErr
	}
	s.redeemed++
	return nil
}

type stubStorage struct {
	saved   map[string]string
	deleted []string
}

func (s *stubStorage) Save(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if s.saved == nil {
		s.saved = map[string]string{}
	}
	s.saved[key] = contentType
	return nil
}
func (s *stubStorage) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}
func (s *stubStorage) GetURL(key string) string { return "/uploads/" + key }

type stubFeed struct {
	events []string
}

func (s *stubFeed) Publish(event string, payload interface{}) {
	s.events = append(s.events, event)
}

type fixture struct {
	svc       *Service
	repo      *stubRepo
	slots     *stubSlots
	promos    *stubPromos
	store     *stubStorage
	feed      *stubFeed
	serviceID uuid.UUID
	packageID uuid.UUID
	slotID    uuid.UUID
}

func newFixture(hasSlots, requiresFaculty bool) *fixture {
	serviceID := uuid.New()
	packageID := uuid.New()

	catalog := &stubCatalog{
		services: map[uuid.UUID]*service.Service{
			serviceID: {
				ID:                 serviceID,
				Name:               "Graduation",
				DiscountPercentage: 10,
				HasTimeSlots:       hasSlots,
				RequiresFaculty:    requiresFaculty,
			},
		},
		packages: map[uuid.UUID]*service.Package{
			packageID: {
				ID:          packageID,
				ServiceID:   serviceID,
				PackageName: "Standard",
				Price:       500000,
			},
		},
	}

	f := &fixture{
		repo:      &stubRepo{},
		slots:     &stubSlots{},
		promos:    &stubPromos{},
		store:     &stubStorage{},
		feed:      &stubFeed{},
		serviceID: serviceID,
		packageID: packageID,
		slotID:    uuid.New(),
	}
	f.svc = &Service{
		repo:     f.repo,
		catalog:  catalog,
		slots:    f.slots,
		promos:   f.promos,
		redeemer: f.promos,
		store:    f.store,
		feed:     f.feed,
	}
	return f
}

func baseRequest(f *fixture) CreateRequest {
	return CreateRequest{
		CustomerName: "Dina Pratiwi",
		PhoneNumber:  "081234567890",
		ServiceID:    f.serviceID.String(),
		PackageID:    f.packageID.String(),
		BookingDate:  "2025-06-15",
		PaymentType:  string(PaymentFull),
	}
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(false, false)

	b, err := f.svc.Create(context.Background(), baseRequest(f), strings.NewReader(pngProof))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if !strings.HasPrefix(b.BookingCode, "BK") {
		t.Errorf("BookingCode = %q, want BK prefix", b.BookingCode)
	}
	if b.Status != StatusPending {
		t.Errorf("Status = %q, want pending", b.Status)
	}
	// 500000 minus 10% service discount
	if b.TotalPrice != 450000 {
		t.Errorf("TotalPrice = %d, want 450000", b.TotalPrice)
	}
	if len(f.store.saved) != 1 {
		t.Errorf("saved %d proofs, want 1", len(f.store.saved))
	}
	if len(f.feed.events) != 1 || f.feed.events[0] != "booking.created" {
		t.Errorf("feed events = %v, want [booking.created]", f.feed.events)
	}
}

func TestCreateBookingDownPayment(t *testing.T) {
	f := newFixture(false, false)
	req := baseRequest(f)
	req.PaymentType = string(PaymentDownPayment)

	b, err := f.svc.Create(context.Background(), req, strings.NewReader(pngProof))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if b.TotalPrice != 225000 {
		t.Errorf("TotalPrice = %d, want half of 450000", b.TotalPrice)
	}
}

func TestCreateBookingSlotRequired(t *testing.T) {
	f := newFixture(true, false)

	_, err := f.svc.Create(context.Background(), baseRequest(f), strings.NewReader(pngProof))
	if !errors.Is(err, ErrSlotRequired) {
		t.Fatalf("Create() error = %v, want ErrSlotRequired", err)
	}
}

func TestCreateBookingFacultyRequired(t *testing.T) {
	f := newFixture(false, true)

	_, err := f.svc.Create(context.Background(), baseRequest(f), strings.NewReader(pngProof))
	if !errors.Is(err, ErrFacultyRequired) {
		t.Fatalf("Create() error = %v, want ErrFacultyRequired", err)
	}
}

func TestCreateBookingSlotFullRollsBack(t *testing.T) {
	f := newFixture(true, false)
	f.slots.reserveErr = timeslot.ErrSlotFull

	req := baseRequest(f)
	slotID := f.slotID.String()
	req.TimeSlotID = &slotID

	_, err := f.svc.Create(context.Background(), req, strings.NewReader(pngProof))
	if !errors.Is(err, timeslot.ErrSlotFull) {
		t.Fatalf("Create() error = %v, want ErrSlotFull", err)
	}
	if !f.repo.rolledBack {
		t.Error("transaction was not rolled back")
	}
	if f.repo.created != nil {
		t.Error("booking persisted despite full slot")
	}
	if len(f.store.deleted) != 1 {
		t.Errorf("deleted %d proofs after rollback, want 1", len(f.store.deleted))
	}
	if len(f.feed.events) != 0 {
		t.Errorf("feed events published despite rollback: %v", f.feed.events)
	}
}

func TestCreateBookingPromoLimitRollsBack(t *testing.T) {
	f := newFixture(false, false)
	f.promos.promo = &promo.PromoCode{
		ID:            uuid.New(),
		Code:          "SUMMER10",
		DiscountType:  promo.DiscountPercentage,
		DiscountValue: 10,
		IsActive:      true,
	}
	f.promos.redeemErr = promo.ErrLimitReached

	req := baseRequest(f)
	code := "SUMMER10"
	req.PromoCode = &code

	_, err := f.svc.Create(context.Background(), req, strings.NewReader(pngProof))
	if !errors.Is(err, promo.ErrLimitReached) {
		t.Fatalf("Create() error = %v, want ErrLimitReached", err)
	}
	if f.repo.created != nil {
		t.Error("booking persisted despite exhausted promo")
	}
	if len(f.store.deleted) != 1 {
		t.Errorf("deleted %d proofs after rollback, want 1", len(f.store.deleted))
	}
}

func TestCreateBookingWithPromo(t *testing.T) {
	f := newFixture(false, false)
	f.promos.promo = &promo.PromoCode{
		ID:            uuid.New(),
		Code:          "SUMMER20",
		DiscountType:  promo.DiscountPercentage,
		DiscountValue: 20,
		IsActive:      true,
	}

	req := baseRequest(f)
	code := "SUMMER20"
	req.PromoCode = &code

	b, err := f.svc.Create(context.Background(), req, strings.NewReader(pngProof))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	// 500000 -10% = 450000, -20% promo = 360000
	if b.TotalPrice != 360000 {
		t.Errorf("TotalPrice = %d, want 360000", b.TotalPrice)
	}
	if f.promos.redeemed != 1 {
		t.Errorf("redeemed = %d, want 1", f.promos.redeemed)
	}
}

func TestCreateBookingPackageMismatch(t *testing.T) {
	f := newFixture(false, false)

	otherService := uuid.New()
	f.svc.catalog.(*stubCatalog).services[otherService] = &service.Service{ID: otherService, Name: "Other"}

	req := baseRequest(f)
	req.ServiceID = otherService.String()

	_, err := f.svc.Create(context.Background(), req, strings.NewReader(pngProof))
	if !errors.Is(err, ErrPackageMismatch) {
		t.Fatalf("Create() error = %v, want ErrPackageMismatch", err)
	}
}

func TestDeleteReleasesSlotKeepsPromoUsage(t *testing.T) {
	f := newFixture(false, false)

	b, err := f.svc.Create(context.Background(), baseRequest(f), strings.NewReader(pngProof))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := f.svc.Delete(context.Background(), b.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(f.slots.released) != 1 {
		t.Errorf("released %d reservations, want 1", len(f.slots.released))
	}
	if f.promos.redeemed != 0 {
		t.Error("promo redemption count changed on delete")
	}
	if len(f.store.deleted) != 1 {
		t.Errorf("deleted %d proofs, want 1", len(f.store.deleted))
	}
}
