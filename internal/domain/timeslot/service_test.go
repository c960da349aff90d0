package timeslot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type slotKey struct {
	serviceID uuid.UUID
	date      string
	startTime string
}

type stubRepo struct {
	slots     map[slotKey]*TimeSlot
	booked    int
	createErr error
}

func newStubRepo() *stubRepo {
	return &stubRepo{slots: map[slotKey]*TimeSlot{}}
}

func key(s *TimeSlot) slotKey {
	return slotKey{s.ServiceID, s.Date.Format(dateLayout), s.StartTime}
}

func (r *stubRepo) List(ctx context.Context, serviceID *uuid.UUID, date *time.Time) ([]TimeSlot, error) {
	return nil, nil
}
func (r *stubRepo) GetByID(ctx context.Context, id uuid.UUID) (*TimeSlot, error) {
	for _, s := range r.slots {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, ErrSlotNotFound
}
func (r *stubRepo) Exists(ctx context.Context, serviceID uuid.UUID, date time.Time, startTime string) (bool, error) {
	_, ok := r.slots[slotKey{serviceID, date.Format(dateLayout), startTime}]
	return ok, nil
}
func (r *stubRepo) Create(ctx context.Context, s *TimeSlot) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.slots[key(s)] = s
	return nil
}
func (r *stubRepo) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*TimeSlot, error) {
	slot, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.MaxCapacity != nil {
		if *req.MaxCapacity < r.booked {
			return nil, ErrCapacityBelowBooked
		}
		slot.MaxCapacity = *req.MaxCapacity
	}
	return slot, nil
}
func (r *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for k, s := range r.slots {
		if s.ID == id {
			delete(r.slots, k)
			return nil
		}
	}
	return ErrSlotNotFound
}
func (r *stubRepo) CountInRange(ctx context.Context, serviceID uuid.UUID, from, to time.Time) (int, int, error) {
	matched := 0
	for _, s := range r.slots {
		if s.ServiceID == serviceID && !s.Date.Before(from) && !s.Date.After(to) {
			matched++
		}
	}
	return matched, r.booked, nil
}
func (r *stubRepo) DeleteInRange(ctx context.Context, serviceID uuid.UUID, from, to time.Time) (int, error) {
	deleted := 0
	for k, s := range r.slots {
		if s.ServiceID == serviceID && !s.Date.Before(from) && !s.Date.After(to) {
			delete(r.slots, k)
			deleted++
		}
	}
	return deleted, nil
}

func slotSpec(serviceID uuid.UUID, date, start string) CreateRequest {
	return CreateRequest{
		ServiceID:   serviceID.String(),
		Date:        date,
		StartTime:   start,
		EndTime:     "23:59",
		MaxCapacity: 3,
	}
}

func TestBulkCreateIdempotent(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	serviceID := uuid.New()

	req := &BulkCreateRequest{Slots: []CreateRequest{
		slotSpec(serviceID, "2025-06-15", "09:00"),
		slotSpec(serviceID, "2025-06-15", "10:00"),
	}}

	result, err := svc.BulkCreate(context.Background(), req)
	if err != nil {
		t.Fatalf("BulkCreate() error = %v", err)
	}
	if result.Created != 2 || result.Skipped != 0 {
		t.Fatalf("first run = %+v, want 2 created", result)
	}

	// same batch again plus one new slot
	req.Slots = append(req.Slots, slotSpec(serviceID, "2025-06-15", "11:00"))
	result, err = svc.BulkCreate(context.Background(), req)
	if err != nil {
		t.Fatalf("BulkCreate() error = %v", err)
	}
	if result.Created != 1 || result.Skipped != 2 {
		t.Errorf("second run = %+v, want 1 created 2 skipped", result)
	}
	if len(repo.slots) != 3 {
		t.Errorf("stored %d slots, want 3", len(repo.slots))
	}
}

func TestBulkCreateSkipsBadEntries(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	serviceID := uuid.New()

	req := &BulkCreateRequest{Slots: []CreateRequest{
		slotSpec(serviceID, "2025-06-15", "09:00"),
		{ServiceID: "not-a-uuid", Date: "2025-06-15", StartTime: "10:00", EndTime: "11:00", MaxCapacity: 1},
		{ServiceID: serviceID.String(), Date: "15/06/2025", StartTime: "11:00", EndTime: "12:00", MaxCapacity: 1},
	}}

	result, err := svc.BulkCreate(context.Background(), req)
	if err != nil {
		t.Fatalf("BulkCreate() error = %v", err)
	}
	if result.Created != 1 || result.Skipped != 2 {
		t.Errorf("result = %+v, want 1 created 2 skipped", result)
	}
}

func TestBulkDeleteRequiresConfirmation(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	serviceID := uuid.New()

	if _, err := svc.BulkCreate(context.Background(), &BulkCreateRequest{Slots: []CreateRequest{
		slotSpec(serviceID, "2025-06-15", "09:00"),
		slotSpec(serviceID, "2025-06-16", "09:00"),
	}}); err != nil {
		t.Fatalf("BulkCreate() error = %v", err)
	}
	repo.booked = 1

	req := &BulkDeleteRequest{
		ServiceID: serviceID.String(),
		DateFrom:  "2025-06-01",
		DateTo:    "2025-06-30",
	}
	result, err := svc.BulkDelete(context.Background(), req)
	if !errors.Is(err, ErrRequiresConfirmation) {
		t.Fatalf("BulkDelete() error = %v, want ErrRequiresConfirmation", err)
	}
	if !result.Blocked || result.Matched != 2 || result.Booked != 1 {
		t.Errorf("preview = %+v, want blocked with 2 matched 1 booked", result)
	}
	if len(repo.slots) != 2 {
		t.Error("slots deleted without confirmation")
	}

	req.Force = true
	result, err = svc.BulkDelete(context.Background(), req)
	if err != nil {
		t.Fatalf("forced BulkDelete() error = %v", err)
	}
	if result.Deleted != 2 {
		t.Errorf("Deleted = %d, want 2", result.Deleted)
	}
	if len(repo.slots) != 0 {
		t.Errorf("%d slots remain after forced delete", len(repo.slots))
	}
}

func TestUpdateCapacityGuard(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	serviceID := uuid.New()

	if _, err := svc.BulkCreate(context.Background(), &BulkCreateRequest{Slots: []CreateRequest{
		slotSpec(serviceID, "2025-06-15", "09:00"),
	}}); err != nil {
		t.Fatalf("BulkCreate() error = %v", err)
	}
	var slotID uuid.UUID
	for _, s := range repo.slots {
		slotID = s.ID
	}
	repo.booked = 2

	lower := 1
	if _, err := svc.Update(context.Background(), slotID, UpdateRequest{MaxCapacity: &lower}); !errors.Is(err, ErrCapacityBelowBooked) {
		t.Fatalf("Update() error = %v, want ErrCapacityBelowBooked", err)
	}

	raise := 5
	slot, err := svc.Update(context.Background(), slotID, UpdateRequest{MaxCapacity: &raise})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if slot.MaxCapacity != 5 {
		t.Errorf("MaxCapacity = %d, want 5", slot.MaxCapacity)
	}
}

func TestBulkDeleteUnbookedProceedsWithoutForce(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	serviceID := uuid.New()

	if _, err := svc.BulkCreate(context.Background(), &BulkCreateRequest{Slots: []CreateRequest{
		slotSpec(serviceID, "2025-06-15", "09:00"),
	}}); err != nil {
		t.Fatalf("BulkCreate() error = %v", err)
	}

	result, err := svc.BulkDelete(context.Background(), &BulkDeleteRequest{
		ServiceID: serviceID.String(),
		DateFrom:  "2025-06-01",
		DateTo:    "2025-06-30",
	})
	if err != nil {
		t.Fatalf("BulkDelete() error = %v", err)
	}
	if result.Deleted != 1 || result.Blocked {
		t.Errorf("result = %+v, want 1 deleted unblocked", result)
	}
}
