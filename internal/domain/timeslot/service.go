package timeslot

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// repository is the persistence surface the service needs; *Repository
// satisfies it, tests provide stubs.
type repository interface {
	List(ctx context.Context, serviceID *uuid.UUID, date *time.Time) ([]TimeSlot, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TimeSlot, error)
	Exists(ctx context.Context, serviceID uuid.UUID, date time.Time, startTime string) (bool, error)
	Create(ctx context.Context, s *TimeSlot) error
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*TimeSlot, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountInRange(ctx context.Context, serviceID uuid.UUID, from, to time.Time) (int, int, error)
	DeleteInRange(ctx context.Context, serviceID uuid.UUID, from, to time.Time) (int, error)
}

// Service handles time slot business logic
type Service struct {
	repo repository
}

// NewService creates a new time slot service
func NewService(repo repository) *Service {
	return &Service{repo: repo}
}

// List returns slots with availability, optionally filtered
func (s *Service) List(ctx context.Context, serviceID *uuid.UUID, date *time.Time) ([]TimeSlot, error) {
	return s.repo.List(ctx, serviceID, date)
}

// Get returns a single slot
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*TimeSlot, error) {
	return s.repo.GetByID(ctx, id)
}

// Create creates a single slot. Overlapping slots for the same service and
// date are allowed; the studio runs parallel shooting setups.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*TimeSlot, error) {
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, err
	}
	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	slot := &TimeSlot{
		ID:          uuid.New(),
		ServiceID:   serviceID,
		Date:        date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		MaxCapacity: req.MaxCapacity,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// BulkCreate creates slots in a batch, idempotent per
// (service_id, date, start_time): existing triples are skipped, and a
// failure on one slot never fails the whole batch.
func (s *Service) BulkCreate(ctx context.Context, req *BulkCreateRequest) (*BulkCreateResult, error) {
	result := &BulkCreateResult{}

	for i := range req.Slots {
		item := &req.Slots[i]

		serviceID, err := uuid.Parse(item.ServiceID)
		if err != nil {
			result.Skipped++
			continue
		}
		date, err := ParseDate(item.Date)
		if err != nil {
			result.Skipped++
			continue
		}

		exists, err := s.repo.Exists(ctx, serviceID, date, item.StartTime)
		if err != nil {
			log.Error().Err(err).Str("date", item.Date).Str("start", item.StartTime).Msg("Bulk create: existence check failed")
			result.Skipped++
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		slot := &TimeSlot{
			ID:          uuid.New(),
			ServiceID:   serviceID,
			Date:        date,
			StartTime:   item.StartTime,
			EndTime:     item.EndTime,
			MaxCapacity: item.MaxCapacity,
			CreatedAt:   time.Now(),
		}
		if err := s.repo.Create(ctx, slot); err != nil {
			log.Error().Err(err).Str("date", item.Date).Str("start", item.StartTime).Msg("Bulk create: insert failed")
			result.Skipped++
			continue
		}
		result.Created++
	}

	return result, nil
}

// Update patches a slot; capacity can never drop below current bookings.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*TimeSlot, error) {
	return s.repo.Update(ctx, id, req)
}

// Delete removes a single slot; refuses slots with bookings.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// BulkDelete deletes slots for a service within a date range. Without
// force, the presence of any booked slot blocks the delete and returns the
// preview counts so the admin can confirm. With force, everything in range
// goes, booked or not.
func (s *Service) BulkDelete(ctx context.Context, req *BulkDeleteRequest) (*BulkDeleteResult, error) {
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, err
	}
	from, err := ParseDate(req.DateFrom)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate(req.DateTo)
	if err != nil {
		return nil, err
	}

	matched, booked, err := s.repo.CountInRange(ctx, serviceID, from, to)
	if err != nil {
		return nil, err
	}

	result := &BulkDeleteResult{Matched: matched, Booked: booked}

	if booked > 0 && !req.Force {
		result.Blocked = true
		return result, ErrRequiresConfirmation
	}

	deleted, err := s.repo.DeleteInRange(ctx, serviceID, from, to)
	if err != nil {
		return nil, err
	}
	result.Deleted = deleted

	if booked > 0 {
		log.Warn().
			Str("service_id", req.ServiceID).
			Int("booked", booked).
			Int("deleted", deleted).
			Msg("Forced bulk delete removed booked time slots")
	}

	return result, nil
}
