package timeslot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const slotColumns = `
	ts.id, ts.service_id, ts.date, ts.start_time, ts.end_time, ts.max_capacity, ts.created_at,
	(SELECT COUNT(*) FROM time_slot_bookings tsb WHERE tsb.time_slot_id = ts.id) AS current_bookings`

// Repository handles time slot database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new time slot repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// List returns slots filtered by service and/or date, with booking counts
func (r *Repository) List(ctx context.Context, serviceID *uuid.UUID, date *time.Time) ([]TimeSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots ts WHERE 1=1`
	args := make([]interface{}, 0, 2)

	if serviceID != nil {
		args = append(args, *serviceID)
		query += ` AND ts.service_id = $1`
	}
	if date != nil {
		args = append(args, *date)
		if serviceID != nil {
			query += ` AND ts.date = $2`
		} else {
			query += ` AND ts.date = $1`
		}
	}
	query += ` ORDER BY ts.date, ts.start_time`

	slots := make([]TimeSlot, 0)
	err := r.db.SelectContext(ctx, &slots, query, args...)
	return slots, err
}

// GetByID returns a slot with its booking count
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*TimeSlot, error) {
	var s TimeSlot
	err := r.db.GetContext(ctx, &s, `SELECT `+slotColumns+` FROM time_slots ts WHERE ts.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Exists reports whether a slot with the same (service_id, date, start_time)
// triple already exists. Used for idempotent bulk creation.
func (r *Repository) Exists(ctx context.Context, serviceID uuid.UUID, date time.Time, startTime string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM time_slots
		WHERE service_id = $1 AND date = $2 AND start_time = $3
	`, serviceID, date, startTime)
	return count > 0, err
}

// Create inserts a new slot
func (r *Repository) Create(ctx context.Context, s *TimeSlot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO time_slots (id, service_id, date, start_time, end_time, max_capacity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.ServiceID, s.Date, s.StartTime, s.EndTime, s.MaxCapacity, s.CreatedAt)
	return err
}

// Update patches a slot. The capacity check runs against the live
// reservation count so an admin cannot shrink a slot below what is already
// booked.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*TimeSlot, error) {
	setClauses := []string{}
	args := []interface{}{}
	idx := 1

	if req.Date != nil {
		date, err := ParseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		setClauses = append(setClauses, fmt.Sprintf("date = $%d", idx))
		args = append(args, date)
		idx++
	}
	if req.StartTime != nil {
		setClauses = append(setClauses, fmt.Sprintf("start_time = $%d", idx))
		args = append(args, *req.StartTime)
		idx++
	}
	if req.EndTime != nil {
		setClauses = append(setClauses, fmt.Sprintf("end_time = $%d", idx))
		args = append(args, *req.EndTime)
		idx++
	}
	if req.MaxCapacity != nil {
		var current int
		if err := r.db.GetContext(ctx, &current,
			`SELECT COUNT(*) FROM time_slot_bookings WHERE time_slot_id = $1`, id); err != nil {
			return nil, err
		}
		if *req.MaxCapacity < current {
			return nil, ErrCapacityBelowBooked
		}
		setClauses = append(setClauses, fmt.Sprintf("max_capacity = $%d", idx))
		args = append(args, *req.MaxCapacity)
		idx++
	}

	if len(setClauses) == 0 {
		return nil, ErrNoFieldsToSet
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE time_slots SET %s WHERE id = $%d`,
		strings.Join(setClauses, ", "), idx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, ErrSlotNotFound
	}
	return r.GetByID(ctx, id)
}

// ReserveTx reserves one capacity unit for a booking within an external
// transaction. The slot row is locked with FOR UPDATE so the capacity check
// and the reservation insert are atomic; two concurrent bookings cannot both
// take the last unit. The caller owns commit/rollback.
func (r *Repository) ReserveTx(ctx context.Context, tx *sqlx.Tx, slotID, bookingID uuid.UUID) error {
	var maxCapacity int
	err := tx.QueryRowContext(ctx, `SELECT max_capacity FROM time_slots WHERE id = $1 FOR UPDATE`, slotID).Scan(&maxCapacity)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSlotNotFound
	}
	if err != nil {
		return err
	}

	// Fresh count inside the lock; never cached
	var current int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM time_slot_bookings WHERE time_slot_id = $1`, slotID).Scan(&current); err != nil {
		return err
	}
	if current >= maxCapacity {
		return ErrSlotFull
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO time_slot_bookings (time_slot_id, booking_id, created_at)
		VALUES ($1, $2, NOW())
	`, slotID, bookingID)
	return err
}

// ReleaseTx frees the capacity unit held by a booking, within an external
// transaction. Releasing a booking that holds no reservation is a no-op.
func (r *Repository) ReleaseTx(ctx context.Context, tx *sqlx.Tx, bookingID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM time_slot_bookings WHERE booking_id = $1`, bookingID)
	return err
}

// Delete removes a slot. Fails if any booking holds a reservation on it.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM time_slot_bookings WHERE time_slot_id = $1`, id); err != nil {
		return err
	}
	if count > 0 {
		return ErrSlotHasBookings
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM time_slots WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// CountInRange returns total and booked slot counts for a service within a
// date range. Used to preview bulk deletes.
func (r *Repository) CountInRange(ctx context.Context, serviceID uuid.UUID, from, to time.Time) (matched, booked int, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE EXISTS (
				SELECT 1 FROM time_slot_bookings tsb WHERE tsb.time_slot_id = time_slots.id
			))
		FROM time_slots
		WHERE service_id = $1 AND date BETWEEN $2 AND $3
	`, serviceID, from, to).Scan(&matched, &booked)
	return matched, booked, err
}

// DeleteInRange deletes every slot for a service within a date range,
// including booked ones. Reservation rows go first so the foreign key
// holds; the whole sweep is one transaction.
func (r *Repository) DeleteInRange(ctx context.Context, serviceID uuid.UUID, from, to time.Time) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM time_slot_bookings
		WHERE time_slot_id IN (
			SELECT id FROM time_slots WHERE service_id = $1 AND date BETWEEN $2 AND $3
		)
	`, serviceID, from, to)
	if err != nil {
		return 0, err
	}

	result, err := tx.ExecContext(ctx, `
		DELETE FROM time_slots WHERE service_id = $1 AND date BETWEEN $2 AND $3
	`, serviceID, from, to)
	if err != nil {
		return 0, err
	}

	deleted, _ := result.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(deleted), nil
}
