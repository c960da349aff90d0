package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const bookingColumns = `b.id, b.booking_code, b.customer_name, b.phone_number, b.service_id,
	b.package_id, b.time_slot_id, b.booking_date, b.faculty, b.university, b.promo_code_id,
	b.payment_type, b.base_price, b.discount_amount, b.total_price,
	b.payment_proof, b.status, b.created_at, b.updated_at,
	s.name AS service_name, p.package_name, pc.code AS promo_code`

const bookingJoins = `
	FROM bookings b
	JOIN services s ON s.id = b.service_id
	JOIN service_packages p ON p.id = b.package_id
	LEFT JOIN promo_codes pc ON pc.id = b.promo_code_id`

// CreateWithReservation inserts the booking and then runs the supplied steps
// inside the same transaction. Any step failing rolls everything back,
// including the booking row itself.
func (r *Repository) CreateWithReservation(ctx context.Context, b *Booking, steps ...func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO bookings (booking_code, customer_name, phone_number, service_id,
			package_id, time_slot_id, booking_date, faculty, university, promo_code_id,
			payment_type, base_price, discount_amount, total_price,
			payment_proof, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		b.BookingCode, b.CustomerName, b.PhoneNumber, b.ServiceID, b.PackageID,
		b.TimeSlotID, b.BookingDate, b.Faculty, b.University, b.PromoCodeID,
		b.PaymentType, b.BasePrice, b.DiscountAmount, b.TotalPrice,
		b.PaymentProof, b.Status).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	for _, step := range steps {
		if err := step(tx); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Booking, int, error) {
	where := []string{}
	args := []interface{}{}
	idx := 1

	if filter.Status != "" {
		where = append(where, fmt.Sprintf("b.status = $%d", idx))
		args = append(args, filter.Status)
		idx++
	}
	if filter.ServiceID != nil {
		where = append(where, fmt.Sprintf("b.service_id = $%d", idx))
		args = append(args, *filter.ServiceID)
		idx++
	}
	if filter.Month != "" {
		where = append(where, fmt.Sprintf("to_char(b.booking_date, 'YYYY-MM') = $%d", idx))
		args = append(args, filter.Month)
		idx++
	} else if filter.Date != nil {
		where = append(where, fmt.Sprintf("b.booking_date = $%d", idx))
		args = append(args, filter.Date.Format("2006-01-02"))
		idx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) %s %s`, bookingJoins, whereClause)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY b.created_at DESC LIMIT $%d OFFSET $%d`,
		bookingColumns, bookingJoins, whereClause, idx, idx+1)
	args = append(args, limit, (page-1)*limit)

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, total, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var b Booking
	query := fmt.Sprintf(`SELECT %s %s WHERE b.id = $1`, bookingColumns, bookingJoins)
	err := r.db.GetContext(ctx, &b, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

func (r *Repository) GetByCode(ctx context.Context, code string) (*Booking, error) {
	var b Booking
	query := fmt.Sprintf(`SELECT %s %s WHERE b.booking_code = $1`, bookingColumns, bookingJoins)
	err := r.db.GetContext(ctx, &b, query, strings.ToUpper(strings.TrimSpace(code)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// DeleteWithRelease removes the booking and runs the supplied cleanup steps
// (slot release) in one transaction. Promo redemptions are intentionally not
// reversed; the usage history stays.
func (r *Repository) DeleteWithRelease(ctx context.Context, id uuid.UUID, steps ...func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, step := range steps {
		if err := step(tx); err != nil {
			return err
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrBookingNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking delete: %w", err)
	}
	return nil
}

// Stats aggregates the admin dashboard counters for a month ("2006-01") or,
// when month is empty, all time.
func (r *Repository) Stats(ctx context.Context, month string) (map[string]interface{}, error) {
	where := ""
	args := []interface{}{}
	if month != "" {
		where = "WHERE to_char(booking_date, 'YYYY-MM') = $1"
		args = append(args, month)
	}

	var stats struct {
		Total     int   `db:"total"`
		Pending   int   `db:"pending"`
		Confirmed int   `db:"confirmed"`
		Completed int   `db:"completed"`
		Cancelled int   `db:"cancelled"`
		Revenue   int64 `db:"revenue"`
	}
	query := fmt.Sprintf(`
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'confirmed') AS confirmed,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled,
			COALESCE(SUM(total_price) FILTER (WHERE status IN ('confirmed', 'completed')), 0) AS revenue
		FROM bookings %s`, where)
	if err := r.db.GetContext(ctx, &stats, query, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate booking stats: %w", err)
	}

	return map[string]interface{}{
		"total":     stats.Total,
		"pending":   stats.Pending,
		"confirmed": stats.Confirmed,
		"completed": stats.Completed,
		"cancelled": stats.Cancelled,
		"revenue":   stats.Revenue,
	}, nil
}
