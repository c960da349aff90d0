package promo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const promoColumns = `id, code, discount_type, discount_value, service_id, usage_limit,
	used_count, valid_from, valid_until, is_active, created_at, updated_at`

func (r *Repository) List(ctx context.Context) ([]PromoCode, error) {
	promos := []PromoCode{}
	query := fmt.Sprintf(`SELECT %s FROM promo_codes ORDER BY created_at DESC`, promoColumns)
	if err := r.db.SelectContext(ctx, &promos, query); err != nil {
		return nil, fmt.Errorf("failed to list promo codes: %w", err)
	}
	return promos, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*PromoCode, error) {
	var promo PromoCode
	query := fmt.Sprintf(`SELECT %s FROM promo_codes WHERE id = $1`, promoColumns)
	err := r.db.GetContext(ctx, &promo, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPromoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get promo code: %w", err)
	}
	return &promo, nil
}

func (r *Repository) GetByCode(ctx context.Context, code string) (*PromoCode, error) {
	var promo PromoCode
	query := fmt.Sprintf(`SELECT %s FROM promo_codes WHERE code = $1`, promoColumns)
	err := r.db.GetContext(ctx, &promo, query, NormalizeCode(code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPromoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get promo code: %w", err)
	}
	return &promo, nil
}

func (r *Repository) Create(ctx context.Context, promo *PromoCode) error {
	query := fmt.Sprintf(`
		INSERT INTO promo_codes (code, discount_type, discount_value, service_id,
			usage_limit, valid_from, valid_until, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING %s`, promoColumns)

	err := r.db.GetContext(ctx, promo, query,
		promo.Code, promo.DiscountType, promo.DiscountValue, promo.ServiceID,
		promo.UsageLimit, promo.ValidFrom, promo.ValidUntil, promo.IsActive)
	if isUniqueViolation(err) {
		return ErrDuplicateCode
	}
	if err != nil {
		return fmt.Errorf("failed to create promo code: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*PromoCode, error) {
	setClauses := []string{}
	args := []interface{}{}
	idx := 1

	if req.Code != nil {
		setClauses = append(setClauses, fmt.Sprintf("code = $%d", idx))
		args = append(args, NormalizeCode(*req.Code))
		idx++
	}
	if req.DiscountType != nil {
		setClauses = append(setClauses, fmt.Sprintf("discount_type = $%d", idx))
		args = append(args, *req.DiscountType)
		idx++
	}
	if req.DiscountValue != nil {
		setClauses = append(setClauses, fmt.Sprintf("discount_value = $%d", idx))
		args = append(args, *req.DiscountValue)
		idx++
	}
	if req.ServiceID != nil {
		setClauses = append(setClauses, fmt.Sprintf("service_id = $%d", idx))
		if *req.ServiceID == "" {
			args = append(args, nil)
		} else {
			args = append(args, *req.ServiceID)
		}
		idx++
	}
	if req.UsageLimit != nil {
		setClauses = append(setClauses, fmt.Sprintf("usage_limit = $%d", idx))
		if *req.UsageLimit == 0 {
			args = append(args, nil)
		} else {
			args = append(args, *req.UsageLimit)
		}
		idx++
	}
	if req.ValidFrom != nil {
		setClauses = append(setClauses, fmt.Sprintf("valid_from = $%d", idx))
		args = append(args, nullableDate(*req.ValidFrom))
		idx++
	}
	if req.ValidUntil != nil {
		setClauses = append(setClauses, fmt.Sprintf("valid_until = $%d", idx))
		args = append(args, nullableDate(*req.ValidUntil))
		idx++
	}
	if req.IsActive != nil {
		setClauses = append(setClauses, fmt.Sprintf("is_active = $%d", idx))
		args = append(args, *req.IsActive)
		idx++
	}

	if len(setClauses) == 0 {
		return nil, ErrNoFieldsToSet
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE promo_codes SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), idx, promoColumns)

	var promo PromoCode
	err := r.db.GetContext(ctx, &promo, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPromoNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicateCode
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update promo code: %w", err)
	}
	return &promo, nil
}

// Delete removes a promo code that has never been redeemed. Codes with
// recorded usage are deactivated instead so usage history stays intact.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (deleted bool, err error) {
	var usedCount int64
	err = r.db.GetContext(ctx, &usedCount, `SELECT used_count FROM promo_codes WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrPromoNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to check promo usage: %w", err)
	}

	if usedCount > 0 {
		_, err = r.db.ExecContext(ctx,
			`UPDATE promo_codes SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
		if err != nil {
			return false, fmt.Errorf("failed to deactivate promo code: %w", err)
		}
		return false, nil
	}

	_, err = r.db.ExecContext(ctx, `DELETE FROM promo_codes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete promo code: %w", err)
	}
	return true, nil
}

// RedeemTx locks the promo row inside the caller's transaction, re-checks the
// usage limit, bumps used_count and records the redemption. The caller owns
// commit and rollback.
func (r *Repository) RedeemTx(ctx context.Context, tx *sqlx.Tx, promoID, bookingID uuid.UUID, customerPhone string, discountAmount int64) error {
	var usedCount int64
	var usageLimit sql.NullInt64
	err := tx.QueryRowContext(ctx,
		`SELECT used_count, usage_limit FROM promo_codes WHERE id = $1 FOR UPDATE`,
		promoID).Scan(&usedCount, &usageLimit)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPromoNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock promo code: %w", err)
	}

	if usageLimit.Valid && usedCount >= usageLimit.Int64 {
		return ErrLimitReached
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE promo_codes SET used_count = used_count + 1, updated_at = NOW() WHERE id = $1`,
		promoID)
	if err != nil {
		return fmt.Errorf("failed to increment promo usage: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO promo_usage (promo_code_id, booking_id, customer_phone, discount_amount, used_at)
		VALUES ($1, $2, $3, $4, NOW())`,
		promoID, bookingID, customerPhone, discountAmount)
	if err != nil {
		return fmt.Errorf("failed to record promo usage: %w", err)
	}
	return nil
}

func (r *Repository) ListUsage(ctx context.Context, promoID uuid.UUID) ([]PromoUsage, error) {
	usage := []PromoUsage{}
	err := r.db.SelectContext(ctx, &usage, `
		SELECT id, promo_code_id, booking_id, customer_phone, discount_amount, used_at
		FROM promo_usage
		WHERE promo_code_id = $1
		ORDER BY used_at DESC`, promoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list promo usage: %w", err)
	}
	return usage, nil
}

func nullableDate(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
