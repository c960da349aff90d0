package promo

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// DiscountType determines how a promo code reduces the price
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// PromoCode represents a discount token. Codes are stored uppercase and
// matched case-insensitively. A nil ServiceID means the code applies to
// every service; a nil UsageLimit means unlimited redemptions.
type PromoCode struct {
	ID            uuid.UUID     `db:"id"`
	Code          string        `db:"code"`
	DiscountType  DiscountType  `db:"discount_type"`
	DiscountValue int64         `db:"discount_value"`
	ServiceID     uuid.NullUUID `db:"service_id"`
	UsageLimit    sql.NullInt64 `db:"usage_limit"`
	UsedCount     int64         `db:"used_count"`
	ValidFrom     sql.NullTime  `db:"valid_from"`
	ValidUntil    sql.NullTime  `db:"valid_until"`
	IsActive      bool          `db:"is_active"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

// IsExhausted returns true when the usage limit is set and reached
func (p *PromoCode) IsExhausted() bool {
	return p.UsageLimit.Valid && p.UsedCount >= p.UsageLimit.Int64
}

// DiscountAmount computes the discount against a price. Fixed discounts are
// capped at the price so the result is never negative.
func (p *PromoCode) DiscountAmount(price int64) int64 {
	switch p.DiscountType {
	case DiscountPercentage:
		return price * p.DiscountValue / 100
	case DiscountFixed:
		if p.DiscountValue > price {
			return price
		}
		return p.DiscountValue
	}
	return 0
}

// PromoUsage records one redemption of a promo code, for audit and stats
type PromoUsage struct {
	ID             uuid.UUID `db:"id"`
	PromoCodeID    uuid.UUID `db:"promo_code_id"`
	BookingID      uuid.UUID `db:"booking_id"`
	CustomerPhone  string    `db:"customer_phone"`
	DiscountAmount int64     `db:"discount_amount"`
	UsedAt         time.Time `db:"used_at"`
}
