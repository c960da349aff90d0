package booking

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type PaymentType string

const (
	PaymentDownPayment PaymentType = "down_payment"
	PaymentFull        PaymentType = "full_payment"
)

// Booking is a confirmed customer reservation. TotalPrice is the amount the
// customer owes now: the discounted price, halved for down payments.
type Booking struct {
	ID             uuid.UUID      `db:"id"`
	BookingCode    string         `db:"booking_code"`
	CustomerName   string         `db:"customer_name"`
	PhoneNumber    string         `db:"phone_number"`
	ServiceID      uuid.UUID      `db:"service_id"`
	PackageID      uuid.UUID      `db:"package_id"`
	TimeSlotID     uuid.NullUUID  `db:"time_slot_id"`
	BookingDate    time.Time      `db:"booking_date"`
	Faculty        sql.NullString `db:"faculty"`
	University     sql.NullString `db:"university"`
	PromoCodeID    uuid.NullUUID  `db:"promo_code_id"`
	PaymentType    PaymentType    `db:"payment_type"`
	BasePrice      int64          `db:"base_price"`
	DiscountAmount int64          `db:"discount_amount"`
	TotalPrice     int64          `db:"total_price"`
	PaymentProof   sql.NullString `db:"payment_proof"`
	Status         Status         `db:"status"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`

	// populated by joins on list and detail queries
	ServiceName string         `db:"service_name"`
	PackageName string         `db:"package_name"`
	PromoCode   sql.NullString `db:"promo_code"`
}

func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
