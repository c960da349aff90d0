package service

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Service represents a bookable photography service (self photo, graduation,
// wedding, and so on). Graduation-type services collect faculty/university
// from the customer; services with HasTimeSlots require a slot at booking.
type Service struct {
	ID                 uuid.UUID `db:"id"`
	Name               string    `db:"name"`
	BasePrice          int64     `db:"base_price"`
	DiscountPercentage int       `db:"discount_percentage"`
	HasTimeSlots       bool      `db:"has_time_slots"`
	RequiresFaculty    bool      `db:"requires_faculty"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// Package represents a priced tier of a service.
type Package struct {
	ID          uuid.UUID      `db:"id"`
	ServiceID   uuid.UUID      `db:"service_id"`
	PackageName string         `db:"package_name"`
	Price       int64          `db:"price"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}
