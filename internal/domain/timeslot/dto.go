package timeslot

import "time"

const dateLayout = "2006-01-02"

// CreateRequest for creating a single slot
type CreateRequest struct {
	ServiceID   string `json:"serviceId" validate:"required,uuid4"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime     string `json:"endTime" validate:"required,datetime=15:04"`
	MaxCapacity int    `json:"maxCapacity" validate:"required,gte=1"`
}

// UpdateRequest patches a single slot; nil fields stay unchanged
type UpdateRequest struct {
	Date        *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime   *string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime     *string `json:"endTime" validate:"omitempty,datetime=15:04"`
	MaxCapacity *int    `json:"maxCapacity" validate:"omitempty,gte=1"`
}

// BulkCreateRequest for creating many slots in one call
type BulkCreateRequest struct {
	Slots []CreateRequest `json:"slots" validate:"required,min=1,dive"`
}

// BulkCreateResult reports per-batch outcome counts
type BulkCreateResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// BulkDeleteRequest deletes slots for a service within a date range.
// Force must be set to delete slots that already have bookings.
type BulkDeleteRequest struct {
	ServiceID string `json:"serviceId" validate:"required,uuid4"`
	DateFrom  string `json:"dateFrom" validate:"required,datetime=2006-01-02"`
	DateTo    string `json:"dateTo" validate:"required,datetime=2006-01-02"`
	Force     bool   `json:"force"`
}

// BulkDeleteResult reports what a bulk delete did (or would do)
type BulkDeleteResult struct {
	Matched int  `json:"matched"`
	Booked  int  `json:"booked"`
	Deleted int  `json:"deleted"`
	Blocked bool `json:"blocked"`
}

// Response for API responses
type Response struct {
	ID              string `json:"id"`
	ServiceID       string `json:"serviceId"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	MaxCapacity     int    `json:"maxCapacity"`
	CurrentBookings int    `json:"currentBookings"`
	IsAvailable     bool   `json:"isAvailable"`
}

// ToResponse converts entity to response
func (s *TimeSlot) ToResponse() *Response {
	return &Response{
		ID:              s.ID.String(),
		ServiceID:       s.ServiceID.String(),
		Date:            s.Date.Format(dateLayout),
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		MaxCapacity:     s.MaxCapacity,
		CurrentBookings: s.CurrentBookings,
		IsAvailable:     !s.IsFull(),
	}
}

// ParseDate parses the wire date format used by slot requests
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
