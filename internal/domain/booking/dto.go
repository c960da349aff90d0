package booking

import (
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// CreateRequest carries the multipart form fields of the public booking
// endpoint. The payment proof file itself travels separately.
type CreateRequest struct {
	CustomerName string  `json:"customerName" validate:"required,min=2,max=120"`
	PhoneNumber  string  `json:"phoneNumber" validate:"required,min=8,max=20"`
	ServiceID    string  `json:"serviceId" validate:"required,uuid"`
	PackageID    string  `json:"packageId" validate:"required,uuid"`
	BookingDate  string  `json:"bookingDate" validate:"required,datetime=2006-01-02"`
	TimeSlotID   *string `json:"timeSlotId" validate:"omitempty,uuid"`
	Faculty      *string `json:"faculty" validate:"omitempty,max=120"`
	University   *string `json:"university" validate:"omitempty,max=120"`
	PromoCode    *string `json:"promoCode" validate:"omitempty,max=32"`
	PaymentType  string  `json:"paymentType" validate:"required,payment_type"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,booking_status"`
}

// ListFilter narrows the admin booking list. Month is "2006-01" and wins
// over Date when both are set.
type ListFilter struct {
	Status    string
	ServiceID *uuid.UUID
	Date      *time.Time
	Month     string
	Page      int
	Limit     int
}

type CreateResponse struct {
	BookingID   uuid.UUID `json:"bookingId"`
	BookingCode string    `json:"bookingCode"`
	TotalPrice  int64     `json:"totalPrice"`
}

type BookingResponse struct {
	ID             uuid.UUID `json:"id"`
	BookingCode    string    `json:"bookingCode"`
	CustomerName   string    `json:"customerName"`
	PhoneNumber    string    `json:"phoneNumber"`
	ServiceID      uuid.UUID `json:"serviceId"`
	ServiceName    string    `json:"serviceName"`
	PackageID      uuid.UUID `json:"packageId"`
	PackageName    string    `json:"packageName"`
	TimeSlotID     *string   `json:"timeSlotId"`
	BookingDate    string    `json:"bookingDate"`
	Faculty        *string   `json:"faculty"`
	University     *string   `json:"university"`
	PromoCode      *string   `json:"promoCode"`
	PaymentType    string    `json:"paymentType"`
	BasePrice      int64     `json:"basePrice"`
	DiscountAmount int64     `json:"discountAmount"`
	TotalPrice     int64     `json:"totalPrice"`
	PaymentProof   *string   `json:"paymentProof"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (b *Booking) ToResponse() BookingResponse {
	resp := BookingResponse{
		ID:             b.ID,
		BookingCode:    b.BookingCode,
		CustomerName:   b.CustomerName,
		PhoneNumber:    b.PhoneNumber,
		ServiceID:      b.ServiceID,
		ServiceName:    b.ServiceName,
		PackageID:      b.PackageID,
		PackageName:    b.PackageName,
		BookingDate:    b.BookingDate.Format(dateLayout),
		PaymentType:    string(b.PaymentType),
		BasePrice:      b.BasePrice,
		DiscountAmount: b.DiscountAmount,
		TotalPrice:     b.TotalPrice,
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt,
	}
	if b.TimeSlotID.Valid {
		s := b.TimeSlotID.UUID.String()
		resp.TimeSlotID = &s
	}
	if b.Faculty.Valid {
		resp.Faculty = &b.Faculty.String
	}
	if b.University.Valid {
		resp.University = &b.University.String
	}
	if b.PromoCode.Valid {
		resp.PromoCode = &b.PromoCode.String
	}
	if b.PaymentProof.Valid {
		resp.PaymentProof = &b.PaymentProof.String
	}
	return resp
}
