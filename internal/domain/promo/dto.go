package promo

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateRequest struct {
	Code          string  `json:"code" validate:"required,min=3,max=32"`
	DiscountType  string  `json:"discountType" validate:"required,discount_type"`
	DiscountValue int64   `json:"discountValue" validate:"required,gt=0"`
	ServiceID     *string `json:"serviceId" validate:"omitempty,uuid"`
	UsageLimit    *int64  `json:"usageLimit" validate:"omitempty,gt=0"`
	ValidFrom     *string `json:"validFrom" validate:"omitempty,datetime=2006-01-02"`
	ValidUntil    *string `json:"validUntil" validate:"omitempty,datetime=2006-01-02"`
	IsActive      *bool   `json:"isActive"`
}

type UpdateRequest struct {
	Code          *string `json:"code" validate:"omitempty,min=3,max=32"`
	DiscountType  *string `json:"discountType" validate:"omitempty,discount_type"`
	DiscountValue *int64  `json:"discountValue" validate:"omitempty,gt=0"`
	ServiceID     *string `json:"serviceId" validate:"omitempty,uuid"`
	UsageLimit    *int64  `json:"usageLimit" validate:"omitempty,gte=0"`
	ValidFrom     *string `json:"validFrom" validate:"omitempty,datetime=2006-01-02"`
	ValidUntil    *string `json:"validUntil" validate:"omitempty,datetime=2006-01-02"`
	IsActive      *bool   `json:"isActive"`
}

type BulkCreateRequest struct {
	Prefix        string  `json:"prefix" validate:"required,min=2,max=16"`
	Count         int     `json:"count" validate:"required,gt=0,lte=500"`
	DiscountType  string  `json:"discountType" validate:"required,discount_type"`
	DiscountValue int64   `json:"discountValue" validate:"required,gt=0"`
	ServiceID     *string `json:"serviceId" validate:"omitempty,uuid"`
	UsageLimit    *int64  `json:"usageLimit" validate:"omitempty,gt=0"`
	ValidFrom     *string `json:"validFrom" validate:"omitempty,datetime=2006-01-02"`
	ValidUntil    *string `json:"validUntil" validate:"omitempty,datetime=2006-01-02"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

type BulkDeleteResult struct {
	Requested int `json:"requested"`
	Deleted   int `json:"deleted"`
	Skipped   int `json:"skipped"`
}

type ValidateRequest struct {
	Code        string `json:"code" validate:"required"`
	ServiceID   string `json:"serviceId" validate:"required,uuid"`
	BookingDate string `json:"bookingDate" validate:"required,datetime=2006-01-02"`
	Price       int64  `json:"price" validate:"omitempty,gte=0"`
}

type ValidateResponse struct {
	Valid          bool   `json:"valid"`
	Code           string `json:"code"`
	DiscountType   string `json:"discountType"`
	DiscountValue  int64  `json:"discountValue"`
	DiscountAmount int64  `json:"discountAmount,omitempty"`
}

type PromoResponse struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	DiscountType  string    `json:"discountType"`
	DiscountValue int64     `json:"discountValue"`
	ServiceID     *string   `json:"serviceId"`
	UsageLimit    *int64    `json:"usageLimit"`
	UsedCount     int64     `json:"usedCount"`
	ValidFrom     *string   `json:"validFrom"`
	ValidUntil    *string   `json:"validUntil"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

type UsageResponse struct {
	ID             uuid.UUID `json:"id"`
	BookingID      uuid.UUID `json:"bookingId"`
	CustomerPhone  string    `json:"customerPhone"`
	DiscountAmount int64     `json:"discountAmount"`
	UsedAt         time.Time `json:"usedAt"`
}

const dateLayout = "2006-01-02"

func (p *PromoCode) ToResponse() PromoResponse {
	resp := PromoResponse{
		ID:            p.ID,
		Code:          p.Code,
		DiscountType:  string(p.DiscountType),
		DiscountValue: p.DiscountValue,
		UsedCount:     p.UsedCount,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
	}
	if p.ServiceID.Valid {
		s := p.ServiceID.UUID.String()
		resp.ServiceID = &s
	}
	if p.UsageLimit.Valid {
		l := p.UsageLimit.Int64
		resp.UsageLimit = &l
	}
	if p.ValidFrom.Valid {
		d := p.ValidFrom.Time.Format(dateLayout)
		resp.ValidFrom = &d
	}
	if p.ValidUntil.Valid {
		d := p.ValidUntil.Time.Format(dateLayout)
		resp.ValidUntil = &d
	}
	return resp
}

func (u *PromoUsage) ToResponse() UsageResponse {
	return UsageResponse{
		ID:             u.ID,
		BookingID:      u.BookingID,
		CustomerPhone:  u.CustomerPhone,
		DiscountAmount: u.DiscountAmount,
		UsedAt:         u.UsedAt,
	}
}

// NormalizeCode uppercases and trims a code before matching or storing
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
