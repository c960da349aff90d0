package promo

import "errors"

var (
	ErrPromoNotFound   = errors.New("promo code not found")
	ErrPromoInactive   = errors.New("promo code is inactive")
	ErrServiceMismatch = errors.New("promo code is not valid for this service")
	ErrNotYetValid     = errors.New("promo code is not yet valid")
	ErrPromoExpired    = errors.New("promo code has expired")
	ErrLimitReached    = errors.New("promo code usage limit reached")
	ErrDuplicateCode   = errors.New("promo code already exists")
	ErrPromoInUse      = errors.New("promo code has been used and cannot be deleted")
	ErrInvalidDiscount = errors.New("percentage discount cannot exceed 100")
	ErrNoFieldsToSet   = errors.New("no fields to update")
)
