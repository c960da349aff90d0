package booking

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrInvalidStatus   = errors.New("invalid booking status")
	ErrProofRequired   = errors.New("payment proof is required")
	ErrSlotRequired    = errors.New("time slot is required for this service")
	ErrFacultyRequired = errors.New("faculty is required for this service")
	ErrPackageMismatch = errors.New("package does not belong to the selected service")
)
