package timeslot

import "errors"

var (
	ErrSlotNotFound         = errors.New("time slot not found")
	ErrSlotFull             = errors.New("time slot is fully booked")
	ErrSlotHasBookings      = errors.New("time slot has bookings and cannot be deleted")
	ErrRequiresConfirmation = errors.New("bulk delete affects booked slots and requires confirmation")
	ErrCapacityBelowBooked  = errors.New("max capacity cannot go below current bookings")
	ErrNoFieldsToSet        = errors.New("no fields to update")
)
