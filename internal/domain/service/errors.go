package service

import "errors"

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrPackageNotFound = errors.New("package not found")
	ErrServiceInUse    = errors.New("service has bookings and cannot be deleted")
	ErrPackageInUse    = errors.New("package has bookings and cannot be deleted")
	ErrNoFieldsToSet   = errors.New("no fields to update")
)
