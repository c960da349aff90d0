package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Payment type validation
	validate.RegisterValidation("payment_type", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		return v == "down_payment" || v == "full_payment"
	})

	// Booking status validation
	validate.RegisterValidation("booking_status", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		switch v {
		case "pending", "confirmed", "completed", "cancelled":
			return true
		}
		return false
	})

	// Promo discount type validation
	validate.RegisterValidation("discount_type", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		return v == "percentage" || v == "fixed"
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gt":
			errors[field] = "Value must be greater than " + err.Param()
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "datetime":
			errors[field] = "Invalid date format (expected " + err.Param() + ")"
		case "payment_type":
			errors[field] = "Invalid payment type. Must be: down_payment or full_payment"
		case "booking_status":
			errors[field] = "Invalid status. Must be: pending, confirmed, completed, or cancelled"
		case "discount_type":
			errors[field] = "Invalid discount type. Must be: percentage or fixed"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
