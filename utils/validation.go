package utils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError carries per-field messages keyed by struct field name
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateStruct runs the validate tags on s
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return NewValidationError(fieldErrs)
	}
	return err
}

// NewValidationError converts validator output into a ValidationError
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Field()] = describe(fe)
	}
	return &ValidationError{
		Message: "Validation failed",
		Fields:  fields,
	}
}

// tagMessages holds the readable form of each tag the models use.
// %[1]s is the field, %[2]s the tag parameter.
var tagMessages = map[string]string{
	"required": "%[1]s is required",
	"url":      "%[1]s must be a valid URL",
	"uuid":     "%[1]s must be a valid UUID",
	"max":      "%[1]s must be at most %[2]s",
	"min":      "%[1]s must be at least %[2]s",
	"gte":      "%[1]s must be greater than or equal to %[2]s",
	"lte":      "%[1]s must be less than or equal to %[2]s",
	"oneof":    "%[1]s must be one of: %[2]s",
}

func describe(fe validator.FieldError) string {
	if format, ok := tagMessages[fe.Tag()]; ok {
		return fmt.Sprintf(format, fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s validation failed on '%s' tag", fe.Field(), fe.Tag())
}

// IsValidationError reports whether err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// GetValidationFields returns the field messages of a ValidationError, or nil
func GetValidationFields(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

// ValidateUUID checks that s is a UUID. Supabase subjects and every row id are UUIDs.
func ValidateUUID(s string) error {
	if _, err := uuid.Parse(s); err != nil {
		return fmt.Errorf("invalid UUID format: %q", s)
	}
	return nil
}
