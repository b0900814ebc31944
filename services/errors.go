package services

import (
	"errors"
	"fmt"
)

// ErrorType classifies a DomainError; handlers map it to a status code
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeInternal     ErrorType = "internal"
	ErrorTypeExternal     ErrorType = "external"
)

// DomainError is what services return. Message is safe to show to clients;
// Err is the cause and stays in the logs.
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError of the same type, so a wrapped sentinel
// still satisfies errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && e.Type == t.Type && (t.Message == "" || t.Message == e.Message)
}

// WithDetail returns a copy of e carrying key=value in its details.
// Sentinels are shared, so they are never modified in place.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	out := *e
	out.Details = make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		out.Details[k] = v
	}
	out.Details[key] = value
	return &out
}

// NewDomainError creates a DomainError
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

var (
	ErrUserNotFound   = NewDomainError(ErrorTypeNotFound, "User not found", nil)
	ErrCourseNotFound = NewDomainError(ErrorTypeNotFound, "Course not found", nil)
	ErrPostNotFound   = NewDomainError(ErrorTypeNotFound, "Post not found", nil)
	ErrSpaceNotFound  = NewDomainError(ErrorTypeNotFound, "Space not found", nil)
	ErrThreadNotFound = NewDomainError(ErrorTypeNotFound, "Thread not found", nil)

	ErrNoUpdateData = NewDomainError(ErrorTypeValidation, "No data to update", nil)

	ErrUnauthorized = NewDomainError(ErrorTypeUnauthorized, "Missing or invalid authorization", nil)

	ErrNotCourseOwner = NewDomainError(ErrorTypeForbidden, "Not authorized to update this course", nil)
	ErrNotPostEditor  = NewDomainError(ErrorTypeForbidden, "Not authorized to edit this post", nil)
	ErrNotPostDeleter = NewDomainError(ErrorTypeForbidden, "Not authorized to delete this post", nil)

	ErrProfileCreation = NewDomainError(ErrorTypeInternal, "Could not create user profile", nil)
)

// TypeOf returns the type of the first DomainError in err's chain,
// or "" when there is none
func TypeOf(err error) ErrorType {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type
	}
	return ""
}

func IsNotFoundError(err error) bool   { return TypeOf(err) == ErrorTypeNotFound }
func IsValidationError(err error) bool { return TypeOf(err) == ErrorTypeValidation }
func IsForbiddenError(err error) bool  { return TypeOf(err) == ErrorTypeForbidden }
func IsInternalError(err error) bool   { return TypeOf(err) == ErrorTypeInternal }

// GetErrorDetails returns the details of the DomainError in err's chain
func GetErrorDetails(err error) map[string]interface{} {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Details
	}
	return nil
}

// WrapInternal marks err as an internal failure described by message
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}

// WrapExternal marks err as a failure of an upstream dependency
func WrapExternal(message string, err error) error {
	return NewDomainError(ErrorTypeExternal, message, err)
}

// PublicMessage returns the client-facing message of err, or fallback
// when err carries none
func PublicMessage(err error, fallback string) string {
	var de *DomainError
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return fallback
}
