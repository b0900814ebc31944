package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Error(t *testing.T) {
	assert.Equal(t, "not_found: Post not found", ErrPostNotFound.Error())

	wrapped := WrapInternal("Failed to fetch posts", errors.New("connection reset"))
	assert.Equal(t, "internal: Failed to fetch posts (connection reset)", wrapped.Error())
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapInternal("Failed to fetch posts", cause)

	assert.ErrorIs(t, err, cause)
}

func TestDomainError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"same sentinel", ErrPostNotFound, ErrPostNotFound, true},
		{"wrapped sentinel", fmt.Errorf("comment: %w", ErrPostNotFound), ErrPostNotFound, true},
		{"same type other message", ErrCourseNotFound, ErrPostNotFound, false},
		{"type only target", ErrCourseNotFound, &DomainError{Type: ErrorTypeNotFound}, true},
		{"other type", ErrNotPostEditor, ErrPostNotFound, false},
		{"plain error", errors.New("x"), ErrPostNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestDomainError_WithDetail(t *testing.T) {
	base := NewDomainError(ErrorTypeForbidden, "access denied", nil)

	withRole := base.WithDetail("required_role", "teacher").WithDetail("user_role", "student")

	assert.Equal(t, map[string]interface{}{"required_role": "teacher", "user_role": "student"}, withRole.Details)
	assert.Nil(t, base.Details)
	assert.Equal(t, base.Message, withRole.Message)
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"not found", ErrThreadNotFound, ErrorTypeNotFound},
		{"validation", ErrNoUpdateData, ErrorTypeValidation},
		{"forbidden", ErrNotPostDeleter, ErrorTypeForbidden},
		{"internal", ErrProfileCreation, ErrorTypeInternal},
		{"external", WrapExternal("upstream", nil), ErrorTypeExternal},
		{"wrapped", fmt.Errorf("ctx: %w", ErrUserNotFound), ErrorTypeNotFound},
		{"plain", errors.New("x"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
		})
	}
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrSpaceNotFound))
	assert.True(t, IsValidationError(ErrNoUpdateData))
	assert.True(t, IsForbiddenError(ErrNotCourseOwner))
	assert.True(t, IsInternalError(WrapInternal("db", errors.New("x"))))
	assert.False(t, IsNotFoundError(errors.New("x")))
}

func TestGetErrorDetails(t *testing.T) {
	err := fmt.Errorf("guard: %w", ErrNotCourseOwner.WithDetail("course_id", "c-1"))

	details := GetErrorDetails(err)
	require.NotNil(t, details)
	assert.Equal(t, "c-1", details["course_id"])
	assert.Nil(t, GetErrorDetails(errors.New("x")))
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Course not found", PublicMessage(ErrCourseNotFound, "fallback"))
	assert.Equal(t, "fallback", PublicMessage(errors.New("pq: secret detail"), "fallback"))
	assert.Equal(t, "fallback", PublicMessage(NewDomainError(ErrorTypeInternal, "", nil), "fallback"))
}
