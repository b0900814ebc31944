package utils

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileInput struct {
	Name    string  `validate:"required,max=10"`
	Avatar  *string `validate:"omitempty,url"`
	Price   float64 `validate:"gte=0"`
	Level   string  `validate:"omitempty,oneof=beginner advanced"`
	Country string  `validate:"omitempty,alpha"`
}

func TestValidateStruct(t *testing.T) {
	badURL := "not a url"

	tests := []struct {
		name   string
		input  profileInput
		fields map[string]string
	}{
		{
			name:  "valid",
			input: profileInput{Name: "Ada", Price: 10, Level: "advanced"},
		},
		{
			name:   "missing required",
			input:  profileInput{},
			fields: map[string]string{"Name": "Name is required"},
		},
		{
			name:   "too long",
			input:  profileInput{Name: "Ada Lovelace Byron"},
			fields: map[string]string{"Name": "Name must be at most 10"},
		},
		{
			name:   "bad url",
			input:  profileInput{Name: "Ada", Avatar: &badURL},
			fields: map[string]string{"Avatar": "Avatar must be a valid URL"},
		},
		{
			name:   "negative price",
			input:  profileInput{Name: "Ada", Price: -1},
			fields: map[string]string{"Price": "Price must be greater than or equal to 0"},
		},
		{
			name:   "not one of",
			input:  profileInput{Name: "Ada", Level: "expert"},
			fields: map[string]string{"Level": "Level must be one of: beginner advanced"},
		},
		{
			name:   "unmapped tag",
			input:  profileInput{Name: "Ada", Country: "U5"},
			fields: map[string]string{"Country": "Country validation failed on 'alpha' tag"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.Equal(t, "Validation failed", err.Error())
			assert.Equal(t, tt.fields, GetValidationFields(err))
		})
	}
}

func TestValidateStructRejectsNonStruct(t *testing.T) {
	err := ValidateStruct("plain string")
	assert.Error(t, err)
	assert.False(t, IsValidationError(err))
}

func TestValidationErrorWrapped(t *testing.T) {
	base := &ValidationError{Message: "Invalid min_price"}
	wrapped := fmt.Errorf("parse filter: %w", base)

	assert.True(t, IsValidationError(wrapped))
	assert.Nil(t, GetValidationFields(wrapped))
	assert.Nil(t, GetValidationFields(assert.AnError))
}

func TestValidateUUID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "0b3e8f8e-7d1c-4c55-9b9e-1f3c2a7d8e10", false},
		{"uppercase", "0B3E8F8E-7D1C-4C55-9B9E-1F3C2A7D8E10", false},
		{"empty", "", true},
		{"garbage", "abc", true},
		{"truncated", "0b3e8f8e-7d1c-4c55-9b9e", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUUID(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
