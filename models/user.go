package models

import (
	"time"
)

// Roles stored in users.role
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// Default profile values for accounts created on first login
const (
	DefaultFirstName = "New"
	DefaultLastName  = "User"
)

// User represents a profile row in the users table. The id is the Supabase auth subject.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FirstName *string    `json:"first_name"`
	LastName  *string    `json:"last_name"`
	AvatarURL *string    `json:"avatar_url"`
	Role      string     `json:"role"`
	Mobile    *string    `json:"mobile"`
	Country   *string    `json:"country"`
	CreatedAt *time.Time `json:"created_at"`
}

// NewStudentProfile creates the default profile for a first-time user
func NewStudentProfile(id, email string) *User {
	first, last := DefaultFirstName, DefaultLastName
	return &User{
		ID:        id,
		Email:     email,
		FirstName: &first,
		LastName:  &last,
		Role:      RoleStudent,
	}
}

// Summary returns the public fields shown next to authored content
func (u *User) Summary() *Teacher {
	return &Teacher{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		AvatarURL: u.AvatarURL,
	}
}

// UserUpdate is a partial profile update; nil fields are left unchanged
type UserUpdate struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Mobile    *string `json:"mobile" validate:"omitempty,max=32"`
	Country   *string `json:"country" validate:"omitempty,max=100"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

// IsEmpty reports whether the update sets no field
func (u *UserUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Mobile == nil &&
		u.Country == nil && u.AvatarURL == nil
}
