package models

import (
	"encoding/json"
	"time"
)

// Space member roles
const (
	SpaceRoleAdmin  = "admin"
	SpaceRoleMember = "member"
)

// Space is a discussion community
type Space struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`

	MemberCount int  `json:"member_count"`
	IsMember    bool `json:"is_member"`
}

// SpaceCreate is the body of a new space
type SpaceCreate struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// SpaceMember is a row in space_members
type SpaceMember struct {
	SpaceID string
	UserID  string
	Role    string
}

// SpaceThread is a discussion thread inside a space
type SpaceThread struct {
	ID        string    `json:"id"`
	SpaceID   string    `json:"space_id"`
	Title     string    `json:"title"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`

	Users        *User `json:"users"`
	MessageCount int   `json:"message_count"`
}

// SpaceThreadCreate is the body of a new thread
type SpaceThreadCreate struct {
	Title string `json:"title" validate:"required,max=200"`
}

// SpaceMessage is a message in a thread
type SpaceMessage struct {
	ID              string          `json:"id"`
	ThreadID        string          `json:"thread_id"`
	UserID          string          `json:"user_id"`
	Content         string          `json:"content"`
	Attachments     json.RawMessage `json:"attachments"`
	AttachmentCount int             `json:"attachment_count"`
	CreatedAt       time.Time       `json:"created_at"`

	Users *User `json:"users"`
}

// SpaceMessageCreate is the body of a new message
type SpaceMessageCreate struct {
	Content         string          `json:"content" validate:"required,max=10000"`
	Attachments     json.RawMessage `json:"attachments"`
	AttachmentCount int             `json:"attachment_count" validate:"gte=0"`
}

// JoinResult reports the outcome of a join request
type JoinResult struct {
	Message string `json:"message"`
}
