package models

import (
	"encoding/json"
	"time"
)

// Post represents a community feed post
type Post struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Content         *string         `json:"content"`
	Attachments     json.RawMessage `json:"attachments"`
	AttachmentCount int             `json:"attachment_count"`
	CreatedAt       time.Time       `json:"created_at"`

	Users     *User      `json:"users"`
	LikeCount int        `json:"like_count"`
	LikedByMe bool       `json:"liked_by_me"`
	Comments  []*Comment `json:"comments"`
}

// PostCreate is the body of a new post
type PostCreate struct {
	Content         *string         `json:"content" validate:"omitempty,max=10000"`
	Attachments     json.RawMessage `json:"attachments"`
	AttachmentCount int             `json:"attachment_count" validate:"gte=0"`
}

// PostUpdate is a partial post update; nil fields are left unchanged
type PostUpdate struct {
	Content         *string         `json:"content" validate:"omitempty,max=10000"`
	Attachments     json.RawMessage `json:"attachments"`
	AttachmentCount *int            `json:"attachment_count" validate:"omitempty,gte=0"`
}

// IsEmpty reports whether the update sets no field
func (u *PostUpdate) IsEmpty() bool {
	return u.Content == nil && len(u.Attachments) == 0 && u.AttachmentCount == nil
}

// Comment represents a comment on a post
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	ParentID  *string   `json:"parent_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	Users     *User `json:"users"`
	LikeCount int   `json:"like_count"`
	LikedByMe bool  `json:"liked_by_me"`
}

// CommentCreate is the body of a new comment
type CommentCreate struct {
	Content  string  `json:"content" validate:"required,max=5000"`
	ParentID *string `json:"parent_id" validate:"omitempty,uuid"`
}

// Like is a row in likes or comment_likes. TargetID is the post or comment id.
type Like struct {
	TargetID string
	UserID   string
}

// LikeToggle is the result of a like toggle
type LikeToggle struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// LinkPreview holds the metadata scraped from a shared URL
type LinkPreview struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	URL         string `json:"url"`
}

// Realtime event types
const (
	EventNewPost = "NEW_POST"
)

// PostEvent is broadcast to WebSocket subscribers
type PostEvent struct {
	Type string `json:"type"`
	Post *Post  `json:"post"`
}
