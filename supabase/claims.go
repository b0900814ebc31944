package supabase

import (
	"maps"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the payload of a Supabase access token.
//
// Role holds the token's own "role" claim until a role guard overwrites it with
// the role stored in the users table. The token value is a Postgres role
// ("authenticated", "anon") and must not be used for authorization.
type Claims struct {
	jwt.RegisteredClaims

	Email        string         `json:"email,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	Role         string         `json:"role,omitempty"`
	AAL          string         `json:"aal,omitempty"`
	SessionID    string         `json:"session_id,omitempty"`
	IsAnonymous  bool           `json:"is_anonymous,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// UserID returns the subject of the token
func (c *Claims) UserID() string {
	return c.Subject
}

// WithRole returns a copy of the claims carrying the given role
func (c *Claims) WithRole(role string) *Claims {
	out := *c
	out.Audience = append(jwt.ClaimStrings(nil), c.Audience...)
	out.AppMetadata = maps.Clone(c.AppMetadata)
	out.UserMetadata = maps.Clone(c.UserMetadata)
	out.Role = role
	return &out
}
