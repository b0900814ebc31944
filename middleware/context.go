package middleware

import (
	"context"

	"github.com/ShadyM97/LearnHub-Backend/supabase"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Context key type to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"

	// ClaimsKey is the context key for verified token claims
	ClaimsKey contextKey = "claims"
)

// GetRequestIDFromContext retrieves the request ID from context, preferring
// the one set by chi's RequestID middleware
func GetRequestIDFromContext(ctx context.Context) string {
	if id := chimw.GetReqID(ctx); id != "" {
		return id
	}
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetClaimsFromContext retrieves verified claims from context, nil for anonymous requests
func GetClaimsFromContext(ctx context.Context) *supabase.Claims {
	if val := ctx.Value(ClaimsKey); val != nil {
		if claims, ok := val.(*supabase.Claims); ok {
			return claims
		}
	}
	return nil
}

// WithClaims adds verified claims to the context
func WithClaims(ctx context.Context, claims *supabase.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetUserIDFromContext returns the subject of the verified claims, empty when anonymous
func GetUserIDFromContext(ctx context.Context) string {
	if claims := GetClaimsFromContext(ctx); claims != nil {
		return claims.UserID()
	}
	return ""
}
