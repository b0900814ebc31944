package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ShadyM97/LearnHub-Backend/auth"
	"github.com/ShadyM97/LearnHub-Backend/services"
	"github.com/ShadyM97/LearnHub-Backend/supabase"
	"github.com/ShadyM97/LearnHub-Backend/utils"
	"go.uber.org/zap"
)

const (
	msgMissingAuthorization = "Missing or invalid authorization"
	msgInvalidToken         = "Invalid or expired authentication token"
	msgAuthRequired         = "Authentication required"
)

// TokenVerifier verifies a bearer token and returns its claims
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*supabase.Claims, error)
}

// RoleGuards builds role guards
type RoleGuards interface {
	RequireRole(role string) auth.Guard
}

// AuthMiddleware provides authentication middleware functionality
type AuthMiddleware struct {
	verifier TokenVerifier
	guards   RoleGuards
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier, guards RoleGuards, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		guards:   guards,
		logger:   logger,
	}
}

// RequireAuth is a middleware that requires a valid bearer token
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		token := extractBearerToken(r)
		if token == "" {
			m.logger.Warn("missing token", zap.String("request_id", requestID))
			_ = utils.WriteUnauthorized(w, msgMissingAuthorization)
			return
		}

		claims, err := m.verifier.Verify(ctx, token)
		if err != nil {
			m.logVerifyFailure(requestID, err)
			_ = utils.WriteUnauthorized(w, msgInvalidToken)
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("sub", claims.UserID()))

		next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
	})
}

// OptionalAuth attaches claims when a valid bearer token is present. A missing
// or invalid token continues the request anonymously.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		claims, err := m.verifier.Verify(ctx, token)
		if err != nil {
			m.logger.Debug("optional auth ignored invalid token",
				zap.String("request_id", GetRequestIDFromContext(ctx)),
				zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
	})
}

// RequireRole is a middleware that requires the caller's stored role to equal role.
// It must run after RequireAuth; the context claims are replaced with the
// copy carrying the stored role.
func (m *AuthMiddleware) RequireRole(role string) func(http.Handler) http.Handler {
	guard := m.guards.RequireRole(role)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			claims := GetClaimsFromContext(ctx)
			if claims == nil {
				m.logger.Error("claims not found in context", zap.String("request_id", requestID))
				_ = utils.WriteUnauthorized(w, msgAuthRequired)
				return
			}

			authorized, err := guard(ctx, claims)
			if err != nil {
				m.logger.Warn("role check failed",
					zap.String("request_id", requestID),
					zap.String("sub", claims.UserID()),
					zap.String("required_role", role),
					zap.Error(err))
				_ = utils.WriteForbidden(w, services.PublicMessage(err, "Insufficient permissions"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(ctx, authorized)))
		})
	}
}

func (m *AuthMiddleware) logVerifyFailure(requestID string, err error) {
	fields := []zap.Field{zap.String("request_id", requestID), zap.Error(err)}
	var verr *supabase.VerificationError
	if errors.As(err, &verr) {
		fields = append(fields, zap.String("attempts", verr.Detail()))
	}
	if errors.Is(err, supabase.ErrKeySetUnavailable) {
		m.logger.Error("token verification failed: key set unavailable", fields...)
		return
	}
	m.logger.Warn("token validation failed", fields...)
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
