// Package auth authorizes verified identities against the roles stored in
// the users table.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ShadyM97/LearnHub-Backend/repositories"
	"github.com/ShadyM97/LearnHub-Backend/services"
	"github.com/ShadyM97/LearnHub-Backend/supabase"
	"go.uber.org/zap"
)

// Role check outcomes reported to the recorder
const (
	OutcomeGranted      = "granted"
	OutcomeDenied       = "denied"
	OutcomeNoProfile    = "no_profile"
	OutcomeLookupFailed = "lookup_failed"
	OutcomeUnavailable  = "unavailable"
)

const (
	msgHandleUnavailable = "server configuration error: privileged database handle unavailable"
	msgProfileNotFound   = "profile not found, complete profile setup"
	msgLookupFailed      = "role verification failed"
)

// UserRoleSource hands out the privileged store used for role lookups.
// The store must bypass row-level security.
type UserRoleSource interface {
	PrivilegedUsers() (repositories.RoleReader, error)
}

// RoleCheckRecorder observes role check outcomes
type RoleCheckRecorder interface {
	RecordRoleCheck(role, outcome string)
}

// AuthorizerConfig holds role authorizer settings
type AuthorizerConfig struct {
	LookupTimeout     time.Duration
	ExposeErrorDetail bool // Embed lookup error type and text in the 403 message
}

// Guard checks verified claims and returns them augmented with the stored role
type Guard func(ctx context.Context, claims *supabase.Claims) (*supabase.Claims, error)

// RoleAuthorizer re-derives roles from the users table. The role claim
// carried by the token is never consulted.
type RoleAuthorizer struct {
	users    UserRoleSource
	cfg      AuthorizerConfig
	recorder RoleCheckRecorder
	logger   *zap.Logger
}

// NewRoleAuthorizer creates a new role authorizer
func NewRoleAuthorizer(users UserRoleSource, cfg AuthorizerConfig, logger *zap.Logger) *RoleAuthorizer {
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 3 * time.Second
	}
	return &RoleAuthorizer{
		users:  users,
		cfg:    cfg,
		logger: logger,
	}
}

// SetRecorder reports every role check outcome to r
func (a *RoleAuthorizer) SetRecorder(r RoleCheckRecorder) {
	a.recorder = r
}

// RequireRole returns a guard that admits only subjects whose stored role equals role.
// Comparison is exact and case-sensitive.
func (a *RoleAuthorizer) RequireRole(role string) Guard {
	return func(ctx context.Context, claims *supabase.Claims) (*supabase.Claims, error) {
		if claims == nil || claims.UserID() == "" {
			a.observe(role, OutcomeDenied)
			return nil, services.NewDomainError(services.ErrorTypeForbidden, "access denied: missing identity", nil)
		}
		sub := claims.UserID()

		users, err := a.privileged()
		if err != nil {
			a.logger.Error("privileged store unavailable", zap.String("sub", sub), zap.Error(err))
			a.observe(role, OutcomeUnavailable)
			return nil, services.NewDomainError(services.ErrorTypeForbidden, msgHandleUnavailable, err)
		}

		lookupCtx, cancel := context.WithTimeout(ctx, a.cfg.LookupTimeout)
		defer cancel()

		stored, err := users.GetRoleByID(lookupCtx, sub)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				a.observe(role, OutcomeNoProfile)
				return nil, services.NewDomainError(services.ErrorTypeForbidden, msgProfileNotFound, err)
			}

			a.logger.Error("role lookup failed",
				zap.String("sub", sub),
				zap.String("required_role", role),
				zap.String("error_type", fmt.Sprintf("%T", err)),
				zap.Error(err))
			a.observe(role, OutcomeLookupFailed)

			msg := msgLookupFailed
			if a.cfg.ExposeErrorDetail {
				msg = fmt.Sprintf("%s: %T: %v", msgLookupFailed, err, err)
			}
			return nil, services.NewDomainError(services.ErrorTypeForbidden, msg, err)
		}

		if stored != role {
			a.logger.Warn("insufficient role",
				zap.String("sub", sub),
				zap.String("required_role", role),
				zap.String("user_role", stored))
			a.observe(role, OutcomeDenied)
			return nil, services.NewDomainError(services.ErrorTypeForbidden,
				fmt.Sprintf("access denied: requires role '%s', user has role '%s'", role, stored), nil).
				WithDetail("required_role", role).
				WithDetail("user_role", stored)
		}

		a.observe(role, OutcomeGranted)
		return claims.WithRole(stored), nil
	}
}

// privileged resolves the store, turning a nil source or store into an error
func (a *RoleAuthorizer) privileged() (repositories.RoleReader, error) {
	if a.users == nil {
		return nil, errors.New("no user role source configured")
	}
	users, err := a.users.PrivilegedUsers()
	if err != nil {
		return nil, err
	}
	if users == nil {
		return nil, errors.New("privileged store is nil")
	}
	return users, nil
}

func (a *RoleAuthorizer) observe(role, outcome string) {
	if a.recorder != nil {
		a.recorder.RecordRoleCheck(role, outcome)
	}
}
