package supabase

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidToken is the single failure kind callers see for any rejected token
	ErrInvalidToken = errors.New("invalid token")

	// ErrKeySetUnavailable is returned when the JWKS endpoint cannot be fetched or decoded
	ErrKeySetUnavailable = errors.New("verification key set unavailable")

	// ErrKeyNotFound is returned when no key in the set matches the token's kid
	ErrKeyNotFound = errors.New("signing key not found")

	// ErrUnsupportedKey is returned when a matching key is not an RSA key
	ErrUnsupportedKey = errors.New("unsupported signing key type")

	// ErrMissingSubject is returned when a verified token carries no sub claim
	ErrMissingSubject = errors.New("invalid token payload")
)

// Attempt records the failure of one verification strategy
type Attempt struct {
	Strategy string
	Err      error
}

// VerificationError aggregates the failures of every strategy the verifier tried.
// It always matches ErrInvalidToken; the per-strategy causes are reachable
// through errors.Is and errors.As.
type VerificationError struct {
	Attempts []Attempt
}

// Error returns the reason reported by the last strategy
func (e *VerificationError) Error() string {
	if len(e.Attempts) == 0 {
		return ErrInvalidToken.Error()
	}
	return ErrInvalidToken.Error() + ": " + e.Attempts[len(e.Attempts)-1].Err.Error()
}

// Detail lists every attempt, for server-side logs
func (e *VerificationError) Detail() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Strategy+": "+a.Err.Error())
	}
	return strings.Join(parts, "; ")
}

// Is reports ErrInvalidToken as the kind of every verification failure
func (e *VerificationError) Is(target error) bool {
	return target == ErrInvalidToken
}

// Unwrap exposes the per-strategy causes
func (e *VerificationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}
