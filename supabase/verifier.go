package supabase

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"go.uber.org/zap"
)

const (
	// Audience is the aud value Supabase puts in user access tokens
	Audience = "authenticated"

	// SymmetricAlgorithm is the only algorithm accepted with the shared secret
	SymmetricAlgorithm = "HS256"

	// AsymmetricAlgorithm is the only algorithm accepted with JWKS keys
	AsymmetricAlgorithm = "RS256"
)

// Strategy verifies a token one way
type Strategy interface {
	Name() string
	Verify(ctx context.Context, token string) (*Claims, error)
}

// VerifyRecorder observes per-strategy outcomes
type VerifyRecorder interface {
	RecordVerification(strategy, outcome string)
}

// HMACStrategy verifies tokens signed with the project's shared JWT secret
type HMACStrategy struct {
	secret []byte
	parser *jwt.Parser
}

// NewHMACStrategy creates an HS256 strategy
func NewHMACStrategy(secret string) *HMACStrategy {
	return &HMACStrategy{
		secret: []byte(secret),
		parser: newParser(SymmetricAlgorithm),
	}
}

// Name returns the strategy name
func (s *HMACStrategy) Name() string {
	return "hs256"
}

// Verify checks signature, audience and expiration
func (s *HMACStrategy) Verify(_ context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	if _, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}); err != nil {
		return nil, err
	}
	return claims, nil
}

// JWKSStrategy verifies tokens against the key whose kid matches the token header
type JWKSStrategy struct {
	keys     KeySource
	fallback bool
	parser   *jwt.Parser
}

// NewJWKSStrategy creates an RS256 strategy. fallback marks that a symmetric
// strategy ran first, which changes the message reported for a missing key.
func NewJWKSStrategy(keys KeySource, fallback bool) *JWKSStrategy {
	return &JWKSStrategy{
		keys:     keys,
		fallback: fallback,
		parser:   newParser(AsymmetricAlgorithm),
	}
}

// Name returns the strategy name
func (s *JWKSStrategy) Name() string {
	return "jwks"
}

// Verify looks up the signing key by kid and checks signature, audience and expiration
func (s *JWKSStrategy) Verify(ctx context.Context, token string) (*Claims, error) {
	unverified, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("malformed token header: %w", err)
	}
	kid, _ := unverified.Header["kid"].(string)

	set, err := s.keys.Keys(ctx)
	if err != nil {
		return nil, err
	}

	key, ok := set.LookupKeyID(kid)
	if kid == "" || !ok {
		if s.fallback {
			return nil, fmt.Errorf("%w: no valid verification method found", ErrKeyNotFound)
		}
		return nil, fmt.Errorf("%w: public key not found, no symmetric secret configured", ErrKeyNotFound)
	}

	pub, err := rsaPublicKey(key)
	if err != nil {
		return nil, fmt.Errorf("unusable signing key %q: %w", kid, err)
	}

	claims := &Claims{}
	if _, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return pub, nil
	}); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifierConfig holds token verification settings
type VerifierConfig struct {
	// JWTSecret enables HS256 verification ahead of JWKS when set
	JWTSecret string
}

// Verifier runs strategies in order and returns the first success carrying a subject
type Verifier struct {
	strategies []Strategy
	logger     *zap.Logger
	recorder   VerifyRecorder
}

// NewVerifier builds the strategy chain: HS256 then JWKS when a secret is
// configured, JWKS alone otherwise.
func NewVerifier(cfg VerifierConfig, keys KeySource, logger *zap.Logger) *Verifier {
	var strategies []Strategy
	if cfg.JWTSecret != "" {
		strategies = append(strategies, NewHMACStrategy(cfg.JWTSecret), NewJWKSStrategy(keys, true))
	} else {
		strategies = append(strategies, NewJWKSStrategy(keys, false))
	}
	return NewVerifierWithStrategies(logger, strategies...)
}

// NewVerifierWithStrategies builds a verifier from an explicit strategy list
func NewVerifierWithStrategies(logger *zap.Logger, strategies ...Strategy) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{strategies: strategies, logger: logger}
}

// SetRecorder reports every strategy outcome to r
func (v *Verifier) SetRecorder(r VerifyRecorder) {
	v.recorder = r
}

// Strategies returns the names of the configured strategies, in order
func (v *Verifier) Strategies() []string {
	names := make([]string, len(v.strategies))
	for i, s := range v.strategies {
		names[i] = s.Name()
	}
	return names
}

// Verify validates token and returns its claims.
// Every failure matches ErrInvalidToken.
func (v *Verifier) Verify(ctx context.Context, token string) (*Claims, error) {
	verr := &VerificationError{}
	if token == "" {
		verr.Attempts = append(verr.Attempts, Attempt{Strategy: "none", Err: errors.New("token is empty")})
		return nil, verr
	}

	for _, s := range v.strategies {
		claims, err := v.try(ctx, s, token)
		if err == nil && claims.Subject == "" {
			err = ErrMissingSubject
		}
		if err != nil {
			v.observe(s.Name(), "failure")
			v.logger.Debug("token verification strategy failed",
				zap.String("strategy", s.Name()),
				zap.Error(err),
			)
			verr.Attempts = append(verr.Attempts, Attempt{Strategy: s.Name(), Err: err})
			continue
		}
		v.observe(s.Name(), "success")
		return claims, nil
	}

	if len(verr.Attempts) == 0 {
		verr.Attempts = append(verr.Attempts, Attempt{Strategy: "none", Err: errors.New("no verification strategy configured")})
	}
	return nil, verr
}

// try runs one strategy, converting a panic in key handling into an error
func (v *Verifier) try(ctx context.Context, s Strategy, token string) (claims *Claims, err error) {
	defer func() {
		if r := recover(); r != nil {
			claims = nil
			err = fmt.Errorf("unexpected verification error: %v", r)
		}
	}()
	return s.Verify(ctx, token)
}

func (v *Verifier) observe(strategy, outcome string) {
	if v.recorder != nil {
		v.recorder.RecordVerification(strategy, outcome)
	}
}

func newParser(alg string) *jwt.Parser {
	return jwt.NewParser(
		jwt.WithValidMethods([]string{alg}),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
	)
}

func rsaPublicKey(key jwk.Key) (*rsa.PublicKey, error) {
	pubKey, err := jwk.PublicKeyOf(key)
	if err != nil {
		return nil, err
	}
	var raw any
	if err := jwk.Export(pubKey, &raw); err != nil {
		return nil, err
	}
	pub, ok := raw.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, raw)
	}
	return pub, nil
}
