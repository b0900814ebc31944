package supabase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"go.uber.org/zap"
)

// JWKSPath is the well-known key set path relative to the project URL
const JWKSPath = "/auth/v1/.well-known/jwks.json"

// maxKeySetBytes bounds the JWKS response body
const maxKeySetBytes = 1 << 20

// KeySource provides the current verification key set
type KeySource interface {
	Keys(ctx context.Context) (jwk.Set, error)
}

// FetchRecorder observes key set fetch outcomes
type FetchRecorder interface {
	RecordJWKSFetch(outcome string)
}

// KeySet fetches the project's JWKS once and keeps it for the lifetime of the process.
//
// Concurrent first calls may each hit the network; the first non-empty result
// stored wins and every caller returns the stored set.
type KeySet struct {
	url      string
	client   *http.Client
	logger   *zap.Logger
	recorder FetchRecorder

	mu  sync.RWMutex
	set jwk.Set
}

// KeySetOption configures a KeySet
type KeySetOption func(*KeySet)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) KeySetOption {
	return func(k *KeySet) {
		k.client = client
	}
}

// WithKeySetLogger sets the logger
func WithKeySetLogger(logger *zap.Logger) KeySetOption {
	return func(k *KeySet) {
		k.logger = logger
	}
}

// WithFetchRecorder reports every fetch outcome to r
func WithFetchRecorder(r FetchRecorder) KeySetOption {
	return func(k *KeySet) {
		k.recorder = r
	}
}

// NewKeySet creates a key set for the project at projectURL.
// timeout bounds each fetch when no client is supplied.
func NewKeySet(projectURL string, timeout time.Duration, opts ...KeySetOption) *KeySet {
	k := &KeySet{
		url:    strings.TrimRight(projectURL, "/") + JWKSPath,
		client: &http.Client{Timeout: timeout},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// URL returns the JWKS endpoint
func (k *KeySet) URL() string {
	return k.url
}

// Keys returns the cached key set, fetching it on first use.
// An empty set is returned but not cached so the next call retries.
func (k *KeySet) Keys(ctx context.Context) (jwk.Set, error) {
	k.mu.RLock()
	cached := k.set
	k.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	set, err := k.fetch(ctx)
	if err != nil {
		k.record("error")
		k.logger.Error("failed to fetch JWKS", zap.String("url", k.url), zap.Error(err))
		return nil, err
	}
	if set.Len() == 0 {
		k.record("empty")
		k.logger.Warn("JWKS endpoint returned no keys", zap.String("url", k.url))
		return set, nil
	}
	k.record("success")

	k.mu.Lock()
	if k.set == nil {
		k.set = set
	}
	cached = k.set
	k.mu.Unlock()

	k.logger.Info("JWKS cached", zap.String("url", k.url), zap.Int("keys", cached.Len()))
	return cached, nil
}

// Invalidate drops the cached key set so the next call fetches again
func (k *KeySet) Invalidate() {
	k.mu.Lock()
	k.set = nil
	k.mu.Unlock()
}

func (k *KeySet) fetch(ctx context.Context) (jwk.Set, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrKeySetUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := k.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", ErrKeySetUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrKeySetUnavailable, resp.StatusCode)
	}

	set, err := jwk.ParseReader(io.LimitReader(resp.Body, maxKeySetBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse JWKS: %v", ErrKeySetUnavailable, err)
	}
	return set, nil
}

func (k *KeySet) record(outcome string) {
	if k.recorder != nil {
		k.recorder.RecordJWKSFetch(outcome)
	}
}
