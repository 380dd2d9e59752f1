// Package verify checks human-verification challenge tokens submitted
// with the contact form.
package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/artistsagainsttaupe/api/internal/domain"
)

const defaultEndpoint = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// Turnstile verifies challenge tokens against the Turnstile siteverify
// endpoint.
type Turnstile struct {
	endpoint string
	secret   string
	http     *http.Client
}

// Option configures a Turnstile verifier.
type Option func(*Turnstile)

// WithEndpoint overrides the siteverify URL. Used by tests.
func WithEndpoint(url string) Option {
	return func(t *Turnstile) { t.endpoint = url }
}

// New creates a verifier with the given shared secret.
func New(secret string, opts ...Option) *Turnstile {
	t := &Turnstile{
		endpoint: defaultEndpoint,
		secret:   secret,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Verify checks a challenge token. A failed or missing verification
// returns ErrInvalidInput; transport failures return the underlying error.
func (t *Turnstile) Verify(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: verification token required", domain.ErrInvalidInput)
	}

	payload, err := json.Marshal(map[string]string{
		"secret":   t.secret,
		"response": token,
	})
	if err != nil {
		return fmt.Errorf("marshal verification request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("verify token: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode verification response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("%w: verification failed", domain.ErrInvalidInput)
	}
	return nil
}
