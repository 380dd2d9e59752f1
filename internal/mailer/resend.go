// Package mailer sends email through the Resend HTTP API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/artistsagainsttaupe/api/internal/domain"
)

const defaultAPIBase = "https://api.resend.com"

// Client implements domain.Mailer against the Resend API.
type Client struct {
	apiBase string
	apiKey  string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIBase overrides the API base URL. Used by tests.
func WithAPIBase(base string) Option {
	return func(c *Client) { c.apiBase = base }
}

// New creates a Client using the given API key.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiBase: defaultAPIBase,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send posts the message to the email API. Any non-2xx response is an error.
func (c *Client) Send(ctx context.Context, msg domain.Email) error {
	payload, err := json.Marshal(map[string]any{
		"from":    msg.From,
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send email: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
