// Package imagestore talks to the Cloudflare Images HTTP API: multipart
// upload, delete by id, and delivery URL construction.
package imagestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/artistsagainsttaupe/api/internal/domain"
)

const defaultAPIBase = "https://api.cloudflare.com/client/v4"

// Client implements domain.ImageStore against the Cloudflare Images API.
type Client struct {
	apiBase      string
	accountID    string
	apiToken     string
	accountHash  string
	deliveryHost string
	http         *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIBase overrides the API base URL. Used by tests.
func WithAPIBase(base string) Option {
	return func(c *Client) { c.apiBase = base }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a Client for the given account. accountHash is the public
// delivery account segment, deliveryHost the CDN host (imagedelivery.net).
func New(accountID, apiToken, accountHash, deliveryHost string, opts ...Option) *Client {
	c := &Client{
		apiBase:      defaultAPIBase,
		accountID:    accountID,
		apiToken:     apiToken,
		accountHash:  accountHash,
		deliveryHost: deliveryHost,
		http:         &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiResponse struct {
	Success bool `json:"success"`
	Result  struct {
		ID       string   `json:"id"`
		Variants []string `json:"variants"`
	} `json:"result"`
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Upload sends the file as a multipart POST and returns the image the
// store minted. A failure response leaves nothing for the caller to
// clean up; no identifier is issued.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (*domain.UploadedImage, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := mw.WriteField("requireSignedURLs", "false"); err != nil {
		return nil, fmt.Errorf("write form field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	url := fmt.Sprintf("%s/accounts/%s/images/v1", c.apiBase, c.accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode upload response: %v", domain.ErrStore, err)
	}
	if !body.Success {
		return nil, fmt.Errorf("%w: upload rejected: %s", domain.ErrStore, apiErrorDetail(body))
	}

	return &domain.UploadedImage{
		ID:       body.Result.ID,
		URL:      c.DeliveryURL(body.Result.ID, "public"),
		Variants: body.Result.Variants,
	}, nil
}

// Delete removes an image by id. Non-2xx responses are returned as
// errors; callers decide whether that is fatal.
func (c *Client) Delete(ctx context.Context, imageID string) error {
	url := fmt.Sprintf("%s/accounts/%s/images/v1/%s", c.apiBase, c.accountID, imageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: delete %s: status %d: %s", domain.ErrStore, imageID, resp.StatusCode, detail)
	}
	return nil
}

// DeliveryURL builds the CDN URL for an image variant, e.g.
// https://imagedelivery.net/<account-hash>/<image-id>/public.
func (c *Client) DeliveryURL(imageID, variant string) string {
	return fmt.Sprintf("https://%s/%s/%s/%s", c.deliveryHost, c.accountHash, imageID, variant)
}

func apiErrorDetail(body apiResponse) string {
	if len(body.Errors) == 0 {
		return "no error detail"
	}
	return fmt.Sprintf("code %d: %s", body.Errors[0].Code, body.Errors[0].Message)
}
