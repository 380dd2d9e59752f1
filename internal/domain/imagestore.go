package domain

import "context"

// UploadedImage describes an image accepted by the external store.
type UploadedImage struct {
	ID       string
	URL      string   // public delivery URL
	Variants []string // all delivery variants reported by the store
}

// ImageStore is the external image-hosting HTTP API. Upload failures
// abort the caller's operation; Delete failures are treated as
// non-fatal by callers (logged, local bookkeeping proceeds).
type ImageStore interface {
	Upload(ctx context.Context, filename string, data []byte) (*UploadedImage, error)
	Delete(ctx context.Context, imageID string) error
	DeliveryURL(imageID, variant string) string
}
