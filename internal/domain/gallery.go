package domain

import (
	"context"
	"time"
)

// Gallery is a named collection of ordered images.
type Gallery struct {
	ID          string
	Title       string
	Description string
	Date        string
	Location    string
	ImageCount  int // populated by List, zero elsewhere
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GalleryImage is one image row within a gallery. StoreImageID is the
// identifier minted by the external image store; sort_order carries no
// uniqueness constraint, display order breaks ties by created_at.
type GalleryImage struct {
	ID               string
	GalleryID        string
	OriginalFilename string
	Title            string
	StoreImageID     string
	ImageURL         string
	Format           string
	SortOrder        int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type GalleryRepository interface {
	Create(ctx context.Context, gallery *Gallery) error
	GetByID(ctx context.Context, id string) (*Gallery, error)
	// List returns all galleries newest first with ImageCount populated.
	List(ctx context.Context) ([]Gallery, error)
	Update(ctx context.Context, gallery *Gallery) error
	Delete(ctx context.Context, id string) error
}

type GalleryImageRepository interface {
	Create(ctx context.Context, image *GalleryImage) error
	GetByID(ctx context.Context, id string) (*GalleryImage, error)
	// ListByGallery returns images ordered by sort_order, then created_at.
	ListByGallery(ctx context.Context, galleryID string) ([]GalleryImage, error)
	MaxSortOrder(ctx context.Context, galleryID string) (int, error)
	UpdateMeta(ctx context.Context, id, title string, sortOrder int) error
	// SetSortOrder updates the row matching both imageID and galleryID and
	// reports how many rows changed. A mismatched gallery updates nothing.
	SetSortOrder(ctx context.Context, imageID, galleryID string, sortOrder int) (int64, error)
	Delete(ctx context.Context, id string) error
}
