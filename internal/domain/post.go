package domain

import (
	"context"
	"time"
)

// BlogPost is a single post. Content is the HTML produced by the admin
// editor and may embed delivery URLs for externally hosted images.
type BlogPost struct {
	ID        string
	Slug      string
	Title     string
	Author    string
	Excerpt   string
	Content   string
	Tags      []string
	Image     *string // optional cover image URL
	Published bool
	Date      string // display date chosen by the author, ISO 8601
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PostRepository interface {
	Create(ctx context.Context, post *BlogPost) error
	// Get looks a post up by its ID or, failing that, by slug.
	Get(ctx context.Context, idOrSlug string) (*BlogPost, error)
	List(ctx context.Context, includeUnpublished bool) ([]BlogPost, error)
	Update(ctx context.Context, post *BlogPost) error
	Delete(ctx context.Context, id string) error
}
