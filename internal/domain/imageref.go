package domain

import "context"

// ImageReference links a blog post to a hosted image its content embeds.
// Rows are not unique-keyed on (post, image); duplicate rows from older
// writes are tolerated everywhere they are counted.
type ImageReference struct {
	PostID   string
	ImageID  string
	ImageURL string
}

type ImageReferenceRepository interface {
	// ReplaceForPost makes the stored references for a post match refs:
	// rows already present for a retained image survive, missing pairs are
	// inserted, and rows for images no longer referenced are removed.
	ReplaceForPost(ctx context.Context, postID string, refs []ImageReference) error
	ListByPost(ctx context.Context, postID string) ([]ImageReference, error)
	// DistinctImageIDs returns each image referenced by a post exactly once,
	// regardless of duplicate rows.
	DistinctImageIDs(ctx context.Context, postID string) ([]string, error)
	// CountForImageExcluding counts reference rows for an image held by
	// posts other than excludePostID.
	CountForImageExcluding(ctx context.Context, imageID, excludePostID string) (int, error)
	DeleteForPost(ctx context.Context, postID string) error
	// DeleteForImage removes every reference row for an image, whichever
	// post holds it. Used when the image itself is deleted out from under
	// the posts, e.g. by a gallery image delete sharing the same id space.
	DeleteForImage(ctx context.Context, imageID string) error
	// Insert adds a single row without any dedup check.
	Insert(ctx context.Context, ref ImageReference) error
}
