package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/artistsagainsttaupe/api/internal/domain"
	"github.com/google/uuid"
)

const (
	maxTitleLen   = 200
	maxAuthorLen  = 100
	maxExcerptLen = 500
	maxContentLen = 50000
	maxTags       = 10
	maxTagLen     = 50
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// PostService orchestrates blog post CRUD and the image reference
// lifecycle: references are replaced on every content write, and
// orphaned images are purged from the external store on delete.
type PostService struct {
	posts     domain.PostRepository
	refs      domain.ImageReferenceRepository
	store     domain.ImageStore
	extractor *RefExtractor
}

// NewPostService creates a new PostService.
func NewPostService(posts domain.PostRepository, refs domain.ImageReferenceRepository, store domain.ImageStore, extractor *RefExtractor) *PostService {
	return &PostService{posts: posts, refs: refs, store: store, extractor: extractor}
}

// Create validates and stores a new post, then records which hosted
// images its content embeds.
func (s *PostService) Create(ctx context.Context, post *domain.BlogPost) error {
	if err := validatePost(post); err != nil {
		return err
	}

	if post.ID == "" {
		post.ID = uuid.NewString()
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	if err := s.refs.ReplaceForPost(ctx, post.ID, s.extractor.Extract(post.Content)); err != nil {
		return fmt.Errorf("track references: %w", err)
	}

	return nil
}

// Get returns a post by id or slug.
func (s *PostService) Get(ctx context.Context, idOrSlug string) (*domain.BlogPost, error) {
	return s.posts.Get(ctx, idOrSlug)
}

// List returns posts newest first. Unpublished posts are included only
// when the caller is the admin.
func (s *PostService) List(ctx context.Context, includeUnpublished bool) ([]domain.BlogPost, error) {
	return s.posts.List(ctx, includeUnpublished)
}

// Update validates and writes the post, then replaces its reference
// rows with exactly the images the new content embeds.
func (s *PostService) Update(ctx context.Context, post *domain.BlogPost) error {
	if err := validatePost(post); err != nil {
		return err
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return err
	}

	if err := s.refs.ReplaceForPost(ctx, post.ID, s.extractor.Extract(post.Content)); err != nil {
		return fmt.Errorf("track references: %w", err)
	}

	return nil
}

// Delete removes a post. Before the row goes away, images referenced by
// no other post are deleted from the external store; cleanup failures
// are logged and never block the delete.
func (s *PostService) Delete(ctx context.Context, idOrSlug string) error {
	post, err := s.posts.Get(ctx, idOrSlug)
	if err != nil {
		return err
	}

	s.purgeOrphans(ctx, post.ID)

	if err := s.refs.DeleteForPost(ctx, post.ID); err != nil {
		return fmt.Errorf("delete references: %w", err)
	}

	return s.posts.Delete(ctx, post.ID)
}

// UploadImage sends an editor image straight to the external store. No
// reference row is written here; rows appear when content embedding the
// returned URL is saved.
func (s *PostService) UploadImage(ctx context.Context, filename string, data []byte) (*domain.UploadedImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no file provided", domain.ErrInvalidInput)
	}
	return s.store.Upload(ctx, filename, data)
}

// DeleteImage removes an editor-uploaded image from the external store
// and clears any reference rows still pointing at it. The store delete
// is authoritative here and its failure is returned, unlike the
// best-effort cleanup during post deletion; reference cleanup after a
// successful store delete is logged, not surfaced.
func (s *PostService) DeleteImage(ctx context.Context, imageID string) error {
	if imageID == "" {
		return fmt.Errorf("%w: image id is required", domain.ErrInvalidInput)
	}

	if err := s.store.Delete(ctx, imageID); err != nil {
		return fmt.Errorf("delete stored image: %w", err)
	}

	if err := s.refs.DeleteForImage(ctx, imageID); err != nil {
		slog.Error("clear references for deleted image", "image_id", imageID, "error", err)
	}
	return nil
}

// purgeOrphans deletes from the store every image referenced by postID
// and by nobody else. A single image's failure never aborts the rest.
func (s *PostService) purgeOrphans(ctx context.Context, postID string) {
	imageIDs, err := s.refs.DistinctImageIDs(ctx, postID)
	if err != nil {
		slog.Error("list referenced images for purge", "post_id", postID, "error", err)
		return
	}

	for _, imageID := range imageIDs {
		others, err := s.refs.CountForImageExcluding(ctx, imageID, postID)
		if err != nil {
			slog.Error("count references", "image_id", imageID, "error", err)
			continue
		}
		if others > 0 {
			continue
		}
		if err := s.store.Delete(ctx, imageID); err != nil {
			slog.Warn("orphaned image cleanup failed", "image_id", imageID, "error", err)
			continue
		}
		slog.Info("deleted orphaned image", "image_id", imageID)
	}
}

func validatePost(post *domain.BlogPost) error {
	switch {
	case post.Title == "":
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	case len(post.Title) > maxTitleLen:
		return fmt.Errorf("%w: title must be under %d characters", domain.ErrInvalidInput, maxTitleLen)
	case post.Author == "":
		return fmt.Errorf("%w: author is required", domain.ErrInvalidInput)
	case len(post.Author) > maxAuthorLen:
		return fmt.Errorf("%w: author must be under %d characters", domain.ErrInvalidInput, maxAuthorLen)
	case post.Excerpt == "":
		return fmt.Errorf("%w: excerpt is required", domain.ErrInvalidInput)
	case len(post.Excerpt) > maxExcerptLen:
		return fmt.Errorf("%w: excerpt must be under %d characters", domain.ErrInvalidInput, maxExcerptLen)
	case post.Content == "":
		return fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	case len(post.Content) > maxContentLen:
		return fmt.Errorf("%w: content must be under %d characters", domain.ErrInvalidInput, maxContentLen)
	case post.Slug == "" || !slugPattern.MatchString(post.Slug):
		return fmt.Errorf("%w: slug must contain only lowercase letters, numbers, and hyphens", domain.ErrInvalidInput)
	case len(post.Tags) > maxTags:
		return fmt.Errorf("%w: maximum %d tags allowed", domain.ErrInvalidInput, maxTags)
	}

	for _, tag := range post.Tags {
		if tag == "" || len(tag) > maxTagLen {
			return fmt.Errorf("%w: each tag must be a non-empty string under %d characters", domain.ErrInvalidInput, maxTagLen)
		}
	}

	if !validDate(post.Date) {
		return fmt.Errorf("%w: valid date is required", domain.ErrInvalidInput)
	}

	return nil
}

func validDate(s string) bool {
	if s == "" {
		return false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
