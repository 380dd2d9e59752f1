package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/artistsagainsttaupe/api/internal/domain"
	"github.com/google/uuid"
)

// GalleryService orchestrates gallery CRUD, multi-file uploads with
// append-at-end ordering, bulk reorder, and image deletion that keeps
// the external store and the blog reference table consistent.
type GalleryService struct {
	galleries domain.GalleryRepository
	images    domain.GalleryImageRepository
	refs      domain.ImageReferenceRepository
	store     domain.ImageStore
}

// NewGalleryService creates a new GalleryService.
func NewGalleryService(galleries domain.GalleryRepository, images domain.GalleryImageRepository, refs domain.ImageReferenceRepository, store domain.ImageStore) *GalleryService {
	return &GalleryService{galleries: galleries, images: images, refs: refs, store: store}
}

// UploadFile is one file of a multi-file gallery upload.
type UploadFile struct {
	Filename string
	Data     []byte
}

// UploadResult reports the outcome for a single uploaded file. Bulk
// uploads are independent single-item operations, so partial completion
// is a normal outcome the caller reports per item.
type UploadResult struct {
	Filename string
	Image    *domain.GalleryImage
	Err      error
}

// ReorderItem assigns a new sort position to one gallery image.
type ReorderItem struct {
	ImageID  string
	NewOrder int
}

// ReorderResult reports the outcome for a single reorder pair. Updated
// is false when the image does not belong to the claimed gallery.
type ReorderResult struct {
	ImageID string
	Updated bool
	Err     error
}

// CreateGallery validates and stores a new gallery. The caller supplies
// the id (a slug chosen in the admin UI).
func (s *GalleryService) CreateGallery(ctx context.Context, gallery *domain.Gallery) error {
	if gallery.ID == "" || gallery.Title == "" {
		return fmt.Errorf("%w: id and title are required", domain.ErrInvalidInput)
	}
	return s.galleries.Create(ctx, gallery)
}

// ListGalleries returns all galleries with their image counts.
func (s *GalleryService) ListGalleries(ctx context.Context) ([]domain.Gallery, error) {
	return s.galleries.List(ctx)
}

// GetGallery returns a gallery and its images in display order.
func (s *GalleryService) GetGallery(ctx context.Context, id string) (*domain.Gallery, []domain.GalleryImage, error) {
	gallery, err := s.galleries.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	images, err := s.images.ListByGallery(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("list gallery images: %w", err)
	}

	return gallery, images, nil
}

// UpdateGallery writes new gallery metadata.
func (s *GalleryService) UpdateGallery(ctx context.Context, gallery *domain.Gallery) error {
	if gallery.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	return s.galleries.Update(ctx, gallery)
}

// DeleteGallery removes a gallery and all its images. Each hosted image
// is deleted from the store best-effort, and stale blog references to
// the same image ids are cleared, before the rows cascade away.
func (s *GalleryService) DeleteGallery(ctx context.Context, id string) error {
	if _, err := s.galleries.GetByID(ctx, id); err != nil {
		return err
	}

	images, err := s.images.ListByGallery(ctx, id)
	if err != nil {
		return fmt.Errorf("list gallery images: %w", err)
	}

	for _, img := range images {
		s.releaseStoredImage(ctx, img.StoreImageID)
	}

	return s.galleries.Delete(ctx, id)
}

// UploadImages uploads each file to the external store and appends a
// row at the end of the gallery's sort order. Files are processed
// independently; a failed file never blocks the rest.
func (s *GalleryService) UploadImages(ctx context.Context, galleryID string, files []UploadFile) ([]UploadResult, error) {
	if _, err := s.galleries.GetByID(ctx, galleryID); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files provided", domain.ErrInvalidInput)
	}

	results := make([]UploadResult, 0, len(files))
	for _, file := range files {
		img, err := s.uploadOne(ctx, galleryID, file)
		results = append(results, UploadResult{Filename: file.Filename, Image: img, Err: err})
	}
	return results, nil
}

func (s *GalleryService) uploadOne(ctx context.Context, galleryID string, file UploadFile) (*domain.GalleryImage, error) {
	uploaded, err := s.store.Upload(ctx, file.Filename, file.Data)
	if err != nil {
		return nil, err
	}

	maxOrder, err := s.images.MaxSortOrder(ctx, galleryID)
	if err != nil {
		s.releaseStoredImage(ctx, uploaded.ID)
		return nil, err
	}

	img := &domain.GalleryImage{
		ID:               uuid.NewString(),
		GalleryID:        galleryID,
		OriginalFilename: file.Filename,
		Title:            strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename)),
		StoreImageID:     uploaded.ID,
		ImageURL:         uploaded.URL,
		Format:           "standard",
		SortOrder:        maxOrder + 1,
	}

	if err := s.images.Create(ctx, img); err != nil {
		// The row never landed, so the freshly stored image is unreachable.
		s.releaseStoredImage(ctx, uploaded.ID)
		return nil, fmt.Errorf("create image record: %w", err)
	}

	return img, nil
}

// UpdateImage edits the title and sort position of one image.
func (s *GalleryService) UpdateImage(ctx context.Context, imageID, title string, sortOrder int) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	return s.images.UpdateMeta(ctx, imageID, title, sortOrder)
}

// DeleteImage removes one gallery image: store delete (best-effort),
// stale blog references cleared, then the row itself.
func (s *GalleryService) DeleteImage(ctx context.Context, galleryID, imageID string) error {
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if img.GalleryID != galleryID {
		return domain.ErrNotFound
	}

	s.releaseStoredImage(ctx, img.StoreImageID)

	return s.images.Delete(ctx, imageID)
}

// Reorder applies each (imageID, newOrder) pair independently. A pair
// whose image belongs to another gallery updates zero rows and is
// reported, not treated as an error. Pairs that fail at the database
// keep the rest going; the caller reloads true state on partial failure.
func (s *GalleryService) Reorder(ctx context.Context, galleryID string, items []ReorderItem) ([]ReorderResult, error) {
	if _, err := s.galleries.GetByID(ctx, galleryID); err != nil {
		return nil, err
	}

	results := make([]ReorderResult, 0, len(items))
	for _, item := range items {
		n, err := s.images.SetSortOrder(ctx, item.ImageID, galleryID, item.NewOrder)
		results = append(results, ReorderResult{
			ImageID: item.ImageID,
			Updated: err == nil && n > 0,
			Err:     err,
		})
	}
	return results, nil
}

// releaseStoredImage deletes a hosted image and clears any blog
// reference rows pointing at it. Store failures leak storage rather
// than block the caller; reference cleanup failures are logged too,
// since both are reconciliation concerns, not user-facing ones.
func (s *GalleryService) releaseStoredImage(ctx context.Context, storeImageID string) {
	if storeImageID == "" {
		return
	}
	if err := s.store.Delete(ctx, storeImageID); err != nil {
		slog.Warn("image store delete failed", "image_id", storeImageID, "error", err)
	}
	if err := s.refs.DeleteForImage(ctx, storeImageID); err != nil {
		slog.Error("clear blog references", "image_id", storeImageID, "error", err)
	}
}
