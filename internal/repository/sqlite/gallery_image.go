package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/artistsagainsttaupe/api/internal/domain"
)

// galleryImageRepo implements domain.GalleryImageRepository using SQLite.
type galleryImageRepo struct {
	db *sql.DB
}

const galleryImageColumns = `id, gallery_id, original_filename, title, store_image_id, image_url, format, sort_order, created_at, updated_at`

func (r *galleryImageRepo) Create(ctx context.Context, image *domain.GalleryImage) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO gallery_images (`+galleryImageColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		image.ID, image.GalleryID, image.OriginalFilename, image.Title,
		image.StoreImageID, image.ImageURL, image.Format, image.SortOrder, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert gallery image: %w", err)
	}

	image.CreatedAt = now
	image.UpdatedAt = now
	return nil
}

func (r *galleryImageRepo) GetByID(ctx context.Context, id string) (*domain.GalleryImage, error) {
	img := &domain.GalleryImage{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+galleryImageColumns+` FROM gallery_images WHERE id = ?`, id,
	).Scan(&img.ID, &img.GalleryID, &img.OriginalFilename, &img.Title,
		&img.StoreImageID, &img.ImageURL, &img.Format, &img.SortOrder,
		&img.CreatedAt, &img.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get gallery image: %w", err)
	}
	return img, nil
}

func (r *galleryImageRepo) ListByGallery(ctx context.Context, galleryID string) ([]domain.GalleryImage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+galleryImageColumns+` FROM gallery_images
		 WHERE gallery_id = ? ORDER BY sort_order, created_at`, galleryID)
	if err != nil {
		return nil, fmt.Errorf("list gallery images: %w", err)
	}
	defer rows.Close()

	var images []domain.GalleryImage
	for rows.Next() {
		var img domain.GalleryImage
		if err := rows.Scan(&img.ID, &img.GalleryID, &img.OriginalFilename, &img.Title,
			&img.StoreImageID, &img.ImageURL, &img.Format, &img.SortOrder,
			&img.CreatedAt, &img.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan gallery image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *galleryImageRepo) MaxSortOrder(ctx context.Context, galleryID string) (int, error) {
	var maxOrder int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(sort_order), 0) FROM gallery_images WHERE gallery_id = ?",
		galleryID,
	).Scan(&maxOrder)
	if err != nil {
		return 0, fmt.Errorf("max sort order: %w", err)
	}
	return maxOrder, nil
}

func (r *galleryImageRepo) UpdateMeta(ctx context.Context, id, title string, sortOrder int) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE gallery_images SET title = ?, sort_order = ?, updated_at = ? WHERE id = ?",
		title, sortOrder, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update gallery image: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *galleryImageRepo) SetSortOrder(ctx context.Context, imageID, galleryID string, sortOrder int) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE gallery_images SET sort_order = ?, updated_at = ? WHERE id = ? AND gallery_id = ?",
		sortOrder, time.Now().UTC(), imageID, galleryID,
	)
	if err != nil {
		return 0, fmt.Errorf("set sort order: %w", err)
	}
	return result.RowsAffected()
}

func (r *galleryImageRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM gallery_images WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete gallery image: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
