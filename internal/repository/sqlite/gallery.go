package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/artistsagainsttaupe/api/internal/domain"
)

// galleryRepo implements domain.GalleryRepository using SQLite.
type galleryRepo struct {
	db *sql.DB
}

func (r *galleryRepo) Create(ctx context.Context, gallery *domain.Gallery) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO galleries (id, title, description, date, location, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		gallery.ID, gallery.Title, gallery.Description, gallery.Date, gallery.Location, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert gallery: %w", err)
	}

	gallery.CreatedAt = now
	gallery.UpdatedAt = now
	return nil
}

func (r *galleryRepo) GetByID(ctx context.Context, id string) (*domain.Gallery, error) {
	g := &domain.Gallery{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, date, location, created_at, updated_at
		 FROM galleries WHERE id = ?`, id,
	).Scan(&g.ID, &g.Title, &g.Description, &g.Date, &g.Location, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get gallery: %w", err)
	}
	return g, nil
}

func (r *galleryRepo) List(ctx context.Context) ([]domain.Gallery, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT g.id, g.title, g.description, g.date, g.location, g.created_at, g.updated_at,
		        COUNT(gi.id) AS image_count
		 FROM galleries g
		 LEFT JOIN gallery_images gi ON g.id = gi.gallery_id
		 GROUP BY g.id
		 ORDER BY g.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list galleries: %w", err)
	}
	defer rows.Close()

	var galleries []domain.Gallery
	for rows.Next() {
		var g domain.Gallery
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.Date, &g.Location,
			&g.CreatedAt, &g.UpdatedAt, &g.ImageCount); err != nil {
			return nil, fmt.Errorf("scan gallery: %w", err)
		}
		galleries = append(galleries, g)
	}
	return galleries, rows.Err()
}

func (r *galleryRepo) Update(ctx context.Context, gallery *domain.Gallery) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE galleries SET title = ?, description = ?, date = ?, location = ?, updated_at = ?
		 WHERE id = ?`,
		gallery.Title, gallery.Description, gallery.Date, gallery.Location, now, gallery.ID,
	)
	if err != nil {
		return fmt.Errorf("update gallery: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	gallery.UpdatedAt = now
	return nil
}

func (r *galleryRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM galleries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete gallery: %w", err)
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
