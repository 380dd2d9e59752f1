package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/artistsagainsttaupe/api/internal/domain"
)

// imageRefRepo implements domain.ImageReferenceRepository using SQLite.
type imageRefRepo struct {
	db *sql.DB
}

func (r *imageRefRepo) ReplaceForPost(ctx context.Context, postID string, refs []domain.ImageReference) error {
	existing, err := r.DistinctImageIDs(ctx, postID)
	if err != nil {
		return err
	}

	want := make(map[string]bool, len(refs))
	for _, ref := range refs {
		want[ref.ImageID] = true
	}

	// Remove rows for images the content no longer embeds. Retained images
	// keep their existing rows, duplicates included.
	have := make(map[string]bool, len(existing))
	for _, imageID := range existing {
		have[imageID] = true
		if want[imageID] {
			continue
		}
		if _, err := r.db.ExecContext(ctx,
			"DELETE FROM image_references WHERE post_id = ? AND image_id = ?",
			postID, imageID,
		); err != nil {
			return fmt.Errorf("delete stale reference: %w", err)
		}
	}

	for _, ref := range refs {
		if have[ref.ImageID] {
			continue
		}
		if err := r.Insert(ctx, domain.ImageReference{
			PostID:   postID,
			ImageID:  ref.ImageID,
			ImageURL: ref.ImageURL,
		}); err != nil {
			return err
		}
	}

	return nil
}

func (r *imageRefRepo) Insert(ctx context.Context, ref domain.ImageReference) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO image_references (post_id, image_id, image_url) VALUES (?, ?, ?)",
		ref.PostID, ref.ImageID, ref.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("insert reference: %w", err)
	}
	return nil
}

func (r *imageRefRepo) ListByPost(ctx context.Context, postID string) ([]domain.ImageReference, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT post_id, image_id, image_url FROM image_references WHERE post_id = ?",
		postID)
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer rows.Close()

	var refs []domain.ImageReference
	for rows.Next() {
		var ref domain.ImageReference
		if err := rows.Scan(&ref.PostID, &ref.ImageID, &ref.ImageURL); err != nil {
			return nil, fmt.Errorf("scan reference: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *imageRefRepo) DistinctImageIDs(ctx context.Context, postID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT image_id FROM image_references WHERE post_id = ?",
		postID)
	if err != nil {
		return nil, fmt.Errorf("distinct image ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan image id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *imageRefRepo) CountForImageExcluding(ctx context.Context, imageID, excludePostID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM image_references WHERE image_id = ? AND post_id != ?",
		imageID, excludePostID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count references: %w", err)
	}
	return count, nil
}

func (r *imageRefRepo) DeleteForPost(ctx context.Context, postID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM image_references WHERE post_id = ?", postID)
	if err != nil {
		return fmt.Errorf("delete references for post: %w", err)
	}
	return nil
}

func (r *imageRefRepo) DeleteForImage(ctx context.Context, imageID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM image_references WHERE image_id = ?", imageID)
	if err != nil {
		return fmt.Errorf("delete references for image: %w", err)
	}
	return nil
}
