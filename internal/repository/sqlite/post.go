package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/artistsagainsttaupe/api/internal/domain"
)

// postRepo implements domain.PostRepository using SQLite.
type postRepo struct {
	db *sql.DB
}

const postColumns = `id, slug, title, author, excerpt, content, tags, image, published, date, created_at, updated_at`

func (r *postRepo) Create(ctx context.Context, post *domain.BlogPost) error {
	now := time.Now().UTC()
	tags, err := json.Marshal(post.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO blog_posts (`+postColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.Slug, post.Title, post.Author, post.Excerpt, post.Content,
		string(tags), post.Image, post.Published, post.Date, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	post.CreatedAt = now
	post.UpdatedAt = now
	return nil
}

func (r *postRepo) Get(ctx context.Context, idOrSlug string) (*domain.BlogPost, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM blog_posts WHERE id = ? OR slug = ?`,
		idOrSlug, idOrSlug)
	post, err := scanPost(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

func (r *postRepo) List(ctx context.Context, includeUnpublished bool) ([]domain.BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts`
	if !includeUnpublished {
		query += ` WHERE published = 1`
	}
	query += ` ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.BlogPost
	for rows.Next() {
		post, err := scanPost(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func (r *postRepo) Update(ctx context.Context, post *domain.BlogPost) error {
	now := time.Now().UTC()
	tags, err := json.Marshal(post.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE blog_posts
		 SET slug = ?, title = ?, author = ?, excerpt = ?, content = ?,
		     tags = ?, image = ?, published = ?, date = ?, updated_at = ?
		 WHERE id = ?`,
		post.Slug, post.Title, post.Author, post.Excerpt, post.Content,
		string(tags), post.Image, post.Published, post.Date, now, post.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	post.UpdatedAt = now
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM blog_posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
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

func scanPost(scan func(dest ...any) error) (*domain.BlogPost, error) {
	post := &domain.BlogPost{}
	var tags string
	if err := scan(&post.ID, &post.Slug, &post.Title, &post.Author, &post.Excerpt,
		&post.Content, &tags, &post.Image, &post.Published, &post.Date,
		&post.CreatedAt, &post.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &post.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	return post, nil
}
