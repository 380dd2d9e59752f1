package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/artistsagainsttaupe/api/internal/domain"
	"github.com/artistsagainsttaupe/api/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database and hands out the repository implementations.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for
// use. It enables WAL mode and foreign key enforcement.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL for concurrent reads; a busy timeout so writers wait instead of
	// failing with SQLITE_BUSY.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(context.Background(), "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies all pending schema migrations.
func (d *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, d.SqlDB)
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.SqlDB.Close()
}

func (d *DB) Posts() domain.PostRepository {
	return &postRepo{db: d.SqlDB}
}

func (d *DB) ImageReferences() domain.ImageReferenceRepository {
	return &imageRefRepo{db: d.SqlDB}
}

func (d *DB) Galleries() domain.GalleryRepository {
	return &galleryRepo{db: d.SqlDB}
}

func (d *DB) GalleryImages() domain.GalleryImageRepository {
	return &galleryImageRepo{db: d.SqlDB}
}
