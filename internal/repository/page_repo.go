package repository

import (
	"context"
	"database/sql"

	"github.com/CWALabs/SkyCMS-sub002/internal/database"
	"github.com/CWALabs/SkyCMS-sub002/internal/models"
)

// pageRepo is the concrete implementation of PageRepository
type pageRepo struct {
	db *database.DB
}

// NewPageRepo creates a new page repository
func NewPageRepo(db *database.DB) PageRepository {
	return &pageRepo{db: db}
}

// Replace swaps in the snapshot wholesale, keyed by article number
func (r *pageRepo) Replace(ctx context.Context, page *models.Page) error {
	query := `
		INSERT INTO pages (article_number, version_number, title, url_path, content, published, updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (article_number) DO UPDATE SET
			version_number = EXCLUDED.version_number,
			title = EXCLUDED.title,
			url_path = EXCLUDED.url_path,
			content = EXCLUDED.content,
			published = EXCLUDED.published,
			updated = EXCLUDED.updated
	`
	_, err := r.db.ExecContext(ctx, query,
		page.ArticleNumber, page.VersionNumber, page.Title, page.UrlPath,
		page.Content, page.Published, page.Updated,
	)
	return err
}

// Get retrieves the live snapshot for an article number, nil when absent
func (r *pageRepo) Get(ctx context.Context, articleNumber int) (*models.Page, error) {
	query := `
		SELECT article_number, version_number, title, url_path, content, published, updated
		FROM pages WHERE article_number = $1
	`

	var page models.Page
	var published sql.NullTime

	err := r.db.QueryRowContext(ctx, query, articleNumber).Scan(
		&page.ArticleNumber, &page.VersionNumber, &page.Title, &page.UrlPath,
		&page.Content, &published, &page.Updated,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if published.Valid {
		t := published.Time
		page.Published = &t
	}
	return &page, nil
}

// Delete removes the snapshot on unpublish or delete; idempotent
func (r *pageRepo) Delete(ctx context.Context, articleNumber int) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM pages WHERE article_number = $1", articleNumber)
	return err
}
