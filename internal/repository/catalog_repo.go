package repository

import (
	"context"
	"database/sql"

	"github.com/CWALabs/SkyCMS-sub002/internal/database"
	"github.com/CWALabs/SkyCMS-sub002/internal/models"
)

// catalogRepo is the concrete implementation of CatalogRepository
type catalogRepo struct {
	db *database.DB
}

// NewCatalogRepo creates a new catalog repository
func NewCatalogRepo(db *database.DB) CatalogRepository {
	return &catalogRepo{db: db}
}

// Upsert creates or replaces the single catalog row for an article number
func (r *catalogRepo) Upsert(ctx context.Context, entry *models.CatalogEntry) error {
	query := `
		INSERT INTO catalog_entries
			(article_number, title, url_path, introduction, status, banner_image,
			 blog_key, author_info, published, updated, template_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (article_number) DO UPDATE SET
			title = EXCLUDED.title,
			url_path = EXCLUDED.url_path,
			introduction = EXCLUDED.introduction,
			status = EXCLUDED.status,
			banner_image = EXCLUDED.banner_image,
			blog_key = EXCLUDED.blog_key,
			author_info = EXCLUDED.author_info,
			published = EXCLUDED.published,
			updated = EXCLUDED.updated,
			template_id = EXCLUDED.template_id
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ArticleNumber, entry.Title, entry.UrlPath, entry.Introduction, entry.Status,
		entry.BannerImage, entry.BlogKey, entry.AuthorInfo, entry.Published, entry.Updated,
		entry.TemplateID,
	)
	return err
}

// Get retrieves the catalog row for an article number, nil when absent
func (r *catalogRepo) Get(ctx context.Context, articleNumber int) (*models.CatalogEntry, error) {
	query := `
		SELECT article_number, title, url_path, introduction, status, banner_image,
		       blog_key, author_info, published, updated, template_id
		FROM catalog_entries WHERE article_number = $1
	`

	var entry models.CatalogEntry
	var published sql.NullTime
	var templateID sql.NullInt64

	err := r.db.QueryRowContext(ctx, query, articleNumber).Scan(
		&entry.ArticleNumber, &entry.Title, &entry.UrlPath, &entry.Introduction, &entry.Status,
		&entry.BannerImage, &entry.BlogKey, &entry.AuthorInfo, &published, &entry.Updated,
		&templateID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if published.Valid {
		t := published.Time
		entry.Published = &t
	}
	if templateID.Valid {
		id := int(templateID.Int64)
		entry.TemplateID = &id
	}
	return &entry, nil
}

// Delete removes the catalog row; deleting a non-existent entry is not an error
func (r *catalogRepo) Delete(ctx context.Context, articleNumber int) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM catalog_entries WHERE article_number = $1", articleNumber)
	return err
}
