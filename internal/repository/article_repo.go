package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/CWALabs/SkyCMS-sub002/internal/database"
	"github.com/CWALabs/SkyCMS-sub002/internal/models"
)

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

const articleColumns = `article_number, version_number, title, content, introduction,
	banner_image, url_path, blog_key, article_type, status_code, published, template_id, user_id, updated`

// Create inserts a new article version row
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.ExecContext(ctx, query,
		article.ArticleNumber, article.VersionNumber, article.Title, article.Content,
		article.Introduction, article.BannerImage, article.UrlPath, article.BlogKey,
		int(article.ArticleType), int(article.StatusCode), article.Published,
		article.TemplateID, article.UserID, article.Updated,
	)
	return err
}

// GetVersions retrieves every non-deleted version row of one article group,
// newest version first.
func (r *articleRepo) GetVersions(ctx context.Context, articleNumber int) ([]*models.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE article_number = $1 AND status_code <> $2
		ORDER BY version_number DESC
	`
	rows, err := r.db.QueryContext(ctx, query, articleNumber, int(models.StatusDeleted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanArticles(rows)
}

// GetVersion retrieves a single version row, or nil when absent
func (r *articleRepo) GetVersion(ctx context.Context, articleNumber, versionNumber int) (*models.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE article_number = $1 AND version_number = $2 AND status_code <> $3
	`
	row := r.db.QueryRowContext(ctx, query, articleNumber, versionNumber, int(models.StatusDeleted))

	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return article, nil
}

// ListGroupNumbers retrieves the distinct article numbers that have at least
// one non-deleted version with a publish timestamp. These are the sweep
// candidates.
func (r *articleRepo) ListGroupNumbers(ctx context.Context) ([]int, error) {
	query := `
		SELECT DISTINCT article_number
		FROM articles
		WHERE published IS NOT NULL AND status_code NOT IN ($1, $2)
		ORDER BY article_number
	`
	rows, err := r.db.QueryContext(ctx, query, int(models.StatusDeleted), int(models.StatusRedirect))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var numbers []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}

// ClearPublished unpublishes every eligible version of a group except the
// kept one. Only rows with published <= cutoff are touched, so
// future-scheduled versions survive the sweep unchanged. Returns the number
// of superseded rows.
func (r *articleRepo) ClearPublished(ctx context.Context, articleNumber, keepVersion int, cutoff time.Time) (int64, error) {
	query := `
		UPDATE articles
		SET published = NULL, updated = NOW()
		WHERE article_number = $1
		  AND version_number <> $2
		  AND published IS NOT NULL
		  AND published <= $3
		  AND status_code NOT IN ($4, $5)
	`
	res, err := r.db.ExecContext(ctx, query, articleNumber, keepVersion, cutoff,
		int(models.StatusDeleted), int(models.StatusRedirect))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateSlug rewrites url_path and blog_key on every version row of one
// group in a single statement, so no reader ever observes versions of the
// same article disagreeing on their path.
func (r *articleRepo) UpdateSlug(ctx context.Context, articleNumber int, urlPath, blogKey string) error {
	query := `
		UPDATE articles
		SET url_path = $2, blog_key = $3, updated = NOW()
		WHERE article_number = $1
	`
	_, err := r.db.ExecContext(ctx, query, articleNumber, urlPath, blogKey)
	return err
}

// RewriteBlogKey moves every blog post under oldKey to newKey, rewriting the
// key prefix of each post's url_path while preserving the post suffix. One
// statement covers the whole cascade.
func (r *articleRepo) RewriteBlogKey(ctx context.Context, oldKey, newKey string) (int64, error) {
	query := `
		UPDATE articles
		SET blog_key = $2,
		    url_path = $2 || substring(url_path from length($1) + 1),
		    updated = NOW()
		WHERE blog_key = $1
		  AND article_type = $3
		  AND status_code <> $4
	`
	res, err := r.db.ExecContext(ctx, query, oldKey, newKey,
		int(models.ArticleBlogPost), int(models.StatusDeleted))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListByBlogKey retrieves all non-deleted blog post rows under a blog key
func (r *articleRepo) ListByBlogKey(ctx context.Context, blogKey string) ([]*models.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE blog_key = $1 AND article_type = $2 AND status_code <> $3
		ORDER BY article_number, version_number
	`
	rows, err := r.db.QueryContext(ctx, query, blogKey, int(models.ArticleBlogPost), int(models.StatusDeleted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanArticles(rows)
}

// SlugInUse checks whether any non-deleted article besides the excluded one
// occupies the slug. Deleted articles never block a slug.
func (r *articleRepo) SlugInUse(ctx context.Context, slug string, excludeArticleNumber int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM articles
			WHERE LOWER(url_path) = LOWER($1)
			  AND article_number <> $2
			  AND status_code <> $3
		)
	`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, slug, excludeArticleNumber, int(models.StatusDeleted)).Scan(&exists)
	return exists, err
}

// MaxArticleNumber returns the highest article number in use, zero when the
// table is empty
func (r *articleRepo) MaxArticleNumber(ctx context.Context) (int, error) {
	var max sql.NullInt64
	err := r.db.QueryRowContext(ctx, "SELECT MAX(article_number) FROM articles").Scan(&max)
	if err != nil {
		return 0, err
	}
	return int(max.Int64), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var article models.Article
	var published sql.NullTime
	var templateID sql.NullInt64
	var articleType, statusCode int

	err := row.Scan(
		&article.ArticleNumber, &article.VersionNumber, &article.Title, &article.Content,
		&article.Introduction, &article.BannerImage, &article.UrlPath, &article.BlogKey,
		&articleType, &statusCode, &published, &templateID, &article.UserID, &article.Updated,
	)
	if err != nil {
		return nil, err
	}

	article.ArticleType = models.ArticleType(articleType)
	article.StatusCode = models.StatusCode(statusCode)
	if published.Valid {
		t := published.Time
		article.Published = &t
	}
	if templateID.Valid {
		id := int(templateID.Int64)
		article.TemplateID = &id
	}
	return &article, nil
}

func scanArticles(rows *sql.Rows) ([]*models.Article, error) {
	var articles []*models.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}
