package repository

import (
	"context"
	"time"

	"github.com/CWALabs/SkyCMS-sub002/internal/database"
	"github.com/CWALabs/SkyCMS-sub002/internal/models"
)

// ArticleRepository defines the interface for article version data operations.
// Deleted rows are excluded from every query here except ClearPublished,
// which never matches them anyway (they carry no Published value worth
// keeping); nothing ever removes a row physically.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetVersions(ctx context.Context, articleNumber int) ([]*models.Article, error)
	GetVersion(ctx context.Context, articleNumber, versionNumber int) (*models.Article, error)
	ListGroupNumbers(ctx context.Context) ([]int, error)
	ClearPublished(ctx context.Context, articleNumber, keepVersion int, cutoff time.Time) (int64, error)
	UpdateSlug(ctx context.Context, articleNumber int, urlPath, blogKey string) error
	RewriteBlogKey(ctx context.Context, oldKey, newKey string) (int64, error)
	ListByBlogKey(ctx context.Context, blogKey string) ([]*models.Article, error)
	SlugInUse(ctx context.Context, slug string, excludeArticleNumber int) (bool, error)
	MaxArticleNumber(ctx context.Context) (int, error)
}

// CatalogRepository defines the interface for the catalog projection
type CatalogRepository interface {
	Upsert(ctx context.Context, entry *models.CatalogEntry) error
	Get(ctx context.Context, articleNumber int) (*models.CatalogEntry, error)
	Delete(ctx context.Context, articleNumber int) error
}

// PageRepository defines the interface for materialized page snapshots
type PageRepository interface {
	Replace(ctx context.Context, page *models.Page) error
	Get(ctx context.Context, articleNumber int) (*models.Page, error)
	Delete(ctx context.Context, articleNumber int) error
}

// ReservedPathRepository defines the interface for the reserved path set
type ReservedPathRepository interface {
	List(ctx context.Context) ([]models.ReservedPath, error)
	Get(ctx context.Context, path string) (*models.ReservedPath, error)
	Upsert(ctx context.Context, p models.ReservedPath) error
	Delete(ctx context.Context, path string) error
	Count(ctx context.Context) (int, error)
}

// TenantRepository defines the interface for the tenant directory
type TenantRepository interface {
	ListDomains(ctx context.Context) ([]string, error)
	GetByDomain(ctx context.Context, domain string) (*models.Connection, error)
}

// Repositories holds all tenant-schema repository interfaces
type Repositories struct {
	Article  ArticleRepository
	Catalog  CatalogRepository
	Page     PageRepository
	Reserved ReservedPathRepository
}

// New creates all tenant-schema repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article:  NewArticleRepo(db),
		Catalog:  NewCatalogRepo(db),
		Page:     NewPageRepo(db),
		Reserved: NewReservedPathRepo(db),
	}
}
