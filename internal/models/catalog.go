package models

import (
	"time"
)

// Catalog entry status labels
const (
	CatalogStatusActive   = "Active"
	CatalogStatusInactive = "Inactive"
)

// CatalogEntry is the denormalized per-article listing projection. Exactly
// one row exists per ArticleNumber; it is updated in place as versions
// publish and removed only when the article is hard-deleted.
type CatalogEntry struct {
	ArticleNumber int        `json:"article_number" db:"article_number"`
	Title         string     `json:"title" db:"title"`
	UrlPath       string     `json:"url_path" db:"url_path"`
	Introduction  string     `json:"introduction" db:"introduction"`
	Status        string     `json:"status" db:"status"`
	BannerImage   string     `json:"banner_image" db:"banner_image"`
	BlogKey       string     `json:"blog_key" db:"blog_key"`
	AuthorInfo    string     `json:"author_info" db:"author_info"`
	Published     *time.Time `json:"published,omitempty" db:"published"`
	Updated       time.Time  `json:"updated" db:"updated"`
	TemplateID    *int       `json:"template_id,omitempty" db:"template_id"`
}
