package models

import (
	"time"
)

// ArticleType selects the slug-building rule for an article.
type ArticleType int

const (
	ArticleGeneral ArticleType = iota
	ArticleBlogStream
	ArticleBlogPost
)

// String returns the storage label for the type
func (t ArticleType) String() string {
	switch t {
	case ArticleBlogStream:
		return "blog_stream"
	case ArticleBlogPost:
		return "blog_post"
	default:
		return "general"
	}
}

// StatusCode is the lifecycle state of one article version row.
type StatusCode int

const (
	StatusInactive StatusCode = 0
	StatusActive   StatusCode = 1
	StatusDeleted  StatusCode = 2
	StatusRedirect StatusCode = 3
)

// Article is one version row of a logical content item. All rows sharing an
// ArticleNumber describe versions of the same item and must carry an
// identical UrlPath and BlogKey; VersionNumber increases per ArticleNumber
// but is not necessarily contiguous. Deleted rows stay in storage and are
// excluded from every selection and validation query.
type Article struct {
	ArticleNumber int         `json:"article_number" db:"article_number"`
	VersionNumber int         `json:"version_number" db:"version_number"`
	Title         string      `json:"title" db:"title"`
	Content       string      `json:"content" db:"content"`
	Introduction  string      `json:"introduction" db:"introduction"`
	BannerImage   string      `json:"banner_image" db:"banner_image"`
	UrlPath       string      `json:"url_path" db:"url_path"`
	BlogKey       string      `json:"blog_key" db:"blog_key"`
	ArticleType   ArticleType `json:"article_type" db:"article_type"`
	StatusCode    StatusCode  `json:"status_code" db:"status_code"`
	Published     *time.Time  `json:"published,omitempty" db:"published"`
	TemplateID    *int        `json:"template_id,omitempty" db:"template_id"`
	UserID        string      `json:"user_id" db:"user_id"`
	Updated       time.Time   `json:"updated" db:"updated"`
}

// IsPublished reports whether the version is scheduled or live.
func (a *Article) IsPublished() bool {
	return a.Published != nil
}

// EligibleAt reports whether the version can be the live one at the given
// instant. The boundary is inclusive: Published == now is eligible.
func (a *Article) EligibleAt(now time.Time) bool {
	if a.Published == nil || a.StatusCode == StatusDeleted || a.StatusCode == StatusRedirect {
		return false
	}
	return !a.Published.After(now)
}
