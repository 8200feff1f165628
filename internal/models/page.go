package models

import (
	"time"
)

// Page is the materialized snapshot of the currently live version, consumed
// by the delivery path. One row per ArticleNumber, replaced wholesale when
// the selected winner changes.
type Page struct {
	ArticleNumber int        `json:"article_number" db:"article_number"`
	VersionNumber int        `json:"version_number" db:"version_number"`
	Title         string     `json:"title" db:"title"`
	UrlPath       string     `json:"url_path" db:"url_path"`
	Content       string     `json:"content" db:"content"`
	Published     *time.Time `json:"published,omitempty" db:"published"`
	Updated       time.Time  `json:"updated" db:"updated"`
}

// PageFromArticle builds the snapshot for a winning version.
func PageFromArticle(a *Article) *Page {
	return &Page{
		ArticleNumber: a.ArticleNumber,
		VersionNumber: a.VersionNumber,
		Title:         a.Title,
		UrlPath:       a.UrlPath,
		Content:       a.Content,
		Published:     a.Published,
		Updated:       a.Updated,
	}
}
