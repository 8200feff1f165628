// Package catalog maintains the denormalized per-article listing projection.
package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/CWALabs/SkyCMS-sub002/internal/models"
	"github.com/CWALabs/SkyCMS-sub002/internal/repository"
)

// Synchronizer maps article version rows onto their single catalog entry.
type Synchronizer struct {
	catalog repository.CatalogRepository
	log     zerolog.Logger
}

// NewSynchronizer creates a new Synchronizer
func NewSynchronizer(catalog repository.CatalogRepository, log zerolog.Logger) *Synchronizer {
	return &Synchronizer{
		catalog: catalog,
		log:     log.With().Str("component", "catalog").Logger(),
	}
}

// Upsert projects an article version onto the catalog, keyed by article
// number: update in place when a row exists, insert otherwise. AuthorInfo is
// always reset to empty; a separate author lookup fills it in later.
func (s *Synchronizer) Upsert(ctx context.Context, article *models.Article) error {
	status := models.CatalogStatusActive
	if article.StatusCode == models.StatusInactive {
		status = models.CatalogStatusInactive
	}

	intro := article.Introduction
	if intro == "" {
		intro = ExtractIntroduction(article.Content)
	}

	entry := &models.CatalogEntry{
		ArticleNumber: article.ArticleNumber,
		Title:         article.Title,
		UrlPath:       article.UrlPath,
		Introduction:  intro,
		Status:        status,
		BannerImage:   article.BannerImage,
		BlogKey:       article.BlogKey,
		AuthorInfo:    "",
		Published:     article.Published,
		Updated:       article.Updated,
		TemplateID:    article.TemplateID,
	}

	if err := s.catalog.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("failed to upsert catalog entry %d: %w", article.ArticleNumber, err)
	}

	s.log.Debug().
		Int("article_number", article.ArticleNumber).
		Str("status", status).
		Msg("Catalog entry synchronized")
	return nil
}

// Delete removes the catalog entry for an article number. Removing an entry
// that does not exist is not an error.
func (s *Synchronizer) Delete(ctx context.Context, articleNumber int) error {
	if err := s.catalog.Delete(ctx, articleNumber); err != nil {
		return fmt.Errorf("failed to delete catalog entry %d: %w", articleNumber, err)
	}
	s.log.Debug().Int("article_number", articleNumber).Msg("Catalog entry removed")
	return nil
}
