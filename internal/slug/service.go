// Package slug computes canonical article URLs and keeps every derived
// artifact consistent when a title changes: version rows, blog post
// cascades, redirects, page snapshots, and the catalog projection.
package slug

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/CWALabs/SkyCMS-sub002/internal/catalog"
	"github.com/CWALabs/SkyCMS-sub002/internal/clock"
	"github.com/CWALabs/SkyCMS-sub002/internal/events"
	"github.com/CWALabs/SkyCMS-sub002/internal/metrics"
	"github.com/CWALabs/SkyCMS-sub002/internal/models"
	"github.com/CWALabs/SkyCMS-sub002/internal/repository"
	"github.com/CWALabs/SkyCMS-sub002/internal/reserved"
	"github.com/CWALabs/SkyCMS-sub002/internal/statics"
	"github.com/CWALabs/SkyCMS-sub002/internal/tenant"
)

var (
	// ErrBlankTitle rejects empty or whitespace-only titles
	ErrBlankTitle = errors.New("title must not be blank")
	// ErrReservedPath rejects slugs claiming a reserved route prefix
	ErrReservedPath = errors.New("title resolves to a reserved path")
	// ErrTitleConflict rejects slugs already held by another article
	ErrTitleConflict = errors.New("title resolves to a slug already in use")
)

// Service is the slug and redirect cascade service
type Service struct {
	articles repository.ArticleRepository
	pages    repository.PageRepository
	catalog  *catalog.Synchronizer
	reserved *reserved.Registry
	statics  statics.Writer
	events   events.Dispatcher
	clock    clock.Clock
	log      zerolog.Logger
}

// NewService creates a new slug Service
func NewService(
	articles repository.ArticleRepository,
	pages repository.PageRepository,
	cat *catalog.Synchronizer,
	res *reserved.Registry,
	writer statics.Writer,
	dispatcher events.Dispatcher,
	clk clock.Clock,
	log zerolog.Logger,
) *Service {
	return &Service{
		articles: articles,
		pages:    pages,
		catalog:  cat,
		reserved: res,
		statics:  writer,
		events:   dispatcher,
		clock:    clk,
		log:      log.With().Str("component", "slug").Logger(),
	}
}

// BuildArticleURL computes the canonical slug for an article. Blog posts
// nest under their stream's blog key; a blog stream's slug doubles as its
// own blog key. Slashes in titles separate path segments and survive
// normalization.
func (s *Service) BuildArticleURL(article *models.Article) string {
	switch article.ArticleType {
	case models.ArticleBlogPost:
		return NormalizePath(article.BlogKey) + "/" + Normalize(article.Title)
	default:
		return NormalizePath(article.Title)
	}
}

// ValidateTitle reports whether a title may be used. It fails on blank
// titles, reserved paths, and slugs held by any other non-deleted article;
// an article keeps the right to its own slug, and deleted articles never
// block one. Use excludeArticleNumber zero when validating a new article.
func (s *Service) ValidateTitle(ctx context.Context, title string, excludeArticleNumber int) (bool, error) {
	candidate := NormalizePath(title)
	if candidate == "" {
		return false, nil
	}

	isReserved, err := s.reserved.IsReserved(ctx, candidate)
	if err != nil {
		return false, fmt.Errorf("failed to check reserved paths: %w", err)
	}
	if isReserved {
		return false, nil
	}

	inUse, err := s.articles.SlugInUse(ctx, candidate, excludeArticleNumber)
	if err != nil {
		return false, fmt.Errorf("failed to check slug uniqueness: %w", err)
	}
	return !inUse, nil
}

// HandleTitleChange runs the rename cascade after a title edit. The caller
// passes the article with its new Title; oldTitle and oldSlug describe the
// state being vacated. When the computed slug is unchanged nothing happens
// and no event fires. A validation failure returns before any mutation so
// the caller can refuse to persist the rename.
func (s *Service) HandleTitleChange(ctx context.Context, article *models.Article, oldTitle, oldSlug string) error {
	oldBlogKey := article.BlogKey
	if article.ArticleType == models.ArticleBlogStream {
		// a stream's key is its own slug, so retitling moves the key too
		article.BlogKey = NormalizePath(article.Title)
	}

	newSlug := s.BuildArticleURL(article)
	if newSlug == oldSlug {
		article.BlogKey = oldBlogKey
		return nil
	}

	if err := s.validateRename(ctx, article, newSlug); err != nil {
		article.BlogKey = oldBlogKey
		return err
	}

	// all version rows of the group move together
	if err := s.articles.UpdateSlug(ctx, article.ArticleNumber, newSlug, article.BlogKey); err != nil {
		return fmt.Errorf("failed to update slug on article %d: %w", article.ArticleNumber, err)
	}
	article.UrlPath = newSlug

	if article.ArticleType == models.ArticleBlogStream && oldBlogKey != "" {
		moved, err := s.articles.RewriteBlogKey(ctx, oldBlogKey, article.BlogKey)
		if err != nil {
			return fmt.Errorf("failed to cascade blog key %q: %w", oldBlogKey, err)
		}
		if moved > 0 {
			s.log.Info().
				Str("old_key", oldBlogKey).
				Str("new_key", article.BlogKey).
				Int64("rows", moved).
				Msg("Blog post cascade applied")
		}
	}

	if article.IsPublished() {
		if err := s.createRedirect(ctx, oldSlug, newSlug); err != nil {
			return err
		}
		if err := s.rematerialize(ctx, article); err != nil {
			return err
		}
	}

	metrics.TitleChanges.Inc()
	s.log.Info().
		Int("article_number", article.ArticleNumber).
		Str("old_slug", oldSlug).
		Str("new_slug", newSlug).
		Msg("Title change cascade completed")

	// fire-and-forget: observer failures never roll back the cascade
	domain, _ := tenant.DomainFromContext(ctx)
	s.events.TitleChanged(ctx, events.TitleChanged{
		Domain:        domain,
		ArticleNumber: article.ArticleNumber,
		OldTitle:      oldTitle,
		NewTitle:      article.Title,
		OldPath:       oldSlug,
		NewPath:       newSlug,
		Occurred:      s.clock.Now(),
	})
	return nil
}

// validateRename mirrors ValidateTitle but maps each failure to its sentinel
func (s *Service) validateRename(ctx context.Context, article *models.Article, newSlug string) error {
	if strings.TrimSpace(article.Title) == "" || newSlug == "" {
		return ErrBlankTitle
	}

	isReserved, err := s.reserved.IsReserved(ctx, newSlug)
	if err != nil {
		return fmt.Errorf("failed to check reserved paths: %w", err)
	}
	if isReserved {
		return fmt.Errorf("%q: %w", newSlug, ErrReservedPath)
	}

	inUse, err := s.articles.SlugInUse(ctx, newSlug, article.ArticleNumber)
	if err != nil {
		return fmt.Errorf("failed to check slug uniqueness: %w", err)
	}
	if inUse {
		return fmt.Errorf("%q: %w", newSlug, ErrTitleConflict)
	}
	return nil
}

// createRedirect leaves a permanent pointer at the vacated slug. The
// redirect is an article row of its own under a fresh article number; the
// delivery path consults it, the scheduler never selects it.
func (s *Service) createRedirect(ctx context.Context, oldSlug, newSlug string) error {
	max, err := s.articles.MaxArticleNumber(ctx)
	if err != nil {
		return fmt.Errorf("failed to allocate redirect article number: %w", err)
	}

	now := s.clock.Now()
	redirect := &models.Article{
		ArticleNumber: max + 1,
		VersionNumber: 1,
		Title:         oldSlug,
		Content:       newSlug,
		UrlPath:       oldSlug,
		StatusCode:    models.StatusRedirect,
		Published:     &now,
		Updated:       now,
	}
	if err := s.articles.Create(ctx, redirect); err != nil {
		return fmt.Errorf("failed to create redirect at %q: %w", oldSlug, err)
	}

	if err := s.statics.WriteRedirect(ctx, oldSlug, newSlug); err != nil {
		return fmt.Errorf("failed to write redirect artifact: %w", err)
	}

	s.log.Info().Str("from", oldSlug).Str("to", newSlug).Msg("Redirect created")
	return nil
}

// rematerialize refreshes the Page snapshot, static artifact, and catalog
// projection so a renamed published article is immediately reachable at its
// new location.
func (s *Service) rematerialize(ctx context.Context, article *models.Article) error {
	page := models.PageFromArticle(article)
	if err := s.pages.Replace(ctx, page); err != nil {
		return fmt.Errorf("failed to re-materialize page %d: %w", article.ArticleNumber, err)
	}
	if err := s.statics.WritePage(ctx, page); err != nil {
		return fmt.Errorf("failed to write page artifact: %w", err)
	}
	if err := s.catalog.Upsert(ctx, article); err != nil {
		return err
	}
	return nil
}
