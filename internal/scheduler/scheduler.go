// Package scheduler converges stored state to the single live version of
// every article. Each sweep is a finite, stateless batch job: winner
// selection is a pure function of the version rows, so re-running a sweep
// against converged state is a no-op and racing sweeps agree on the outcome
// without locks.
package scheduler

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/CWALabs/SkyCMS-sub002/internal/catalog"
	"github.com/CWALabs/SkyCMS-sub002/internal/clock"
	"github.com/CWALabs/SkyCMS-sub002/internal/metrics"
	"github.com/CWALabs/SkyCMS-sub002/internal/models"
	"github.com/CWALabs/SkyCMS-sub002/internal/repository"
	"github.com/CWALabs/SkyCMS-sub002/internal/statics"
)

// Scheduler selects and materializes the live version per article group
type Scheduler struct {
	articles repository.ArticleRepository
	pages    repository.PageRepository
	catalog  *catalog.Synchronizer
	statics  statics.Writer
	clock    clock.Clock
	log      zerolog.Logger
	// Semaphore: buffered channel limiting concurrent group convergence
	sem chan struct{}
}

// New creates a Scheduler with a worker pool sized for I/O-bound work
func New(
	articles repository.ArticleRepository,
	pages repository.PageRepository,
	cat *catalog.Synchronizer,
	writer statics.Writer,
	clk clock.Clock,
	maxWorkers int,
	log zerolog.Logger,
) *Scheduler {
	if maxWorkers <= 0 {
		// group convergence waits on the database, so run more workers
		// than cores, capped to keep connection pressure sane
		maxWorkers = runtime.NumCPU() * 4
		if maxWorkers < 4 {
			maxWorkers = 4
		}
		if maxWorkers > 32 {
			maxWorkers = 32
		}
	}

	return &Scheduler{
		articles: articles,
		pages:    pages,
		catalog:  cat,
		statics:  writer,
		clock:    clk,
		log:      log.With().Str("component", "scheduler").Logger(),
		sem:      make(chan struct{}, maxWorkers),
	}
}

// SelectWinner picks the live version from a group at the given instant:
// the eligible version with the greatest Published timestamp, ties broken by
// the greatest VersionNumber. The second return value lists the superseded
// versions, every other eligible one. Future-scheduled, deleted, and
// redirect rows are not eligible and never appear in either.
func SelectWinner(versions []*models.Article, now time.Time) (*models.Article, []*models.Article) {
	var winner *models.Article
	var eligible []*models.Article

	for _, v := range versions {
		if !v.EligibleAt(now) {
			continue
		}
		eligible = append(eligible, v)
		if winner == nil {
			winner = v
			continue
		}
		if v.Published.After(*winner.Published) ||
			(v.Published.Equal(*winner.Published) && v.VersionNumber > winner.VersionNumber) {
			winner = v
		}
	}
	if winner == nil {
		return nil, nil
	}

	superseded := make([]*models.Article, 0, len(eligible)-1)
	for _, v := range eligible {
		if v.VersionNumber != winner.VersionNumber {
			superseded = append(superseded, v)
		}
	}
	return winner, superseded
}

// Sweep converges every candidate article group in the current tenant's
// store. Groups run concurrently under the semaphore; one group's failure is
// logged and counted without touching the rest, and cancellation stops
// dispatching new groups while already-running ones finish.
func (s *Scheduler) Sweep(ctx context.Context) error {
	runID := uuid.New().String()
	start := time.Now()
	log := s.log.With().Str("run_id", runID).Logger()

	groups, err := s.articles.ListGroupNumbers(ctx)
	if err != nil {
		metrics.ObserveSweep("error", time.Since(start))
		return fmt.Errorf("failed to list article groups: %w", err)
	}
	log.Info().Int("groups", len(groups)).Msg("Sweep started")

	var wg sync.WaitGroup
	for _, articleNumber := range groups {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			metrics.ObserveSweep("cancelled", time.Since(start))
			log.Warn().Msg("Sweep cancelled")
			return err
		}
		select {
		case s.sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			metrics.ObserveSweep("cancelled", time.Since(start))
			log.Warn().Msg("Sweep cancelled")
			return ctx.Err()
		}

		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			defer func() { <-s.sem }()
			defer func() {
				if r := recover(); r != nil {
					metrics.ObserveGroup("panic")
					log.Error().
						Interface("panic", r).
						Int("article_number", n).
						Msg("Group convergence panicked - recovered")
				}
			}()

			if err := s.ConvergeGroup(ctx, n); err != nil {
				metrics.ObserveGroup("error")
				log.Error().Err(err).Int("article_number", n).Msg("Group convergence failed")
				return
			}
			metrics.ObserveGroup("ok")
		}(articleNumber)
	}
	wg.Wait()

	metrics.ObserveSweep("ok", time.Since(start))
	log.Info().Dur("duration", time.Since(start)).Msg("Sweep completed")
	return nil
}

// ConvergeGroup converges a single article group: supersede every eligible
// version except the winner, then replace the page snapshot and refresh the
// catalog when the winner changed. A group with no eligible version is left
// entirely untouched.
func (s *Scheduler) ConvergeGroup(ctx context.Context, articleNumber int) error {
	now := s.clock.Now()

	versions, err := s.articles.GetVersions(ctx, articleNumber)
	if err != nil {
		return fmt.Errorf("failed to load versions for group %d: %w", articleNumber, err)
	}

	winner, superseded := SelectWinner(versions, now)
	if winner == nil {
		return nil
	}

	if len(superseded) > 0 {
		cleared, err := s.articles.ClearPublished(ctx, articleNumber, winner.VersionNumber, now)
		if err != nil {
			return fmt.Errorf("failed to supersede versions in group %d: %w", articleNumber, err)
		}
		s.log.Debug().
			Int("article_number", articleNumber).
			Int64("superseded", cleared).
			Msg("Superseded older published versions")
	}

	page, err := s.pages.Get(ctx, articleNumber)
	if err != nil {
		return fmt.Errorf("failed to load page for group %d: %w", articleNumber, err)
	}
	if page != nil && page.VersionNumber == winner.VersionNumber {
		return nil
	}

	snapshot := models.PageFromArticle(winner)
	if err := s.pages.Replace(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to materialize page for group %d: %w", articleNumber, err)
	}
	if err := s.statics.WritePage(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to write page artifact for group %d: %w", articleNumber, err)
	}
	if err := s.catalog.Upsert(ctx, winner); err != nil {
		return err
	}
	metrics.PagesMaterialized.Inc()

	s.log.Info().
		Int("article_number", articleNumber).
		Int("version", winner.VersionNumber).
		Msg("Live version materialized")
	return nil
}
