// Package service wires the engine's components together for one tenant.
package service

import (
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/CWALabs/SkyCMS-sub002/internal/catalog"
	"github.com/CWALabs/SkyCMS-sub002/internal/clock"
	"github.com/CWALabs/SkyCMS-sub002/internal/config"
	"github.com/CWALabs/SkyCMS-sub002/internal/database"
	"github.com/CWALabs/SkyCMS-sub002/internal/events"
	"github.com/CWALabs/SkyCMS-sub002/internal/models"
	"github.com/CWALabs/SkyCMS-sub002/internal/repository"
	"github.com/CWALabs/SkyCMS-sub002/internal/reserved"
	"github.com/CWALabs/SkyCMS-sub002/internal/scheduler"
	"github.com/CWALabs/SkyCMS-sub002/internal/slug"
	"github.com/CWALabs/SkyCMS-sub002/internal/statics"
)

// Services holds one tenant's fully wired engine components
type Services struct {
	Repos     *repository.Repositories
	Catalog   *catalog.Synchronizer
	Reserved  *reserved.Registry
	Slug      *slug.Service
	Scheduler *scheduler.Scheduler
}

// New creates all services over one tenant's database connection
func New(db *database.DB, conn *models.Connection, cfg *config.Config, dispatcher events.Dispatcher, clk clock.Clock, log zerolog.Logger) *Services {
	repos := repository.New(db)

	var writer statics.Writer = statics.Noop{}
	if cfg.Statics.Enabled && conn != nil && conn.StaticMode {
		writer = statics.NewFileWriter(filepath.Join(cfg.Statics.RootDir, conn.ID), log)
	}

	cat := catalog.NewSynchronizer(repos.Catalog, log)
	reg := reserved.NewRegistry(repos.Reserved, log)
	slugSvc := slug.NewService(repos.Article, repos.Page, cat, reg, writer, dispatcher, clk, log)
	sched := scheduler.New(repos.Article, repos.Page, cat, writer, clk, cfg.Scheduler.MaxWorkers, log)

	return &Services{
		Repos:     repos,
		Catalog:   cat,
		Reserved:  reg,
		Slug:      slugSvc,
		Scheduler: sched,
	}
}

// Factory hands out per-tenant Services, keeping one open database handle
// per tenant for the process lifetime.
type Factory struct {
	cfg        *config.Config
	dispatcher events.Dispatcher
	clock      clock.Clock
	log        zerolog.Logger

	mu       sync.Mutex
	dbs      map[string]*database.DB
	services map[string]*Services
}

// NewFactory creates a new Factory
func NewFactory(cfg *config.Config, dispatcher events.Dispatcher, clk clock.Clock, log zerolog.Logger) *Factory {
	return &Factory{
		cfg:        cfg,
		dispatcher: dispatcher,
		clock:      clk,
		log:        log,
		dbs:        make(map[string]*database.DB),
		services:   make(map[string]*Services),
	}
}

// For returns the wired services for a tenant connection, opening and
// caching its database handle on first use.
func (f *Factory) For(conn *models.Connection) (*Services, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if svc, ok := f.services[conn.ID]; ok {
		return svc, nil
	}

	db, err := database.Open(conn.DSN, f.log)
	if err != nil {
		return nil, err
	}
	f.dbs[conn.ID] = db

	svc := New(db, conn, f.cfg, f.dispatcher, f.clock, f.log)
	f.services[conn.ID] = svc
	return svc, nil
}

// Close releases every cached tenant database handle
func (f *Factory) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, db := range f.dbs {
		if err := db.Close(); err != nil {
			f.log.Warn().Err(err).Str("tenant_id", id).Msg("Failed to close tenant database")
		}
	}
	f.dbs = make(map[string]*database.DB)
	f.services = make(map[string]*Services)
}
