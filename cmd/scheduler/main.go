package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/CWALabs/SkyCMS-sub002/internal/clock"
	"github.com/CWALabs/SkyCMS-sub002/internal/config"
	"github.com/CWALabs/SkyCMS-sub002/internal/database"
	"github.com/CWALabs/SkyCMS-sub002/internal/events"
	"github.com/CWALabs/SkyCMS-sub002/internal/models"
	"github.com/CWALabs/SkyCMS-sub002/internal/repository"
	"github.com/CWALabs/SkyCMS-sub002/internal/service"
	"github.com/CWALabs/SkyCMS-sub002/internal/tenant"
	"github.com/CWALabs/SkyCMS-sub002/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting publishing scheduler...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to the tenant directory
	directoryDB, err := database.New(&cfg.Directory, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to directory database")
	}
	defer directoryDB.Close()

	migrationsPath := os.Getenv("DIRECTORY_MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations/directory"
	}
	if err := directoryDB.RunMigrations(migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run directory migrations")
	}

	// Optional Redis; without it the shared cache layer and event
	// publication are skipped
	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
	}

	resolver, err := tenant.NewResolver(repository.NewTenantRepo(directoryDB), rdb, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create tenant resolver")
	}
	runner := tenant.NewRunner(resolver, cfg.Scheduler.TenantParallel, log)

	hub := events.NewHub(rdb, log)
	factory := service.NewFactory(cfg, hub, clock.System{}, log)
	defer factory.Close()

	sweepTenant := func(ctx context.Context, conn *models.Connection) error {
		svc, err := factory.For(conn)
		if err != nil {
			return err
		}
		return svc.Scheduler.Sweep(ctx)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Periodic multi-tenant sweep
	done := make(chan struct{})
	go func() {
		defer close(done)

		ticker := time.NewTicker(cfg.Scheduler.Interval)
		defer ticker.Stop()

		// first sweep runs immediately
		if err := runner.ForEachTenant(ctx, sweepTenant); err != nil {
			log.Error().Err(err).Msg("Multi-tenant sweep failed")
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := runner.ForEachTenant(ctx, sweepTenant); err != nil {
					log.Error().Err(err).Msg("Multi-tenant sweep failed")
				}
			}
		}
	}()
	log.Info().Dur("interval", cfg.Scheduler.Interval).Msg("Scheduler running")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down scheduler...")

	cancel()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		log.Warn().Msg("Sweep did not finish before shutdown deadline")
	}

	log.Info().Msg("Scheduler exited gracefully")
}
