package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/CWALabs/SkyCMS-sub002/internal/api"
	"github.com/CWALabs/SkyCMS-sub002/internal/clock"
	"github.com/CWALabs/SkyCMS-sub002/internal/config"
	"github.com/CWALabs/SkyCMS-sub002/internal/database"
	"github.com/CWALabs/SkyCMS-sub002/internal/events"
	"github.com/CWALabs/SkyCMS-sub002/internal/repository"
	"github.com/CWALabs/SkyCMS-sub002/internal/service"
	"github.com/CWALabs/SkyCMS-sub002/internal/tenant"
	"github.com/CWALabs/SkyCMS-sub002/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting admin server...")

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

	hub := events.NewHub(rdb, log)
	factory := service.NewFactory(cfg, hub, clock.System{}, log)
	defer factory.Close()

	// Initialize router
	router := api.NewRouter(factory, resolver, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
