// Package reserved maintains the authoritative set of route prefixes that
// content may never claim.
package reserved

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"

	"github.com/CWALabs/SkyCMS-sub002/internal/models"
	"github.com/CWALabs/SkyCMS-sub002/internal/repository"
)

// ErrSystemPath is returned when a caller tries to modify or remove an entry
// the system seeded and depends on.
var ErrSystemPath = errors.New("reserved path is system-required and cannot be changed")

// Wildcard is the trailing pattern marking a prefix reservation
const Wildcard = "/*"

// SeedPaths are the system defaults installed on first use. All are
// CosmosRequired and therefore immutable through the registry.
var SeedPaths = []models.ReservedPath{
	{Path: "root", CosmosRequired: true, Notes: "Home page alias"},
	{Path: "pub" + Wildcard, CosmosRequired: true, Notes: "Public file storage"},
	{Path: "api" + Wildcard, CosmosRequired: true, Notes: "API endpoints"},
	{Path: "account" + Wildcard, CosmosRequired: true, Notes: "Account management"},
	{Path: "admin" + Wildcard, CosmosRequired: true, Notes: "Administrative interface"},
	{Path: "editor" + Wildcard, CosmosRequired: true, Notes: "Content editor"},
}

// Registry serves the persisted reserved path set, lazily installing the
// system defaults the first time it is consulted.
type Registry struct {
	repo repository.ReservedPathRepository
	log  zerolog.Logger

	mu     sync.Mutex
	seeded bool
}

// NewRegistry creates a new Registry
func NewRegistry(repo repository.ReservedPathRepository, log zerolog.Logger) *Registry {
	return &Registry{
		repo: repo,
		log:  log.With().Str("component", "reserved").Logger(),
	}
}

// Paths returns the full reserved set, seeding defaults on first use
func (r *Registry) Paths(ctx context.Context) ([]models.ReservedPath, error) {
	if err := r.ensureSeeded(ctx); err != nil {
		return nil, err
	}
	return r.repo.List(ctx)
}

// IsReserved reports whether the slug matches a reserved entry: exact match
// case-insensitive, or falling under any trailing-wildcard pattern.
func (r *Registry) IsReserved(ctx context.Context, path string) (bool, error) {
	paths, err := r.Paths(ctx)
	if err != nil {
		return false, err
	}

	candidate := strings.ToLower(strings.Trim(strings.TrimSpace(path), "/"))
	for _, p := range paths {
		if Matches(p.Path, candidate) {
			return true, nil
		}
	}
	return false, nil
}

// Matches reports whether a lowercased candidate path hits one stored
// pattern. A wildcard entry "x/*" covers "x" and everything under "x/".
func Matches(pattern, candidate string) bool {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if strings.HasSuffix(pattern, Wildcard) {
		prefix := strings.TrimSuffix(pattern, Wildcard)
		return candidate == prefix || strings.HasPrefix(candidate, prefix+"/")
	}
	return candidate == pattern
}

// Upsert creates or updates a custom entry. System entries reject any write.
func (r *Registry) Upsert(ctx context.Context, p models.ReservedPath) error {
	if err := r.ensureSeeded(ctx); err != nil {
		return err
	}
	if err := validation.ValidateStruct(&p,
		validation.Field(&p.Path, validation.Required, validation.Length(1, 256)),
	); err != nil {
		return err
	}

	existing, err := r.repo.Get(ctx, p.Path)
	if err != nil {
		return fmt.Errorf("failed to look up reserved path: %w", err)
	}
	if existing != nil && existing.CosmosRequired {
		return fmt.Errorf("%q: %w", p.Path, ErrSystemPath)
	}

	p.CosmosRequired = false
	if err := r.repo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("failed to store reserved path: %w", err)
	}
	r.log.Info().Str("path", p.Path).Msg("Reserved path stored")
	return nil
}

// Remove deletes a custom entry. System entries reject removal.
func (r *Registry) Remove(ctx context.Context, path string) error {
	if err := r.ensureSeeded(ctx); err != nil {
		return err
	}

	existing, err := r.repo.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to look up reserved path: %w", err)
	}
	if existing == nil {
		return nil
	}
	if existing.CosmosRequired {
		return fmt.Errorf("%q: %w", path, ErrSystemPath)
	}

	if err := r.repo.Delete(ctx, path); err != nil {
		return fmt.Errorf("failed to delete reserved path: %w", err)
	}
	r.log.Info().Str("path", path).Msg("Reserved path removed")
	return nil
}

// ensureSeeded installs the system defaults on first use. An empty store
// gets the full seed set; a store that already has entries is left alone.
// A failed attempt retries on the next call rather than wedging the registry.
func (r *Registry) ensureSeeded(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seeded {
		return nil
	}

	count, err := r.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count reserved paths: %w", err)
	}
	if count > 0 {
		r.seeded = true
		return nil
	}

	for _, p := range SeedPaths {
		if err := r.repo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("failed to seed reserved path %q: %w", p.Path, err)
		}
	}
	r.seeded = true
	r.log.Info().Int("count", len(SeedPaths)).Msg("Seeded system reserved paths")
	return nil
}
