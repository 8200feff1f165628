package reserved_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/CWALabs/SkyCMS-sub002/internal/mocks"
	"github.com/CWALabs/SkyCMS-sub002/internal/models"
	"github.com/CWALabs/SkyCMS-sub002/internal/reserved"
)

func newRegistry() (*reserved.Registry, *mocks.MockReservedPathRepository) {
	repo := mocks.NewMockReservedPathRepository()
	return reserved.NewRegistry(repo, zerolog.Nop()), repo
}

func TestRegistry_SeedsOnFirstUse(t *testing.T) {
	registry, repo := newRegistry()
	ctx := context.Background()

	paths, err := registry.Paths(ctx)
	if err != nil {
		t.Fatalf("Paths failed: %v", err)
	}
	if len(paths) != len(reserved.SeedPaths) {
		t.Fatalf("Expected %d seeded paths, got %d", len(reserved.SeedPaths), len(paths))
	}
	for _, p := range paths {
		if !p.CosmosRequired {
			t.Errorf("Seed %q should be system-required", p.Path)
		}
	}
	if n, _ := repo.Count(ctx); n != len(reserved.SeedPaths) {
		t.Errorf("Store holds %d entries, want %d", n, len(reserved.SeedPaths))
	}
}

func TestRegistry_SeedSkippedWhenStorePopulated(t *testing.T) {
	registry, repo := newRegistry()
	ctx := context.Background()

	repo.Upsert(ctx, models.ReservedPath{Path: "custom"})

	paths, err := registry.Paths(ctx)
	if err != nil {
		t.Fatalf("Paths failed: %v", err)
	}
	if len(paths) != 1 || paths[0].Path != "custom" {
		t.Errorf("Populated store must not be re-seeded, got %v", paths)
	}
}

func TestMatches(t *testing.T) {
	cases := []struct {
		pattern   string
		candidate string
		want      bool
	}{
		{"root", "root", true},
		{"root", "rooted", false},
		{"pub/*", "pub", true},
		{"pub/*", "pub/files/a.png", true},
		{"pub/*", "public", false},
		{"API/*", "api/v1", true},
	}

	for _, tc := range cases {
		if got := reserved.Matches(tc.pattern, tc.candidate); got != tc.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tc.pattern, tc.candidate, got, tc.want)
		}
	}
}

func TestRegistry_IsReserved(t *testing.T) {
	registry, _ := newRegistry()
	ctx := context.Background()

	cases := []struct {
		path string
		want bool
	}{
		{"root", true},
		{"ROOT", true},
		{"pub", true},
		{"pub/uploads/image.png", true},
		{"editor", true},
		{"blog", false},
		{"apiary", false},
	}

	for _, tc := range cases {
		got, err := registry.IsReserved(ctx, tc.path)
		if err != nil {
			t.Fatalf("IsReserved(%q) failed: %v", tc.path, err)
		}
		if got != tc.want {
			t.Errorf("IsReserved(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestRegistry_UpsertCustomPath(t *testing.T) {
	registry, _ := newRegistry()
	ctx := context.Background()

	// callers cannot mint system entries
	if err := registry.Upsert(ctx, models.ReservedPath{Path: "internal/*", CosmosRequired: true, Notes: "ops"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	paths, _ := registry.Paths(ctx)
	var stored *models.ReservedPath
	for i := range paths {
		if paths[i].Path == "internal/*" {
			stored = &paths[i]
		}
	}
	if stored == nil {
		t.Fatal("Custom path should be stored")
	}
	if stored.CosmosRequired {
		t.Error("Custom path must never be stored as system-required")
	}

	if ok, _ := registry.IsReserved(ctx, "internal/tools"); !ok {
		t.Error("Custom wildcard should reserve its subtree")
	}
}

func TestRegistry_UpsertRejectsSystemPath(t *testing.T) {
	registry, _ := newRegistry()
	ctx := context.Background()

	err := registry.Upsert(ctx, models.ReservedPath{Path: "pub/*", Notes: "takeover"})
	if !errors.Is(err, reserved.ErrSystemPath) {
		t.Fatalf("Expected ErrSystemPath, got %v", err)
	}
}

func TestRegistry_UpsertRejectsBlankPath(t *testing.T) {
	registry, _ := newRegistry()

	if err := registry.Upsert(context.Background(), models.ReservedPath{}); err == nil {
		t.Fatal("Expected validation error for blank path")
	}
}

func TestRegistry_Remove(t *testing.T) {
	registry, _ := newRegistry()
	ctx := context.Background()

	if err := registry.Upsert(ctx, models.ReservedPath{Path: "legacy"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := registry.Remove(ctx, "legacy"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if ok, _ := registry.IsReserved(ctx, "legacy"); ok {
		t.Error("Removed path should no longer be reserved")
	}

	// absent entries are a no-op, system entries refuse
	if err := registry.Remove(ctx, "never-existed"); err != nil {
		t.Errorf("Removing an absent path should be a no-op, got %v", err)
	}
	if err := registry.Remove(ctx, "admin/*"); !errors.Is(err, reserved.ErrSystemPath) {
		t.Errorf("Expected ErrSystemPath removing a system entry, got %v", err)
	}
}
