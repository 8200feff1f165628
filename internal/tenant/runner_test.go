package tenant_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/CWALabs/SkyCMS-sub002/internal/mocks"
	"github.com/CWALabs/SkyCMS-sub002/internal/models"
	"github.com/CWALabs/SkyCMS-sub002/internal/tenant"
)

func newRunner(t *testing.T, parallel int, conns ...*models.Connection) *tenant.Runner {
	t.Helper()
	resolver, err := tenant.NewResolver(mocks.NewMockTenantRepository(conns...), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	return tenant.NewRunner(resolver, parallel, zerolog.Nop())
}

func threeTenants() []*models.Connection {
	return []*models.Connection{
		{ID: "tenant-a", DomainNames: []string{"a.com"}},
		{ID: "tenant-b", DomainNames: []string{"b.com"}},
		{ID: "tenant-c", DomainNames: []string{"c.com"}},
	}
}

func TestForEachTenant_RunsEveryTenantWithAmbientDomain(t *testing.T) {
	runner := newRunner(t, 2, threeTenants()...)

	var mu sync.Mutex
	seen := make(map[string]string)

	err := runner.ForEachTenant(context.Background(), func(ctx context.Context, conn *models.Connection) error {
		domain, ok := tenant.DomainFromContext(ctx)
		if !ok {
			t.Error("Pass context should carry the tenant domain")
		}
		mu.Lock()
		seen[conn.ID] = domain
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachTenant failed: %v", err)
	}

	want := map[string]string{"tenant-a": "a.com", "tenant-b": "b.com", "tenant-c": "c.com"}
	if len(seen) != len(want) {
		t.Fatalf("Ran %d tenants, want %d", len(seen), len(want))
	}
	for id, domain := range want {
		if seen[id] != domain {
			t.Errorf("Tenant %s saw domain %q, want %q", id, seen[id], domain)
		}
	}
}

func TestForEachTenant_FailureIsolation(t *testing.T) {
	runner := newRunner(t, 1, threeTenants()...)

	var mu sync.Mutex
	var ran []string

	err := runner.ForEachTenant(context.Background(), func(ctx context.Context, conn *models.Connection) error {
		mu.Lock()
		ran = append(ran, conn.ID)
		mu.Unlock()
		if conn.ID == "tenant-b" {
			return errors.New("tenant store unreachable")
		}
		return nil
	})
	// per-tenant failures are logged, never propagated
	if err != nil {
		t.Fatalf("ForEachTenant should not fail on tenant errors, got %v", err)
	}
	if len(ran) != 3 {
		t.Errorf("Ran %d tenants, want all 3", len(ran))
	}
}

func TestForEachTenant_PanicIsolation(t *testing.T) {
	runner := newRunner(t, 1, threeTenants()...)

	var mu sync.Mutex
	count := 0

	err := runner.ForEachTenant(context.Background(), func(ctx context.Context, conn *models.Connection) error {
		mu.Lock()
		count++
		mu.Unlock()
		if conn.ID == "tenant-a" {
			panic("boom")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachTenant failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Ran %d tenants, want all 3 despite the panic", count)
	}
}

func TestRunOne(t *testing.T) {
	runner := newRunner(t, 1, threeTenants()...)

	var got string
	err := runner.RunOne(context.Background(), "B.COM", func(ctx context.Context, conn *models.Connection) error {
		got = conn.ID
		return nil
	})
	if err != nil {
		t.Fatalf("RunOne failed: %v", err)
	}
	if got != "tenant-b" {
		t.Errorf("Resolved %q, want tenant-b", got)
	}

	if err := runner.RunOne(context.Background(), "nobody.example", func(context.Context, *models.Connection) error { return nil }); !errors.Is(err, tenant.ErrUnknownDomain) {
		t.Errorf("Expected ErrUnknownDomain, got %v", err)
	}
}

func TestRunOne_PropagatesPassError(t *testing.T) {
	runner := newRunner(t, 1, threeTenants()...)

	wantErr := errors.New("sweep failed")
	err := runner.RunOne(context.Background(), "a.com", func(context.Context, *models.Connection) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Expected wrapped pass error, got %v", err)
	}
}
