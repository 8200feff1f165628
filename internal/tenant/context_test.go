package tenant_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/CWALabs/SkyCMS-sub002/internal/tenant"
)

func TestNormalizeDomain(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Tenant1.COM", "tenant1.com"},
		{"  example.org ", "example.org"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := tenant.NormalizeDomain(tc.in); got != tc.want {
			t.Errorf("NormalizeDomain(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDomainFromContext(t *testing.T) {
	if _, ok := tenant.DomainFromContext(context.Background()); ok {
		t.Error("Bare context should carry no domain")
	}

	ctx := tenant.WithDomain(context.Background(), "Tenant1.COM")
	domain, ok := tenant.DomainFromContext(ctx)
	if !ok {
		t.Fatal("Domain should be set")
	}
	if domain != "tenant1.com" {
		t.Errorf("Domain = %q, want normalized tenant1.com", domain)
	}
}

func TestRunAs_RestoresEnclosingDomain(t *testing.T) {
	outer := tenant.WithDomain(context.Background(), "outer.com")

	err := tenant.RunAs(outer, "inner.com", func(ctx context.Context) error {
		if d, _ := tenant.DomainFromContext(ctx); d != "inner.com" {
			t.Errorf("Inside RunAs domain = %q, want inner.com", d)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunAs failed: %v", err)
	}

	if d, _ := tenant.DomainFromContext(outer); d != "outer.com" {
		t.Errorf("Enclosing domain = %q, want outer.com untouched", d)
	}
}

func TestRunAs_BlankDomain(t *testing.T) {
	err := tenant.RunAs(context.Background(), "  ", func(context.Context) error { return nil })
	if !errors.Is(err, tenant.ErrNoTenant) {
		t.Fatalf("Expected ErrNoTenant, got %v", err)
	}
}

func TestRunAs_ConcurrentIsolation(t *testing.T) {
	domains := []string{"a.com", "b.com", "c.com", "d.com"}

	var wg sync.WaitGroup
	for _, domain := range domains {
		wg.Add(1)
		go func(domain string) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				err := tenant.RunAs(context.Background(), domain, func(ctx context.Context) error {
					got, ok := tenant.DomainFromContext(ctx)
					if !ok || got != domain {
						t.Errorf("Ambient domain = %q, want %q", got, domain)
					}
					return nil
				})
				if err != nil {
					t.Errorf("RunAs failed: %v", err)
				}
			}
		}(domain)
	}
	wg.Wait()
}
