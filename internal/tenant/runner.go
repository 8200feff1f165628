package tenant

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/CWALabs/SkyCMS-sub002/internal/models"
)

// Pass is one unit of tenant-scoped work. The context it receives already
// carries the tenant's domain as the ambient value.
type Pass func(ctx context.Context, conn *models.Connection) error

// Runner fans a Pass out across every registered tenant. Tenants run with
// bounded parallelism and full isolation: one tenant failing, panicking, or
// being unreachable never stops the others.
type Runner struct {
	resolver *Resolver
	parallel int
	log      zerolog.Logger
}

// NewRunner creates a new Runner; parallel caps concurrent tenants
func NewRunner(resolver *Resolver, parallel int, log zerolog.Logger) *Runner {
	if parallel < 1 {
		parallel = 1
	}
	return &Runner{
		resolver: resolver,
		parallel: parallel,
		log:      log.With().Str("component", "tenant_runner").Logger(),
	}
}

// ForEachTenant resolves every domain and runs the pass under that tenant's
// ambient context. Returns an error only when the domain list itself cannot
// be obtained; per-tenant failures are logged and counted, not propagated.
func (r *Runner) ForEachTenant(ctx context.Context, pass Pass) error {
	domains, err := r.resolver.ListDomains(ctx)
	if err != nil {
		return err
	}

	sem := make(chan struct{}, r.parallel)
	var wg sync.WaitGroup
	for _, domain := range domains {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		}

		wg.Add(1)
		go func(domain string) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if rec := recover(); rec != nil {
					r.log.Error().
						Interface("panic", rec).
						Str("domain", domain).
						Msg("Tenant pass panicked - recovered")
				}
			}()
			r.runTenant(ctx, domain, pass)
		}(domain)
	}
	wg.Wait()
	return nil
}

func (r *Runner) runTenant(ctx context.Context, domain string, pass Pass) {
	log := r.log.With().Str("domain", domain).Logger()

	conn, err := r.resolver.ResolveDomain(ctx, domain)
	if err != nil {
		log.Error().Err(err).Msg("Tenant resolution failed")
		return
	}

	start := time.Now()
	log.Info().Msg("Tenant pass started")

	err = RunAs(ctx, domain, func(ctx context.Context) error {
		return pass(ctx, conn)
	})
	if err != nil {
		log.Error().Err(err).Dur("duration", time.Since(start)).Msg("Tenant pass failed")
		return
	}
	log.Info().Dur("duration", time.Since(start)).Msg("Tenant pass completed")
}

// RunOne executes the pass for a single explicit domain, resolving its
// connection first. Used by on-demand triggers.
func (r *Runner) RunOne(ctx context.Context, domain string, pass Pass) error {
	conn, err := r.resolver.ResolveDomain(ctx, domain)
	if err != nil {
		return err
	}
	return RunAs(ctx, domain, func(ctx context.Context) error {
		if err := pass(ctx, conn); err != nil {
			return fmt.Errorf("tenant pass for %q: %w", NormalizeDomain(domain), err)
		}
		return nil
	})
}
