// Package tenant resolves and isolates per-tenant state. The ambient tenant
// domain rides on the context.Context of each unit of work, so concurrent
// work under different domains can never observe each other's value, and
// the previous value is restored for free when a scope ends.
package tenant

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNoTenant is returned when no domain can be resolved from the
	// current context and none was supplied explicitly. Resolution never
	// falls back to a default tenant.
	ErrNoTenant = errors.New("no tenant domain in context")
	// ErrUnknownDomain is returned when the directory has no tenant
	// answering for a domain.
	ErrUnknownDomain = errors.New("no tenant registered for domain")
)

type contextKey struct{}

var domainKey contextKey

// NormalizeDomain lowercases and trims a domain name. Every lookup and
// cache key goes through this first.
func NormalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

// WithDomain returns a child context carrying the normalized domain as the
// ambient tenant.
func WithDomain(ctx context.Context, domain string) context.Context {
	return context.WithValue(ctx, domainKey, NormalizeDomain(domain))
}

// DomainFromContext extracts the ambient tenant domain, reporting whether
// one is set.
func DomainFromContext(ctx context.Context) (string, bool) {
	domain, ok := ctx.Value(domainKey).(string)
	if !ok || domain == "" {
		return "", false
	}
	return domain, true
}

// RunAs executes fn with the ambient domain set to the given tenant. The
// enclosing context's domain, if any, is untouched: callers resume their own
// ambient value the moment RunAs returns.
func RunAs(ctx context.Context, domain string, fn func(ctx context.Context) error) error {
	if NormalizeDomain(domain) == "" {
		return ErrNoTenant
	}
	return fn(WithDomain(ctx, domain))
}
