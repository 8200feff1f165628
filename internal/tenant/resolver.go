package tenant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/CWALabs/SkyCMS-sub002/internal/metrics"
	"github.com/CWALabs/SkyCMS-sub002/internal/models"
	"github.com/CWALabs/SkyCMS-sub002/internal/repository"
)

// cacheSize bounds the in-process connection cache
const cacheSize = 256

// redisTTL bounds how stale a shared cache entry may get
const redisTTL = 5 * time.Minute

// CacheKey namespaces a domain so tenant cache entries can never collide
// with other keys, regardless of what else shares the cache or the Redis
// keyspace.
func CacheKey(domain string) string {
	return "tenant:connection:" + NormalizeDomain(domain)
}

// Resolver maps domains to tenant connections through an ordered chain of
// strategies: in-process LRU, then Redis (when configured), then the tenant
// directory. Each strategy either produces the connection or passes to the
// next.
type Resolver struct {
	directory repository.TenantRepository
	cache     *lru.Cache[string, *models.Connection]
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewResolver creates a new Resolver; rdb may be nil to skip the shared
// cache layer.
func NewResolver(directory repository.TenantRepository, rdb *redis.Client, log zerolog.Logger) (*Resolver, error) {
	cache, err := lru.New[string, *models.Connection](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection cache: %w", err)
	}
	return &Resolver{
		directory: directory,
		cache:     cache,
		rdb:       rdb,
		log:       log.With().Str("component", "tenant").Logger(),
	}, nil
}

// Resolve returns the connection for the ambient tenant domain. With no
// domain in context it fails loudly rather than defaulting to any tenant.
func (r *Resolver) Resolve(ctx context.Context) (*models.Connection, error) {
	domain, ok := DomainFromContext(ctx)
	if !ok {
		return nil, ErrNoTenant
	}
	return r.ResolveDomain(ctx, domain)
}

// ResolveDomain returns the connection for an explicit domain
func (r *Resolver) ResolveDomain(ctx context.Context, domain string) (*models.Connection, error) {
	normalized := NormalizeDomain(domain)
	if normalized == "" {
		return nil, ErrNoTenant
	}
	key := CacheKey(normalized)

	for _, lookup := range []func(context.Context, string, string) (*models.Connection, bool, error){
		r.fromLRU,
		r.fromRedis,
		r.fromDirectory,
	} {
		conn, found, err := lookup(ctx, key, normalized)
		if err != nil {
			return nil, err
		}
		if found {
			return conn, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", normalized, ErrUnknownDomain)
}

// ListDomains returns every registered tenant domain, normalized
func (r *Resolver) ListDomains(ctx context.Context) ([]string, error) {
	domains, err := r.directory.ListDomains(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenant domains: %w", err)
	}
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		out = append(out, NormalizeDomain(d))
	}
	return out, nil
}

// Invalidate drops a domain's cached connection from every cache layer
func (r *Resolver) Invalidate(ctx context.Context, domain string) {
	key := CacheKey(domain)
	r.cache.Remove(key)
	if r.rdb != nil {
		if err := r.rdb.Del(ctx, key).Err(); err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("Failed to drop redis cache entry")
		}
	}
}

func (r *Resolver) fromLRU(_ context.Context, key, _ string) (*models.Connection, bool, error) {
	conn, ok := r.cache.Get(key)
	if ok {
		metrics.TenantResolutions.WithLabelValues("lru").Inc()
	}
	return conn, ok, nil
}

// fromRedis consults the shared cache. Redis trouble degrades to the next
// strategy instead of failing resolution.
func (r *Resolver) fromRedis(ctx context.Context, key, _ string) (*models.Connection, bool, error) {
	if r.rdb == nil {
		return nil, false, nil
	}
	data, err := r.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("Redis cache lookup failed")
		return nil, false, nil
	}

	var conn models.Connection
	if err := json.Unmarshal(data, &conn); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("Redis cache entry corrupt")
		return nil, false, nil
	}
	r.cache.Add(key, &conn)
	metrics.TenantResolutions.WithLabelValues("redis").Inc()
	return &conn, true, nil
}

func (r *Resolver) fromDirectory(ctx context.Context, key, domain string) (*models.Connection, bool, error) {
	conn, err := r.directory.GetByDomain(ctx, domain)
	if err != nil {
		return nil, false, fmt.Errorf("failed to resolve domain %q: %w", domain, err)
	}
	if conn == nil {
		return nil, false, nil
	}

	r.cache.Add(key, conn)
	if r.rdb != nil {
		if data, err := json.Marshal(conn); err == nil {
			if err := r.rdb.Set(ctx, key, data, redisTTL).Err(); err != nil {
				r.log.Warn().Err(err).Str("key", key).Msg("Failed to populate redis cache")
			}
		}
	}

	metrics.TenantResolutions.WithLabelValues("directory").Inc()
	r.log.Debug().Str("domain", domain).Str("tenant_id", conn.ID).Msg("Tenant resolved from directory")
	return conn, true, nil
}
