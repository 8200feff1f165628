package api

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/CWALabs/SkyCMS-sub002/internal/models"
	"github.com/CWALabs/SkyCMS-sub002/internal/tenant"
)

const (
	// DomainOverrideHeader lets trusted callers address a tenant explicitly,
	// bypassing the Host header
	DomainOverrideHeader = "X-Tenant-Domain"
	// connectionKey is the gin context key for the resolved connection
	connectionKey = "tenant_connection"
)

// TenantMiddleware resolves the tenant from the request and attaches both the
// ambient domain (on the request context) and the resolved connection (on the
// gin context). Requests that resolve to no tenant are refused; there is no
// default tenant to fall back to.
func TenantMiddleware(resolver *tenant.Resolver, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		domain := c.GetHeader(DomainOverrideHeader)
		if domain == "" {
			domain = requestHost(c.Request)
		}
		domain = tenant.NormalizeDomain(domain)
		if domain == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no tenant domain in request"})
			c.Abort()
			return
		}

		ctx := tenant.WithDomain(c.Request.Context(), domain)
		conn, err := resolver.ResolveDomain(ctx, domain)
		if err != nil {
			log.Warn().Err(err).Str("domain", domain).Msg("Tenant resolution refused")
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown tenant domain"})
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(ctx)
		c.Set(connectionKey, conn)
		c.Next()
	}
}

// ConnectionFromGin retrieves the connection placed by TenantMiddleware
func ConnectionFromGin(c *gin.Context) (*models.Connection, bool) {
	v, ok := c.Get(connectionKey)
	if !ok {
		return nil, false
	}
	conn, ok := v.(*models.Connection)
	return conn, ok
}

// requestHost strips any port from the Host header
func requestHost(r *http.Request) string {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSpace(host)
}
