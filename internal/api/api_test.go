package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/CWALabs/SkyCMS-sub002/internal/api"
	"github.com/CWALabs/SkyCMS-sub002/internal/clock"
	"github.com/CWALabs/SkyCMS-sub002/internal/config"
	"github.com/CWALabs/SkyCMS-sub002/internal/events"
	"github.com/CWALabs/SkyCMS-sub002/internal/mocks"
	"github.com/CWALabs/SkyCMS-sub002/internal/models"
	"github.com/CWALabs/SkyCMS-sub002/internal/service"
	"github.com/CWALabs/SkyCMS-sub002/internal/tenant"
)

func testResolver(t *testing.T, conns ...*models.Connection) *tenant.Resolver {
	t.Helper()
	resolver, err := tenant.NewResolver(mocks.NewMockTenantRepository(conns...), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	return resolver
}

func testRouter(t *testing.T, conns ...*models.Connection) *gin.Engine {
	t.Helper()
	cfg := &config.Config{}
	factory := service.NewFactory(cfg, events.Noop{}, clock.System{}, zerolog.Nop())
	return api.NewRouter(factory, testResolver(t, conns...), zerolog.Nop())
}

func TestHealthCheck(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "healthy") {
		t.Errorf("Unexpected health body: %s", w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestTenantMiddleware_UnknownDomain(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/sweep", nil)
	req.Host = "nobody.example"
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for an unknown domain, got %d", w.Code)
	}
}

// probeRouter runs TenantMiddleware in front of a handler that reports what
// the middleware attached, without touching any tenant database.
func probeRouter(t *testing.T, conns ...*models.Connection) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(api.TenantMiddleware(testResolver(t, conns...), zerolog.Nop()))
	router.GET("/probe", func(c *gin.Context) {
		conn, ok := api.ConnectionFromGin(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no connection"})
			return
		}
		domain, _ := tenant.DomainFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"tenant_id": conn.ID, "domain": domain})
	})
	return router
}

func TestTenantMiddleware_ResolvesHost(t *testing.T) {
	router := probeRouter(t, &models.Connection{ID: "tenant-1", DomainNames: []string{"tenant1.com"}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Host = "Tenant1.COM:8080"
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, "tenant-1") || !strings.Contains(body, "tenant1.com") {
		t.Errorf("Middleware attached wrong tenant state: %s", body)
	}
}

func TestTenantMiddleware_OverrideHeader(t *testing.T) {
	router := probeRouter(t, &models.Connection{ID: "tenant-2", DomainNames: []string{"other.com"}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Host = "gateway.internal"
	req.Header.Set(api.DomainOverrideHeader, "Other.COM")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "tenant-2") {
		t.Errorf("Override header not honored: %s", w.Body.String())
	}
}
