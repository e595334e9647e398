package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/kamuxx/reservas-api/internal/config"
)

func browseKey(t *testing.T, cfg config.CacheConfig, target, role string) string {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/spaces")
	if role != "" {
		c.Set("role", role)
	}
	return cacheKeyFrom(cfg, c)
}

func TestCacheKeyPartitionsByRole(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	admin := browseKey(t, cfg, "/v1/spaces", "admin")
	user := browseKey(t, cfg, "/v1/spaces", "user")
	if admin == user {
		t.Fatalf("admin and user requests share cache key %s; an admin-primed entry would leak inactive spaces", admin)
	}
	if got := browseKey(t, cfg, "/v1/spaces", "admin"); got != admin {
		t.Errorf("same role and request produced unstable keys: %s vs %s", got, admin)
	}
	if anon := browseKey(t, cfg, "/v1/spaces", ""); anon == admin || anon == user {
		t.Error("requests without a role claim must not share a role partition")
	}
}

func TestCacheKeyPartitionsByQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := browseKey(t, cfg, "/v1/spaces?capacity=10", "user")
	b := browseKey(t, cfg, "/v1/spaces?capacity=20", "user")
	if a == b {
		t.Error("different queries must not share a cache key under route_query")
	}
}
