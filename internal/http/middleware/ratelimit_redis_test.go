package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisRateLimitIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	pass := os.Getenv("REDIS_PASSWORD")
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	InitRedisRateLimiter(addr, pass, db)

	// small window for test
	w := 2 * time.Second
	max := 2

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/test", RedisRateLimit("test", max, w), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	client := &http.Client{}

	// do max allowed requests
	for i := 0; i < max; i++ {
		res, err := client.Get(srv.URL + "/test")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if res.StatusCode != 200 {
			t.Fatalf("expected 200 got %d", res.StatusCode)
		}
	}

	// next request should be blocked
	res, err := client.Get(srv.URL + "/test")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != 429 {
		t.Fatalf("expected 429 got %d", res.StatusCode)
	}
}

// Limiters with different scopes and identical windows must count
// independently, even when both run on the same request: otherwise a strict
// limiter stacked on a route (like the auth one) absorbs all the traffic of
// the looser group limiter.
func TestRedisRateLimitScopesIndependent(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	InitRedisRateLimiter(addr, os.Getenv("REDIS_PASSWORD"), 0)

	w := 2 * time.Second
	looseMax := 20
	strictMax := 2

	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", RedisRateLimit("loose", looseMax, w))
	group.GET("/open", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	group.GET("/strict", RedisRateLimit("strict", strictMax, w), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	client := &http.Client{}

	// burn well past the strict limit on the open route
	for i := 0; i < strictMax+3; i++ {
		res, err := client.Get(srv.URL + "/open")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if res.StatusCode != 200 {
			t.Fatalf("open route blocked after %d requests: %d", i+1, res.StatusCode)
		}
	}

	// strict route still has its full budget
	for i := 0; i < strictMax; i++ {
		res, err := client.Get(srv.URL + "/strict")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if res.StatusCode != 200 {
			t.Fatalf("strict route blocked early: %d", res.StatusCode)
		}
	}

	res, err := client.Get(srv.URL + "/strict")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != 429 {
		t.Fatalf("expected 429 after strict budget spent, got %d", res.StatusCode)
	}
}
