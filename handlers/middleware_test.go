package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func TestRateLimitPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(2, time.Minute))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":12345"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := get("198.51.100.1"); got != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", got)
	}
	if got := get("198.51.100.1"); got != http.StatusOK {
		t.Fatalf("second request: expected 200, got %d", got)
	}
	if got := get("198.51.100.1"); got != http.StatusTooManyRequests {
		t.Fatalf("third request: expected 429, got %d", got)
	}

	// A different client keeps its own budget.
	if got := get("198.51.100.2"); got != http.StatusOK {
		t.Fatalf("other client: expected 200, got %d", got)
	}
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	limiters := &ipRateLimiter{
		clients: make(map[string]*rateLimitClient),
		limit:   rate.Every(time.Second),
		burst:   1,
		window:  time.Minute,
	}

	limiters.limiter("198.51.100.1")
	limiters.limiter("198.51.100.2")

	// Age one client past the window and force the next access to sweep.
	limiters.clients["198.51.100.1"].lastSeen = time.Now().Add(-2 * time.Minute)
	limiters.lastSweep = time.Now().Add(-2 * time.Minute)
	limiters.limiter("198.51.100.3")

	if _, kept := limiters.clients["198.51.100.1"]; kept {
		t.Fatalf("idle client was not evicted")
	}
	if _, kept := limiters.clients["198.51.100.2"]; !kept {
		t.Fatalf("active client was evicted")
	}
	if len(limiters.clients) != 2 {
		t.Fatalf("expected 2 tracked clients, got %d", len(limiters.clients))
	}
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing nosniff header")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("missing frame-options header")
	}
}
