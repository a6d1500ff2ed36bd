package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newRequestFrom(e *echo.Echo, ip string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/expenses", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 5, zerolog.Nop()) // 10 per minute, burst of 5
	defer rl.Stop()

	// First 5 requests should be allowed (burst)
	for i := 0; i < 5; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	// 6th request should be rate limited (exceeded burst)
	if rl.Allow("10.0.0.1") {
		t.Error("Request 6 should be rate limited")
	}
}

func TestRateLimiter_DifferentClients(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3, zerolog.Nop())
	defer rl.Stop()

	// Exhaust the first client's burst
	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Errorf("Client 1 request %d should be allowed", i+1)
		}
	}

	if rl.Allow("10.0.0.1") {
		t.Error("Client 1 should be rate limited")
	}

	// The second client still has its full burst
	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.2") {
			t.Errorf("Client 2 request %d should be allowed", i+1)
		}
	}
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3, zerolog.Nop())
	defer rl.Stop()

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.2")
	if rl.Len() != 2 {
		t.Fatalf("Expected 2 tracked clients, got %d", rl.Len())
	}

	rl.evictIdle(time.Now(), time.Hour)
	if rl.Len() != 2 {
		t.Errorf("Recently seen clients should be kept, got %d", rl.Len())
	}

	rl.evictIdle(time.Now().Add(2*LimiterTTL), LimiterTTL)
	if rl.Len() != 0 {
		t.Errorf("Idle clients should be evicted, got %d", rl.Len())
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(zerolog.Nop())
	rl.Stop()
	rl.Stop()
}

func TestRateLimitMiddleware_RateLimitsPerClient(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiterWithConfig(30, 2, zerolog.Nop()) // Small burst for testing
	defer rl.Stop()

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}

	// First 2 requests should succeed (burst)
	for i := 0; i < 2; i++ {
		c, rec := newRequestFrom(e, "203.0.113.7")
		if err := RateLimitMiddleware(rl)(handler)(c); err != nil {
			t.Fatalf("Request %d: Expected no error, got %v", i+1, err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("Request %d: Expected status 200, got %d", i+1, rec.Code)
		}
		if got := rec.Header().Get("X-RateLimit-Limit"); got != "30" {
			t.Errorf("Request %d: Expected X-RateLimit-Limit 30, got %q", i+1, got)
		}
	}

	// 3rd request should be rate limited
	c, rec := newRequestFrom(e, "203.0.113.7")
	if err := RateLimitMiddleware(rl)(handler)(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header")
	}

	var problem problemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Expected problem details body, got %v", err)
	}
	if problem.Type != errorTypeRateLimit || problem.Status != http.StatusTooManyRequests {
		t.Errorf("Unexpected problem details: %+v", problem)
	}
	if problem.Instance != "/api/v1/expenses" {
		t.Errorf("Expected instance /api/v1/expenses, got %q", problem.Instance)
	}

	// Another client is unaffected
	c, rec = newRequestFrom(e, "203.0.113.8")
	if err := RateLimitMiddleware(rl)(handler)(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200 for a different client, got %d", rec.Code)
	}
}
