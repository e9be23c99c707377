package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestClientLimiterRefills(t *testing.T) {
	limiter := newClientLimiter(zap.NewNop(), 1, 2)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	if !limiter.allow("a") || !limiter.allow("a") {
		t.Fatal("expected burst of 2 to be allowed")
	}
	if limiter.allow("a") {
		t.Fatal("expected third request to be rejected")
	}
	if !limiter.allow("b") {
		t.Fatal("expected a different client to have its own bucket")
	}

	now = now.Add(time.Second)
	if !limiter.allow("a") {
		t.Fatal("expected a token after one second")
	}
}

func TestClientLimiterSweepsIdleClients(t *testing.T) {
	limiter := newClientLimiter(zap.NewNop(), 1, 1)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.allow("idle")
	limiter.allow("active")
	if len(limiter.clients) != 2 {
		t.Fatalf("expected 2 tracked clients, got %d", len(limiter.clients))
	}

	now = now.Add(limiterIdleTTL / 2)
	limiter.allow("active")

	now = now.Add(limiterIdleTTL/2 + time.Second)
	limiter.allow("active")

	if _, ok := limiter.clients["idle"]; ok {
		t.Fatal("expected idle client to be swept")
	}
	if _, ok := limiter.clients["active"]; !ok {
		t.Fatal("expected active client to be kept")
	}
}

func TestClientLimiterMiddlewareKeysOnHost(t *testing.T) {
	limiter := newClientLimiter(zap.NewNop(), 1, 1)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := limiter.middleware(next)

	first := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	first.RemoteAddr = "203.0.113.5:1111"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, first)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", rr.Code)
	}

	// Same host, different source port.
	second := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	second.RemoteAddr = "203.0.113.5:2222"
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, second)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON error body, got %q", ct)
	}
}
