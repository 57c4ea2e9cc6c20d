package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MusaCap/faithlink360/internal/app/system/ratelimit"
)

func TestLimiter_Allow(t *testing.T) {
	l := ratelimit.New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("fourth request should be limited")
	}
	// other keys are unaffected
	if !l.Allow("10.0.0.2") {
		t.Error("different key should be allowed")
	}
}

func TestLimiter_Remaining(t *testing.T) {
	l := ratelimit.New(5, time.Minute)

	if got := l.Remaining("k"); got != 5 {
		t.Errorf("expected 5 remaining before any request, got %d", got)
	}
	l.Allow("k")
	l.Allow("k")
	if got := l.Remaining("k"); got != 3 {
		t.Errorf("expected 3 remaining, got %d", got)
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := ratelimit.New(1, time.Minute)

	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("second request should be limited")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("reset should clear the window")
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l := ratelimit.New(1, 30*time.Millisecond)

	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("second request should be limited")
	}
	time.Sleep(50 * time.Millisecond)
	if !l.Allow("k") {
		t.Error("request should be allowed after the window expires")
	}
}

func TestMiddleware(t *testing.T) {
	l := ratelimit.New(2, time.Minute)
	handler := ratelimit.Middleware(l, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
	req.RemoteAddr = "198.51.100.7:4312"

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected a Retry-After header")
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("expected JSON error body, got content type %q", ct)
	}

	// a different client is not affected
	other := httptest.NewRequest(http.MethodGet, "/api/members", nil)
	other.RemoteAddr = "203.0.113.9:9000"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for a different client, got %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.4:1234"
	if got := ratelimit.ClientIP(r); got != "192.0.2.4" {
		t.Errorf("expected RemoteAddr host, got %q", got)
	}

	r.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	if got := ratelimit.ClientIP(r); got != "198.51.100.1" {
		t.Errorf("expected first forwarded address, got %q", got)
	}
}
