package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/marquee/internal/logger"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

func TestAllowOnlyCIDRS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		trustProxy bool
		remote     string
		xff        string
		want       int
	}{
		{name: "empty list passes", remote: "1.2.3.4:1", want: http.StatusOK},
		{name: "cidr match", allowed: []string{"10.0.0.0/8"}, remote: "10.9.9.9:1", want: http.StatusOK},
		{name: "exact ip", allowed: []string{"127.0.0.1"}, remote: "127.0.0.1:1", want: http.StatusOK},
		{name: "rejected", allowed: []string{"10.0.0.0/8"}, remote: "1.2.3.4:1", want: http.StatusForbidden},
		{name: "xff ignored without trust", allowed: []string{"10.0.0.0/8"}, remote: "1.2.3.4:1", xff: "10.0.0.1", want: http.StatusForbidden},
		{name: "xff used with trust", allowed: []string{"10.0.0.0/8"}, trustProxy: true, remote: "127.0.0.1:1", xff: "10.0.0.1, 1.1.1.1", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := AllowOnlyCIDRS(tt.allowed, tt.trustProxy, logger.NewNop())(ok)
			req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestLimiterRefills(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 60})
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	if ok, _, _ := l.allow("a", now); !ok {
		t.Fatal("first request refused")
	}
	ok, _, retry := l.allow("a", now)
	if ok || retry != 1 {
		t.Errorf("second request = (%v, retry %d), want refused with retry 1", ok, retry)
	}
	if ok, _, _ := l.allow("b", now); !ok {
		t.Error("other client refused")
	}
	if ok, _, _ := l.allow("a", now.Add(time.Second)); !ok {
		t.Error("request after refill refused")
	}
}

func TestLimiterForgetsIdleClients(t *testing.T) {
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	l := newLimiter(RateLimitConfig{Burst: 5, IdleTTL: time.Minute, SweepInterval: time.Minute, Now: func() time.Time { return now }})

	l.allow("a", now)
	l.allow("b", now.Add(30*time.Second))
	if l.tracked() != 2 {
		t.Fatalf("tracked = %d, want 2", l.tracked())
	}

	l.allow("c", now.Add(90*time.Second))
	if l.tracked() != 2 {
		t.Errorf("tracked after sweep = %d, want 2 (a forgotten)", l.tracked())
	}
}

func TestLimiterSweepsWhenFull(t *testing.T) {
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	l := newLimiter(RateLimitConfig{Burst: 5, MaxEntries: 2, IdleTTL: time.Second, SweepInterval: time.Hour, Now: func() time.Time { return now }})

	l.allow("a", now)
	l.allow("b", now)
	l.allow("c", now.Add(2*time.Second))
	if l.tracked() != 1 {
		t.Errorf("tracked = %d, want 1", l.tracked())
	}
}

func TestRateLimitHeaders(t *testing.T) {
	h := RateLimit(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 1})(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("first status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" || rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("headers = %v", rec.Header())
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
}

func TestLogKeepsStatus(t *testing.T) {
	h := Log(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}
}
