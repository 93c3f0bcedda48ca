package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(mark("a"), mark("b"), mark("c"))(okHandler())
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if want := []string{"a", "b", "c"}; !slices.Equal(order, want) {
		t.Errorf("middleware ran in order %v, want %v", order, want)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = observability.GetRequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(seen) != 32 {
		t.Errorf("generated request id %q, want 32 hex chars", seen)
	}
	if got := w.Header().Get(requestIDHeader); got != seen {
		t.Errorf("response header = %q, want %q", got, seen)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(requestIDHeader, "client-id")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if seen != "client-id" {
		t.Errorf("request id = %q, want the client's id", seen)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(requestIDHeader, strings.Repeat("x", 200))
	h.ServeHTTP(httptest.NewRecorder(), r)
	if len(seen) != 32 {
		t.Errorf("oversized id should be replaced, got %d chars", len(seen))
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/statistics", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "INTERNAL_ERROR") {
		t.Errorf("body = %s, want INTERNAL_ERROR", body)
	}
	if strings.Contains(body, "kaboom") {
		t.Error("panic value leaked into the response")
	}
}

func TestLogger_RecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/barchart?month=3", nil))

	out := buf.String()
	for _, want := range []string{"status=418", "/api/barchart", "month=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %q", out, want)
		}
	}
}

func TestLogger_QuietForStreams(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	Logger(logger)(okHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sse/dashboard", nil))
	Logger(logger)(okHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if buf.Len() != 0 {
		t.Errorf("stream and health requests should log below info, got %q", buf.String())
	}
}

func TestTracing_SetsSpan(t *testing.T) {
	var span *observability.Span
	h := Tracing(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span = observability.GetSpan(r.Context())
		w.WriteHeader(http.StatusBadRequest)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/statistics", nil))

	if span == nil {
		t.Fatal("no span in request context")
	}
	if span.Operation != "GET /api/statistics" {
		t.Errorf("Operation = %q", span.Operation)
	}
	if got := span.Tag("http.status_code"); got != "400" {
		t.Errorf("http.status_code = %q, want 400", got)
	}
	if span.Status != observability.SpanStatusError {
		t.Errorf("Status = %v, want error", span.Status)
	}
}

func TestCORS(t *testing.T) {
	h := CORS(config.SecurityConfig{AllowedOrigins: []string{"http://localhost:3000"}})(okHandler())

	r := httptest.NewRequest(http.MethodGet, "/api/statistics", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allowed origin = %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/statistics", nil)
	r.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unknown origin was allowed: %q", got)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/seed", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	SecurityHeaders()(okHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if csp := w.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "cdn.jsdelivr.net") {
		t.Errorf("CSP %q should allow the Datastar CDN", csp)
	}
}

func TestTrustedProxy(t *testing.T) {
	cfg := config.SecurityConfig{TrustedProxies: []string{"127.0.0.1", "10.0.0.0/8", "not-an-ip"}}

	var got string
	h := TrustedProxy(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = clientIP(r)
	}))

	tests := []struct {
		remote string
		want   string
	}{
		{"127.0.0.1:5000", "203.0.113.9"},
		{"10.2.3.4:5000", "203.0.113.9"},
		{"192.168.1.7:5000", "192.168.1.7"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = tt.remote
		r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.2.3.4")
		h.ServeHTTP(httptest.NewRecorder(), r)
		if got != tt.want {
			t.Errorf("clientIP via %s = %q, want %q", tt.remote, got, tt.want)
		}
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(config.SecurityConfig{EnableRateLimit: true, RateLimitRPS: 1, RateLimitBurst: 2})
	defer rl.Close()

	if !rl.Allow("1.1.1.1") || !rl.Allow("1.1.1.1") {
		t.Error("requests within the burst should pass")
	}
	if rl.Allow("1.1.1.1") {
		t.Error("request past the burst should be refused")
	}
	if !rl.Allow("2.2.2.2") {
		t.Error("buckets are per client")
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(config.SecurityConfig{RateLimitRPS: 1, RateLimitBurst: 1})
	defer rl.Close()

	for i := range 5 {
		if !rl.Allow("1.1.1.1") {
			t.Errorf("request %d refused with limiting disabled", i)
		}
	}
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := NewRateLimiter(config.SecurityConfig{EnableRateLimit: true, RateLimitRPS: 1, RateLimitBurst: 1})
	defer rl.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	rl.Allow("old")
	now = now.Add(limiterIdleTTL + time.Second)
	rl.Allow("fresh")

	if n := rl.sweep(); n != 1 {
		t.Errorf("sweep() removed %d, want 1", n)
	}
	if _, ok := rl.visitors["fresh"]; !ok || len(rl.visitors) != 1 {
		t.Errorf("visitors after sweep = %v, want only fresh", rl.visitors)
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	rl := NewRateLimiter(config.SecurityConfig{EnableRateLimit: true, RateLimitRPS: 1, RateLimitBurst: 1})
	defer rl.Close()
	h := RateLimit(rl, discardLogger())(okHandler())

	send := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, path, nil)
		r.RemoteAddr = "198.51.100.1:1234"
		h.ServeHTTP(w, r)
		return w
	}

	if code := send("/api/statistics").Code; code != http.StatusOK {
		t.Errorf("first request status = %d, want 200", code)
	}
	w := send("/api/statistics")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "1" {
		t.Errorf("Retry-After = %q, want 1", got)
	}
	if code := send("/health").Code; code != http.StatusOK {
		t.Errorf("health status = %d, health checks are not limited", code)
	}
}
