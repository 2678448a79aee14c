package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
})

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(okHandler).ServeHTTP(rr, httptest.NewRequest("GET", "/v1/groups", nil))

	expected := map[string]string{
		"X-Content-Type-Options":       "nosniff",
		"Cross-Origin-Resource-Policy": "cross-origin",
		"Content-Security-Policy":      "default-src 'none'; frame-ancestors 'none'",
	}
	for header, want := range expected {
		if got := rr.Header().Get(header); got != want {
			t.Errorf("%s: expected %q, got %q", header, want, got)
		}
	}
	if rr.Header().Get("Cache-Control") != "" {
		t.Error("SecurityHeaders must leave caching to the handler")
	}
}

func TestNoStore(t *testing.T) {
	rr := httptest.NewRecorder()
	NoStore(okHandler).ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	if got := rr.Header().Get("Cache-Control"); !strings.Contains(got, "no-store") {
		t.Errorf("expected no-store, got %q", got)
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		origin     string
		wantHeader string
	}{
		{"allowed origin", []string{"https://maps.example.com"}, "https://maps.example.com", "https://maps.example.com"},
		{"other origin", []string{"https://maps.example.com"}, "https://evil.example.com", ""},
		{"any origin", nil, "https://anywhere.example.com", "https://anywhere.example.com"},
		{"wildcard", []string{"*"}, "https://anywhere.example.com", "https://anywhere.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/search?q=bern", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()

			CORS(func() []string { return tt.allowed })(okHandler).ServeHTTP(rr, req)

			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.wantHeader {
				t.Errorf("expected Access-Control-Allow-Origin %q, got %q", tt.wantHeader, got)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest("OPTIONS", "/v1/search", nil)
	req.Header.Set("Origin", "https://maps.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rr := httptest.NewRecorder()

	CORS(func() []string { return []string{"https://maps.example.com"} })(okHandler).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent && rr.Code != http.StatusOK {
		t.Errorf("expected preflight to succeed, got %d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), "GET") {
		t.Errorf("expected GET in allowed methods, got %q", rr.Header().Get("Access-Control-Allow-Methods"))
	}
}

func TestCORSFollowsOriginChanges(t *testing.T) {
	origins := []string{"https://maps.example.com"}
	handler := CORS(func() []string { return origins })(okHandler)

	request := func(origin string) string {
		req := httptest.NewRequest("GET", "/v1/groups", nil)
		req.Header.Set("Origin", origin)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Header().Get("Access-Control-Allow-Origin")
	}

	if got := request("https://new.example.com"); got != "" {
		t.Fatalf("expected origin to be rejected before the change, got %q", got)
	}
	origins = []string{"https://new.example.com"}
	if got := request("https://new.example.com"); got != "https://new.example.com" {
		t.Errorf("expected updated origin to be allowed, got %q", got)
	}
	if got := request("https://maps.example.com"); got != "" {
		t.Errorf("expected removed origin to be rejected, got %q", got)
	}
}

func TestSentryMiddlewarePassesThrough(t *testing.T) {
	rr := httptest.NewRecorder()
	SentryMiddleware(okHandler).ServeHTTP(rr, httptest.NewRequest("GET", "/v1/healthcheck", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Errorf("unexpected response %d %q", rr.Code, rr.Body.String())
	}
}

func TestCachedPromHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_cached_value", Help: "test"})
	reg.MustRegister(gauge)
	gauge.Set(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewCachedPromHandler(ctx, reg, time.Hour)

	scrape := func() string {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
		if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
			t.Errorf("unexpected content type %q", ct)
		}
		return rr.Body.String()
	}

	if body := scrape(); !strings.Contains(body, "test_cached_value 1") {
		t.Fatalf("expected warm cache, got %q", body)
	}

	gauge.Set(2)
	if body := scrape(); !strings.Contains(body, "test_cached_value 1") {
		t.Errorf("expected cached value before refresh, got %q", body)
	}

	h.refresh()
	if body := scrape(); !strings.Contains(body, "test_cached_value 2") {
		t.Errorf("expected refreshed value, got %q", body)
	}
}
