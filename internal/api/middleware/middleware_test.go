package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Togather-Foundation/glee/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCorrelationIDGeneratesAndPropagates(t *testing.T) {
	var seen string
	h := CorrelationID(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	require.NotEmpty(t, seen)
	require.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", seen)
}

func TestRequestLoggingUsesContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	h := CorrelationID(logger)(RequestLogging(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/events/9", nil)
	req.Header.Set("X-Request-ID", "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	require.Contains(t, out, `"request_id":"req-1"`)
	require.Contains(t, out, `"status":404`)
	require.Contains(t, out, `"level":"warn"`)
}

func TestCORS(t *testing.T) {
	cfg := config.CORSConfig{AllowedOrigins: []string{"https://glee.example.com"}}
	h := CORS(cfg, zerolog.Nop())(ok)

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Origin", "https://GLEE.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "https://GLEE.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	h := CORS(config.CORSConfig{AllowAllOrigins: true}, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight reached the handler")
	}))
	req := httptest.NewRequest(http.MethodOptions, "/api/events/1", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{PerMinute: 2})
	h := rl.Middleware(ok)

	call := func(path, remote string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, call("/api/events", "10.0.0.1:1000"))
	require.Equal(t, http.StatusOK, call("/api/events", "10.0.0.1:1001"))
	require.Equal(t, http.StatusTooManyRequests, call("/api/events", "10.0.0.1:1002"))
	require.Equal(t, http.StatusOK, call("/api/events", "10.0.0.2:1000"))
	require.Equal(t, http.StatusOK, call("/healthz", "10.0.0.1:1003"))
}

func TestRateLimiterSweepsIdleClients(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{PerMinute: 10})
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.limiter("a")
	now = now.Add(limiterTTL + time.Minute)
	rl.limiter("b")

	require.Len(t, rl.limiters, 1)
	require.Contains(t, rl.limiters, "b")
}

func TestClientKeyTrustsOnlyConfiguredProxies(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{PerMinute: 1, TrustedProxyCIDRs: []string{"10.0.0.0/8"}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:4000"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.1.2.3")
	require.Equal(t, "203.0.113.7", rl.clientKey(req))

	req.RemoteAddr = "198.51.100.1:4000"
	require.Equal(t, "198.51.100.1", rl.clientKey(req))
}

func TestRequestSize(t *testing.T) {
	var readErr error
	h := RequestSize(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("0123456789")))

	var maxErr *http.MaxBytesError
	require.ErrorAs(t, readErr, &maxErr)
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(true)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}
