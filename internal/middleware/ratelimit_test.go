package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRateLimitSeparatesAuthBucket(t *testing.T) {
	t.Parallel()

	m := NewRateLimitMiddleware(1000, 2)
	handler := m.Handler(okHandler)

	do := func(method string, path string) int {
		req := httptest.NewRequest(method, path, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// Burst of 2 on login, then limited.
	require.Equal(t, http.StatusOK, do(http.MethodPost, "/login"))
	require.Equal(t, http.StatusOK, do(http.MethodPost, "/login"))
	require.Equal(t, http.StatusTooManyRequests, do(http.MethodPost, "/login"))

	// The general bucket is untouched by the auth exhaustion.
	require.Equal(t, http.StatusOK, do(http.MethodGet, "/properties"))

	// GET on an auth path renders the form; it uses the general bucket.
	require.Equal(t, http.StatusOK, do(http.MethodGet, "/login"))
}

func TestRateLimitIsPerClient(t *testing.T) {
	t.Parallel()

	m := NewRateLimitMiddleware(1000, 1)
	handler := m.Handler(okHandler)

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, do("10.0.0.1:1234"))
	require.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1234"))
	require.Equal(t, http.StatusOK, do("10.0.0.2:1234"))
}

func TestExtractClientIP(t *testing.T) {
	t.Parallel()

	t.Run("prefers forwarded header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		req.RemoteAddr = "10.0.0.1:1234"
		require.Equal(t, "203.0.113.7", extractClientIP(req))
	})

	t.Run("falls back to remote addr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.9:5678"
		require.Equal(t, "10.0.0.9", extractClientIP(req))
	})
}
