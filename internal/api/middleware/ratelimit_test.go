package middleware

import (
	"bytes"
	"context"
	"customer-registry/internal/config"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiterMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	cfg := config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 2}

	rl := NewRateLimiterMiddleware(t.Context(), cfg, logger)
	handler := rl.Middleware(okHandler())

	t.Run("allows requests within burst then blocks", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		req.RemoteAddr = "127.0.0.1:12345"

		for i := 0; i < cfg.Burst; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
		}

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var response map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, false, response["success"])
		assert.Equal(t, "Rate limit exceeded", response["message"])
	})

	t.Run("limits are per client", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		req.RemoteAddr = "10.0.0.9:5555"
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRateLimiterDisabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	rl := NewRateLimiterMiddleware(t.Context(), config.RateLimitConfig{Enabled: false, RPS: 1, Burst: 1}, logger)
	handler := rl.Middleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "127.0.0.1:12345"
	assert.Equal(t, "127.0.0.1", clientIP(req))

	req.RemoteAddr = "203.0.113.7"
	assert.Equal(t, "203.0.113.7", clientIP(req))
}

func TestEvictIdle(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	rl := NewRateLimiterMiddleware(t.Context(), config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1}, logger)

	rl.getLimiter("192.0.2.1").Allow()
	rl.getLimiter("192.0.2.2")

	rl.evictIdle(time.Now())

	_, busy := rl.limiters.Load("192.0.2.1")
	_, idle := rl.limiters.Load("192.0.2.2")
	assert.True(t, busy)
	assert.False(t, idle)

	rl.evictIdle(time.Now().Add(2 * time.Second))
	_, busy = rl.limiters.Load("192.0.2.1")
	assert.False(t, busy)
}

func TestCleanupLimitersStopsWithContext(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	rl := NewRateLimiterMiddleware(t.Context(), config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1}, logger)
	rl.getLimiter("192.0.2.3")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rl.cleanupLimiters(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		_, ok := rl.limiters.Load("192.0.2.3")
		return !ok
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup goroutine did not exit after cancel")
	}
}
