package middleware

import (
	"loan-interest-engine/internal/config"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterMiddleware(t *testing.T) {
	t.Run("allows requests within the limit", func(t *testing.T) {
		rl := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: true, RPS: 100, Burst: 10}, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/loans", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()

		rl.Middleware(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("throttles once burst is exhausted", func(t *testing.T) {
		rl := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}, testLogger())
		handler := rl.Middleware(okHandler())

		first := httptest.NewRequest(http.MethodGet, "/loans", nil)
		first.RemoteAddr = "10.0.0.2:1234"
		firstRec := httptest.NewRecorder()
		handler.ServeHTTP(firstRec, first)
		assert.Equal(t, http.StatusOK, firstRec.Code)

		second := httptest.NewRequest(http.MethodGet, "/loans", nil)
		second.RemoteAddr = "10.0.0.2:1234"
		secondRec := httptest.NewRecorder()
		handler.ServeHTTP(secondRec, second)
		assert.Equal(t, http.StatusTooManyRequests, secondRec.Code)
	})

	t.Run("tracks clients separately by IP", func(t *testing.T) {
		rl := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}, testLogger())
		handler := rl.Middleware(okHandler())

		first := httptest.NewRequest(http.MethodGet, "/loans", nil)
		first.RemoteAddr = "10.0.0.3:1234"
		handler.ServeHTTP(httptest.NewRecorder(), first)

		other := httptest.NewRequest(http.MethodGet, "/loans", nil)
		other.RemoteAddr = "10.0.0.4:1234"
		otherRec := httptest.NewRecorder()
		handler.ServeHTTP(otherRec, other)

		assert.Equal(t, http.StatusOK, otherRec.Code)
	})

	t.Run("prefers X-Forwarded-For over remote address", func(t *testing.T) {
		rl := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: true, RPS: 10, Burst: 5}, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/loans", nil)
		req.RemoteAddr = "10.0.0.5:1234"
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.5")

		assert.Equal(t, "203.0.113.7", rl.extractIP(req))
	})

	t.Run("passes everything through when disabled", func(t *testing.T) {
		rl := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: false}, testLogger())
		handler := rl.Middleware(okHandler())

		for i := 0; i < 5; i++ {
			req := httptest.NewRequest(http.MethodGet, "/loans", nil)
			req.RemoteAddr = "10.0.0.6:1234"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})
}
