package middleware

import (
	"bytes"
	"loan-interest-engine/internal/config"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func signToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "analyst",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthMiddleware(t *testing.T) {
	cfg := config.AuthConfig{Enabled: true, JWTSecret: "test-secret"}

	t.Run("passes request with valid token", func(t *testing.T) {
		mw := AuthMiddleware(cfg, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/loans/LOAN-001", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret"))
		rec := httptest.NewRecorder()

		mw(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects missing Authorization header", func(t *testing.T) {
		mw := AuthMiddleware(cfg, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/loans/LOAN-001", nil)
		rec := httptest.NewRecorder()

		mw(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects token signed with wrong secret", func(t *testing.T) {
		mw := AuthMiddleware(cfg, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/loans/LOAN-001", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret"))
		rec := httptest.NewRecorder()

		mw(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects malformed header", func(t *testing.T) {
		mw := AuthMiddleware(cfg, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/loans/LOAN-001", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()

		mw(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("passes everything through when disabled", func(t *testing.T) {
		mw := AuthMiddleware(config.AuthConfig{Enabled: false}, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/loans/LOAN-001", nil)
		rec := httptest.NewRecorder()

		mw(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
