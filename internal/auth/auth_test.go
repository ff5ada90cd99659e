package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{Secret: "test-secret", Issuer: "diet-planner"}

func TestParse(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		token, err := Issue("user-1", time.Hour, testConfig)
		require.NoError(t, err)

		claims, err := Parse(token, testConfig)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.Subject)
		assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := Parse("  ", testConfig)
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := Issue("user-1", -time.Minute, testConfig)
		require.NoError(t, err)
		_, err = Parse(token, testConfig)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := Issue("user-1", time.Hour, Config{Secret: "other", Issuer: testConfig.Issuer})
		require.NoError(t, err)
		_, err = Parse(token, testConfig)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("WrongIssuer", func(t *testing.T) {
		token, err := Issue("user-1", time.Hour, Config{Secret: testConfig.Secret, Issuer: "someone-else"})
		require.NoError(t, err)
		_, err = Parse(token, testConfig)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("MissingSubject", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Issuer:    testConfig.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString([]byte(testConfig.Secret))
		require.NoError(t, err)
		_, err = Parse(token, testConfig)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestMiddleware(t *testing.T) {
	var seen *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := NewMiddleware(testConfig, SkipPaths("/health")).Wrap(next)

	t.Run("SkippedPath", func(t *testing.T) {
		seen = nil
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("MissingToken", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/weekly_diet_plan", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"missing bearer token"}`, rec.Body.String())
	})

	t.Run("WrongScheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/weekly_diet_plan", nil)
		req.Header.Set("Authorization", "Basic abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ValidToken", func(t *testing.T) {
		token, err := Issue("user-9", time.Hour, testConfig)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/weekly_diet_plan", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "user-9", seen.Subject)
	})
}
