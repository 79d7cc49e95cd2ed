package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func protectedEndpoint(t *testing.T) http.Handler {
	t.Helper()
	return APIKeyAuth("topsecret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAPIKeyAuthMissingKey(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/projects", nil)

	protectedEndpoint(t).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIKeyAuthWrongKey(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/projects", nil)
	req.Header.Set("X-API-Key", "wrong")

	protectedEndpoint(t).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPIKeyAuthHeaderKey(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/projects", nil)
	req.Header.Set("X-API-Key", "topsecret")

	protectedEndpoint(t).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyAuthBearerFallback(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/projects", nil)
	req.Header.Set("Authorization", "Bearer topsecret")

	protectedEndpoint(t).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
