package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serveWith(mw func(http.Handler) http.Handler, req *http.Request) *httptest.ResponseRecorder {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, req)
	return rec
}

func TestCORSMiddleware_AllowListedOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/points", nil)
	req.Header.Set("Origin", "http://localhost:3000")

	rec := serveWith(corsMiddleware([]string{"http://localhost:3000"}), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestCORSMiddleware_UnknownOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/points", nil)
	req.Header.Set("Origin", "https://evil.example.com")

	rec := serveWith(corsMiddleware([]string{"http://localhost:3000"}), req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORSMiddleware_Wildcard(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set("Origin", "https://anything.example.com")

	rec := serveWith(corsMiddleware([]string{"*"}), req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/points", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := serveWith(corsMiddleware([]string{"http://localhost:3000"}), req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestSecurityHeaders(t *testing.T) {
	rec := serveWith(securityHeaders, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}
