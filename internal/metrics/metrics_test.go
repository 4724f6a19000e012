package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodGet, "/points/{id}", http.StatusOK, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/points/{id}", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/points/{id}", http.StatusBadRequest, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/points/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/points/{id}", "400")))
}

func TestPointWrite(t *testing.T) {
	m := New()

	m.PointWrite("create", nil)
	m.PointWrite("create", errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.points.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.points.WithLabelValues("create", "error")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/items", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `ecoleta_http_requests_total{code="200",method="GET",route="/items"} 1`)
}
