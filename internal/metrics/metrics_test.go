package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	m := New("catalog")

	m.ObserveRequest("/catalog", http.MethodGet, http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest("/catalog", http.MethodGet, http.StatusOK, 10*time.Millisecond)
	m.ObserveFetch("http", nil)
	m.ObserveFetch("http", errors.New("boom"))
	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/catalog", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sourceFetches.WithLabelValues("http", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sourceFetches.WithLabelValues("http", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
}

func TestMetricsHandler(t *testing.T) {
	m := New("catalog")
	m.CacheHit()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `catalog_cache_lookups_total{result="hit"} 1`))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("/", http.MethodGet, http.StatusOK, time.Millisecond)
		m.ObserveFetch("sheets", nil)
		m.CacheHit()
		m.CacheMiss()
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
