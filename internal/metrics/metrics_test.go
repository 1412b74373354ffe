package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveIntent("DELETE_PROJECT", false)
	m.ObserveIntent("GENERAL_QUERY", true)
	m.ObserveCompletion("gemini-2.5-flash", time.Second, nil)
	m.ObserveCompletion("gemini-2.5-flash", time.Second, errors.New("boom"))
	m.ObserveTransition("delete", "initiated")
	m.ObserveNotification("vote_request", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.intents.WithLabelValues("GENERAL_QUERY", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.completions.WithLabelValues("gemini-2.5-flash", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.governance.WithLabelValues("delete", "initiated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("vote_request", "sent")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveIntent("X", false)
	m.ObserveCompletion("x", time.Second, nil)
	m.ObserveTransition("delete", "applied")
	m.ObserveNotification("x", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveIntent("CODE_REQUEST", false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `collabquest_intents_total{fallback="false",intent="CODE_REQUEST"} 1`)
}
