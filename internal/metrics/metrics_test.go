package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidlink/aidlink/internal/metrics"
)

func TestMetrics_Counters(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.ObserveSupplyDelta("promised", 3)
	m.ObserveSupplyDelta("promised", -1)
	m.ObserveSupplyDelta("performed", 2)
	m.IncrementTransition("approved")
	m.IncrementSkippedEffect()
	m.IncrementFeedAction("post")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SupplyDeltas.WithLabelValues("promised")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SupplyDays.WithLabelValues("promised")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SupplyDays.WithLabelValues("performed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusTransitions.WithLabelValues("approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SkippedEffects))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FeedActions.WithLabelValues("post")))
}

func TestMetrics_SetUrgencyCountsResets(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.SetUrgencyCounts(map[string]int{"critical": 2, "low": 1})
	m.SetUrgencyCounts(map[string]int{"low": 4})

	assert.Equal(t, 4.0, testutil.ToFloat64(m.LocationsByUrgency.WithLabelValues("low")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.LocationsByUrgency))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.ObserveSupplyDelta("promised", 1)
		m.IncrementTransition("approved")
		m.IncrementSkippedEffect()
		m.SetUrgencyCounts(map[string]int{"low": 1})
		m.IncrementFeedAction("like")
		m.IncrementPublishFailure("x")
		m.ObserveAudit(time.Millisecond, 1)
	})
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.IncrementTransition("completed")

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `aidlink_application_status_transitions_total{status="completed"} 1`)
}
