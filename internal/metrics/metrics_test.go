package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveCommand("exchange", OutcomeOK)
	m.ObserveCommand("exchange", OutcomeOK)
	m.ObserveCommand("exchange", OutcomeRejected)
	m.ObserveRefresh(RefreshFetched)
	m.ObserveUpstream("latest", 150*time.Millisecond)
	m.ObserveHTTP("/healthz", "GET", "200", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CommandsTotal.WithLabelValues("exchange", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandsTotal.WithLabelValues("exchange", OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateRefreshesTotal.WithLabelValues(RefreshFetched)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/healthz", "GET", "200")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveCommand("list", OutcomeOK)
		m.ObserveRefresh(RefreshFailed)
		m.ObserveUpstream("history", time.Second)
		m.ObserveHTTP("/", "POST", "200", time.Second)
	})
}
