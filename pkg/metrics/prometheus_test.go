package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.RecordRefresh("tick", nil, 3)
	r.RecordRefresh("tick", errors.New("down"), 0)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.refreshes.WithLabelValues("tick", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.refreshes.WithLabelValues("tick", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.holdingsCount))

	r.RecordStaleDrop("news")
	r.RecordStaleDrop("news")
	assert.Equal(t, 2.0, testutil.ToFloat64(r.staleDrops.WithLabelValues("news")))

	r.RecordDashboardLoad(true, "transport")
	assert.Equal(t, 1.0, testutil.ToFloat64(r.degraded))
	r.RecordDashboardLoad(false, "")
	assert.Equal(t, 0.0, testutil.ToFloat64(r.degraded))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fallbacks.WithLabelValues("transport")))

	r.RecordLatency("list_holdings", 20*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(r.latency))
}

func TestRecordersOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
