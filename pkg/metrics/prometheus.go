package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements repository.Metrics using Prometheus.
type Recorder struct {
	refreshes     *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	staleDrops    *prometheus.CounterVec
	fallbacks     *prometheus.CounterVec
	mutations     *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	degraded      prometheus.Gauge
	holdingsCount prometheus.Gauge
}

// New creates a Prometheus metrics recorder registered on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		refreshes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hikari_holdings_refresh_total",
				Help: "Holdings refresh attempts by result",
			},
			[]string{"trigger", "result"},
		),
		fetches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hikari_dependent_fetch_total",
				Help: "News and alerts fetches by result",
			},
			[]string{"resource", "result"},
		),
		staleDrops: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hikari_stale_results_dropped_total",
				Help: "Dependent results discarded because the selection moved on",
			},
			[]string{"resource"},
		),
		fallbacks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hikari_dashboard_fallback_total",
				Help: "Times the canonical dashboard snapshot was substituted",
			},
			[]string{"reason"},
		),
		mutations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hikari_holding_mutations_total",
				Help: "Create, update and delete calls by result",
			},
			[]string{"op", "result"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hikari_operation_duration_seconds",
				Help:    "Duration of backend and snapshot operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		degraded: f.NewGauge(prometheus.GaugeOpts{
			Name: "hikari_dashboard_degraded",
			Help: "1 while the dashboard shows the canonical snapshot",
		}),
		holdingsCount: f.NewGauge(prometheus.GaugeOpts{
			Name: "hikari_holdings",
			Help: "Number of holdings in the last successful refresh",
		}),
	}
}

// RecordRefresh records a holdings refresh attempt.
func (r *Recorder) RecordRefresh(trigger string, err error, count int) {
	r.refreshes.WithLabelValues(trigger, result(err)).Inc()
	if err == nil {
		r.holdingsCount.Set(float64(count))
	}
}

// RecordFetch records a news or alerts request.
func (r *Recorder) RecordFetch(resource string, err error) {
	r.fetches.WithLabelValues(resource, result(err)).Inc()
}

// RecordStaleDrop records a discarded stale result.
func (r *Recorder) RecordStaleDrop(resource string) {
	r.staleDrops.WithLabelValues(resource).Inc()
}

// RecordDashboardLoad records the outcome of a snapshot load.
func (r *Recorder) RecordDashboardLoad(degraded bool, reason string) {
	if degraded {
		r.fallbacks.WithLabelValues(reason).Inc()
		r.degraded.Set(1)
		return
	}
	r.degraded.Set(0)
}

// RecordMutation records a create, update or delete call.
func (r *Recorder) RecordMutation(op string, err error) {
	r.mutations.WithLabelValues(op, result(err)).Inc()
}

// RecordLatency records operation latency.
func (r *Recorder) RecordLatency(op string, d time.Duration) {
	r.latency.WithLabelValues(op).Observe(d.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
