package usecase

import (
	"time"

	drepo "Hikari/internal/domain/repository"
)

type nopMetrics struct{}

func (nopMetrics) RecordRefresh(string, error, int)    {}
func (nopMetrics) RecordFetch(string, error)           {}
func (nopMetrics) RecordStaleDrop(string)              {}
func (nopMetrics) RecordDashboardLoad(bool, string)    {}
func (nopMetrics) RecordMutation(string, error)        {}
func (nopMetrics) RecordLatency(string, time.Duration) {}

func metricsOrNop(m drepo.Metrics) drepo.Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
