// Package telemetry exposes Prometheus metrics for backtest runs.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backtest_runs_total",
			Help: "Total number of backtest runs by outcome",
		},
		[]string{"strategy", "status"},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backtest_run_duration_seconds",
			Help:    "Wall-clock duration of one backtest run",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"strategy"},
	)

	TradesPerRun = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backtest_trades_per_run",
			Help:    "Closed trades produced by one run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"strategy"},
	)

	LastReturnPercent = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "backtest_last_return_percent",
			Help: "Total return percent of the most recent run",
		},
		[]string{"strategy", "symbol"},
	)
)
