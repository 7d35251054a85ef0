package manager

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mnnrunner",
			Subsystem: "runs",
			Name:      "total",
			Help:      "Finished runs by backend and result",
		},
		[]string{"backend", "result"},
	)

	runsRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mnnrunner",
			Subsystem: "runs",
			Name:      "rejected_total",
			Help:      "Requests rejected during validation by error kind",
		},
		[]string{"kind"},
	)

	runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mnnrunner",
			Subsystem: "runs",
			Name:      "duration_seconds",
			Help:      "Engine call duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"backend", "profile"},
	)

	runsInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mnnrunner",
			Subsystem: "runs",
			Name:      "inflight",
			Help:      "Runs accepted and not yet delivered",
		},
	)

	backendFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mnnrunner",
			Subsystem: "backend",
			Name:      "fallbacks_total",
			Help:      "Backend substitutions made during resolution",
		},
		[]string{"from", "to"},
	)

	probeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mnnrunner",
			Subsystem: "probe",
			Name:      "duration_seconds",
			Help:      "Capability probe duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(runsTotal, runsRejectedTotal, runDuration, runsInflight, backendFallbacksTotal, probeDuration)
}

func resultLabel(failed bool) string {
	if failed {
		return "failed"
	}
	return "ok"
}
