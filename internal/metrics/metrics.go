package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPDuration observes request latency per route and status class.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "portfolio",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// PostingsTotal counts balance postings by entry kind and operation.
	PostingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "ledger_postings_total",
			Help:      "Balance postings applied by the ledger engine",
		},
		[]string{"kind", "operation"},
	)

	// TransfersTotal counts completed transfers by type.
	TransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "ledger_transfers_total",
			Help:      "Completed fund transfers",
		},
		[]string{"type"},
	)
)
