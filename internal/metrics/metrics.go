package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "payglobal",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "payglobal",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	payouts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "payglobal",
			Subsystem: "commissions",
			Name:      "payouts_total",
			Help:      "Number of wallet credits by concept.",
		},
		[]string{"concept"},
	)

	payoutAmount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "payglobal",
			Subsystem: "commissions",
			Name:      "payout_amount_total",
			Help:      "Sum of credited amounts by concept.",
		},
		[]string{"concept"},
	)

	batchItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "payglobal",
			Subsystem: "batch",
			Name:      "items_total",
			Help:      "Batch items by batch and outcome.",
		},
		[]string{"batch", "outcome"},
	)

	batchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "payglobal",
			Subsystem: "batch",
			Name:      "run_duration_seconds",
			Help:      "Duration of batch runs.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~7m
		},
		[]string{"batch"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		payouts,
		payoutAmount,
		batchItems,
		batchDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordRequest records one handled HTTP request. route is the matched route
// pattern, not the raw path.
func RecordRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, statusLabel(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordPayout records a committed wallet credit.
func RecordPayout(concept string, amount decimal.Decimal) {
	payouts.WithLabelValues(concept).Inc()
	payoutAmount.WithLabelValues(concept).Add(amount.InexactFloat64())
}

// RecordBatchItem counts one batch item outcome: processed, skipped or failed.
func RecordBatchItem(batch, outcome string) {
	batchItems.WithLabelValues(batch, outcome).Inc()
}

func RecordBatchRun(batch string, duration time.Duration) {
	batchDuration.WithLabelValues(batch).Observe(duration.Seconds())
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
