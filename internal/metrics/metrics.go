// Package metrics defines Prometheus metrics for keyfleet.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "keyfleet_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyfleet_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	MutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyfleet_mutations_total",
			Help: "Total create/update/delete operations by resource and outcome",
		},
		[]string{"resource", "action", "outcome"},
	)

	KeysProvisioned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyfleet_keys_provisioned_total",
			Help: "Private AI keys provisioned, by region",
		},
		[]string{"region"},
	)

	AuditQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "keyfleet_audit_queue_depth",
			Help: "Current audit worker queue depth",
		},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "keyfleet_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, MutationsTotal,
		KeysProvisioned, AuditQueueDepth, WSConnections,
	)
}
