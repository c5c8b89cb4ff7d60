package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "construtora", Name: "http_requests_total", Help: "HTTP requests by method and status."},
		[]string{"method", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "construtora", Name: "http_request_duration_seconds", Help: "HTTP request latency.", Buckets: prometheus.DefBuckets},
		[]string{"method"},
	)
	DocumentOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "construtora", Name: "document_operations_total", Help: "Document lifecycle operations by kind, operation and result."},
		[]string{"kind", "operation", "result"},
	)
	OrphanedBlobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "construtora", Name: "orphaned_blobs_total", Help: "Blobs left behind because best-effort removal failed."},
		[]string{"kind"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
	reg.MustRegister(DocumentOperations)
	reg.MustRegister(OrphanedBlobs)
}

// Result labels an operation outcome.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
