package metrics

import "github.com/prometheus/client_golang/prometheus"

// Document-operation Prometheus metrics.
var (
	OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "esorm",
			Name:      "operations_total",
			Help:      "Total number of document operations",
		},
		[]string{"op", "status"},
	)

	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "esorm",
			Name:      "operation_duration_seconds",
			Help:      "Document operation duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"op"},
	)

	ValidationFlagsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "esorm",
			Name:      "validation_flags_total",
			Help:      "Total warning-level validation flags recorded in saved documents",
		},
		[]string{"index", "field"},
	)
)

var ormMetricsRegistered bool

// RegisterORMMetrics registers Prometheus document metrics. Must be called once from main.
func RegisterORMMetrics() {
	if ormMetricsRegistered {
		return
	}
	prometheus.MustRegister(OperationsTotal)
	prometheus.MustRegister(OperationDuration)
	prometheus.MustRegister(ValidationFlagsTotal)
	ormMetricsRegistered = true
}
