package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the various metrics used for monitoring the application.
// It includes counters for HTTP requests, validation failures and created employees,
// histograms for request and storage durations, and a gauge for the collection size.
type Metrics struct {
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	StorageOpDuration  *prometheus.HistogramVec
	ValidationFailures *prometheus.CounterVec
	EmployeesCreated   prometheus.Counter
	CollectionSize     prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with the provided Registerer.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "employeestore_http_requests_total",
			Help: "Total number of handled HTTP requests.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "employeestore_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		StorageOpDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "employeestore_storage_operation_duration_seconds",
			Help:    "Duration of loading or saving the employee collection.",
			Buckets: prometheus.DefBuckets,
		}, []string{"backend", "operation"}), // operation: 'load', 'save', 'ping'
		ValidationFailures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "employeestore_validation_failures_total",
			Help: "Total number of requests rejected because a record failed validation.",
		}, []string{"operation"}),
		EmployeesCreated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "employeestore_employees_created_total",
			Help: "Total number of employees that were created and persisted.",
		}),
		CollectionSize: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "employeestore_collection_size",
			Help: "Number of employees in the collection at the last load.",
		}),
	}

	for _, op := range []string{"list", "get", "create"} {
		metrics.ValidationFailures.WithLabelValues(op)
	}

	return metrics
}
