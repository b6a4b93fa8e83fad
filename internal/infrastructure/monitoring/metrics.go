package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	CustomersRegisteredTotal prometheus.Counter
	DuplicateAadharTotal     prometheus.Counter
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "customer_registry_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		CustomersRegisteredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "customer_registry_customers_registered_total",
				Help: "Total number of customers successfully registered.",
			},
		),
		DuplicateAadharTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "customer_registry_duplicate_aadhar_total",
				Help: "Total number of registrations rejected for an existing aadhar.",
			},
		),
	}
)

func RecordDBQuery(queryName string, err error, started time.Time) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(time.Since(started).Seconds())
}

func RecordCustomerRegistered() {
	Business.CustomersRegisteredTotal.Inc()
}

func RecordDuplicateAadhar() {
	Business.DuplicateAadharTotal.Inc()
}
