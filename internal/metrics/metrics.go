package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CoursesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "courses_created_total",
			Help: "Total courses created",
		},
	)

	EnrollmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrollments_total",
			Help: "Total enrollment operations",
		},
		[]string{"action"}, // enroll|unenroll
	)

	PurchasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchases_total",
			Help: "Total purchase attempts that reached settlement",
		},
		[]string{"status"}, // completed|failed
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

// Handler serves /metrics.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(CoursesCreatedTotal)
	prometheus.MustRegister(EnrollmentsTotal)
	prometheus.MustRegister(PurchasesTotal)
	prometheus.MustRegister(WorkerQueueDepth)
}
