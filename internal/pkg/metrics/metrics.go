package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_orders_created_total",
		Help: "Total number of orders accepted at intake.",
	})

	OrdersProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_orders_processed_total",
		Help: "Total number of pipeline runs that finished in ready_to_ship.",
	})

	PrintJobsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_print_jobs_completed_total",
		Help: "Total number of print jobs reported as printed by agents.",
	})

	PrintJobsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_print_jobs_failed_total",
		Help: "Total number of print job failure reports from agents.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)
)
