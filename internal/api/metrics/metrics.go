// Package metrics holds the back-office business metrics. They live in the
// default registry through promauto and are served next to the echo request
// metrics on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backoffice"

// OrdersCreatedTotal is labelled "allocated" when the server split the total
// and "custom" when the caller sent its own installments.
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of service orders created, by schedule origin.",
	},
	[]string{"schedule"},
)

// OrderInstallments observes how many installments new orders are split into.
var OrderInstallments = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_installments",
		Help:      "Number of installments per created order.",
		Buckets:   []float64{1, 2, 3, 4, 6, 10, 12, 18, 24},
	},
)

// InstallmentsRedistributedTotal counts manual installment edits that
// rebalanced an order schedule.
var InstallmentsRedistributedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "installments_redistributed_total",
		Help:      "Total number of installment edits that rebalanced a schedule.",
	},
)

// OrderStatusChangesTotal is labelled by the status the order moved to.
var OrderStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_changes_total",
		Help:      "Total number of order status transitions, by target status.",
	},
	[]string{"status"},
)

// AuditEventsTotal counts persisted audit events by kind.
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of order audit events persisted.",
	},
	[]string{"kind"},
)

// AuditErrorsTotal counts audit events that could not be persisted.
var AuditErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of order audit events that failed to persist.",
	},
)

// AuditQueueDepth is the backlog of each dispatcher worker.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AccessDecisionsTotal counts route guard verdicts per echo route pattern.
var AccessDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_decisions_total",
		Help:      "Total number of route guard decisions, by route and outcome.",
	},
	[]string{"route", "state"},
)
