// Package metrics defines the custom Prometheus metrics of the storefront API.
// All metrics are registered with the default registry on package init via
// promauto and exposed by the router under /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - action: "register" or "login"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by outcome.",
	},
	[]string{"action", "result"},
)

// GateRejectionsTotal counts requests refused by the authorization gate.
// Label:
//   - reason: "missing_token", "invalid_token", "user_gone" or "forbidden"
var GateRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_rejections_total",
		Help:      "Total number of requests rejected by the authorization gate.",
	},
	[]string{"reason"},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts newly placed orders.
// Label:
//   - payment_method: the method chosen at checkout
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created, by payment method.",
	},
	[]string{"payment_method"},
)

// OrderStatusChangesTotal counts admin status updates and cancellations.
// Label:
//   - status: the status the order moved to
var OrderStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_changes_total",
		Help:      "Total number of order status changes, by resulting status.",
	},
	[]string{"status"},
)

// ── Audit event metrics ───────────────────────────────────────────────────────

// OrderEventsQueueDepth tracks the events waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index
var OrderEventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "order_events_queue_depth",
		Help:      "Current number of order events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// OrderEventsDroppedTotal counts events discarded because the dispatcher was stopped.
var OrderEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_events_dropped_total",
		Help:      "Total number of order events dropped after dispatcher shutdown.",
	},
)

// OrderEventWriteDuration measures how long persisting one event takes.
// Label:
//   - result: "ok" or "error"
var OrderEventWriteDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_event_write_duration_seconds",
		Help:      "Duration of order event persistence from dequeue to write.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
