package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"food-ordering-api/internal/model"
)

// Metrics holds the process counters. A nil *Metrics is valid and all
// methods no-op, so tests and partial wiring don't need a registry.
type Metrics struct {
	ordersCreated        prometheus.Counter
	statusTransitions    *prometheus.CounterVec
	notificationsCreated *prometheus.CounterVec
	scanPasses           prometheus.Counter
	scanUpdates          prometheus.Counter
	scanFailures         prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "foodorder",
			Name:      "orders_created_total",
			Help:      "Total number of orders created.",
		}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foodorder",
			Name:      "order_status_transitions_total",
			Help:      "Order status transitions, by edge.",
		}, []string{"from", "to"}),
		notificationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foodorder",
			Name:      "notifications_created_total",
			Help:      "Notifications created, by type.",
		}, []string{"type"}),
		scanPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "foodorder",
			Name:      "order_scan_passes_total",
			Help:      "Completed scheduler scan passes.",
		}),
		scanUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "foodorder",
			Name:      "order_scan_updates_total",
			Help:      "Orders promoted by scheduler scan passes.",
		}),
		scanFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "foodorder",
			Name:      "order_scan_failures_total",
			Help:      "Per-order failures inside scan passes.",
		}),
	}
	prometheus.MustRegister(
		m.ordersCreated,
		m.statusTransitions,
		m.notificationsCreated,
		m.scanPasses,
		m.scanUpdates,
		m.scanFailures,
	)
	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

func (m *Metrics) StatusTransition(from, to model.OrderStatus) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(string(from), string(to)).Inc()
}

func (m *Metrics) NotificationCreated(typ model.NotificationType) {
	if m == nil {
		return
	}
	m.notificationsCreated.WithLabelValues(string(typ)).Inc()
}

func (m *Metrics) ScanPass(updated, failed int) {
	if m == nil {
		return
	}
	m.scanPasses.Inc()
	m.scanUpdates.Add(float64(updated))
	m.scanFailures.Add(float64(failed))
}
