// Package metrics provides Prometheus metrics for the order lifecycle.
package metrics

import (
	"net/http"
	"strconv"

	"orderentry/internal/core/domain/model/order"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements ports.MetricsRecorder. Each recorder owns its
// registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	OrdersSaved        *prometheus.CounterVec
	OrdersRejected     *prometheus.CounterVec
	OrdersAutoStopped  *prometheus.CounterVec
	OrdersPurged       *prometheus.CounterVec
	ObservationsPurged prometheus.Counter
	ActiveOrders       prometheus.Gauge
}

// New creates and registers all metrics.
func New() *PrometheusRecorder {
	m := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		OrdersSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_saved_total",
			Help: "Total orders saved",
		}, []string{"kind", "action"}),
		OrdersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_rejected_total",
			Help: "Total order saves rejected by a lifecycle rule",
		}, []string{"reason"}),
		OrdersAutoStopped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_auto_discontinued_total",
			Help: "Total active orders stopped by a new order for the same orderable",
		}, []string{"kind"}),
		OrdersPurged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_purged_total",
			Help: "Total orders purged",
		}, []string{"cascade"}),
		ObservationsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "order_observations_purged_total",
			Help: "Total observations deleted or detached by order purges",
		}),
		ActiveOrders: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orders_active",
			Help: "Currently active orders",
		}),
	}

	m.registry.MustRegister(
		m.OrdersSaved,
		m.OrdersRejected,
		m.OrdersAutoStopped,
		m.OrdersPurged,
		m.ObservationsPurged,
		m.ActiveOrders,
	)

	return m
}

func (m *PrometheusRecorder) OrderSaved(kind order.Kind, action order.Action) {
	m.OrdersSaved.WithLabelValues(kind.String(), action.String()).Inc()
}

func (m *PrometheusRecorder) OrderRejected(reason string) {
	m.OrdersRejected.WithLabelValues(reason).Inc()
}

func (m *PrometheusRecorder) OrderAutoDiscontinued(kind order.Kind) {
	m.OrdersAutoStopped.WithLabelValues(kind.String()).Inc()
}

func (m *PrometheusRecorder) OrderPurged(cascade bool, observations int64) {
	m.OrdersPurged.WithLabelValues(strconv.FormatBool(cascade)).Inc()
	m.ObservationsPurged.Add(float64(observations))
}

func (m *PrometheusRecorder) SetActiveOrders(count int64) {
	m.ActiveOrders.Set(float64(count))
}

// Registry returns the registry the metrics are registered on.
func (m *PrometheusRecorder) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus HTTP handler for this recorder's registry.
func (m *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
