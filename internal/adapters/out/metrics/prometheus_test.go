package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"orderentry/internal/adapters/out/metrics"
	"orderentry/internal/core/domain/model/order"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	m := metrics.New()

	m.OrderSaved(order.KindDrug, order.ActionNew)
	m.OrderSaved(order.KindDrug, order.ActionNew)
	m.OrderSaved(order.KindGeneric, order.ActionDiscontinue)
	m.OrderRejected("concept_mismatch")
	m.OrderAutoDiscontinued(order.KindDrug)
	m.OrderPurged(true, 3)
	m.OrderPurged(false, 2)
	m.SetActiveOrders(42)

	assert.InDelta(t, 2, testutil.ToFloat64(m.OrdersSaved.WithLabelValues("DRUG", "NEW")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.OrdersSaved.WithLabelValues("GENERIC", "DISCONTINUE")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.OrdersRejected.WithLabelValues("concept_mismatch")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.OrdersAutoStopped.WithLabelValues("DRUG")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.OrdersPurged.WithLabelValues("true")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.OrdersPurged.WithLabelValues("false")), 0)
	assert.InDelta(t, 5, testutil.ToFloat64(m.ObservationsPurged), 0)
	assert.InDelta(t, 42, testutil.ToFloat64(m.ActiveOrders), 0)
}

func TestPrometheusRecorder_SeparateRegistries(t *testing.T) {
	require.NotPanics(t, func() {
		metrics.New()
		metrics.New()
	})
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	m := metrics.New()
	m.SetActiveOrders(7)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "orders_active 7")
}
