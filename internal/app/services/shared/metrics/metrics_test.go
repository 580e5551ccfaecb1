package metrics

import (
	"clinic-appointment-service/internal/app/models"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(registry, "clinic_test")

	collector.ObserveCreated()
	collector.ObserveTransition(models.AppointmentStatusPending, models.AppointmentStatusConfirmed)
	collector.ObserveTransition(models.AppointmentStatusPending, models.AppointmentStatusConfirmed)
	collector.ObserveSlotConflict("create")
	collector.ObserveAutoCancelled(3)

	assert.Equal(t, float64(1), testutil.ToFloat64(collector.AppointmentsCreatedTotal))
	assert.Equal(t, float64(2), testutil.ToFloat64(collector.TransitionsTotal.WithLabelValues("pending", "confirmed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.SlotConflictsTotal.WithLabelValues("create")))
	assert.Equal(t, float64(3), testutil.ToFloat64(collector.AutoCancelledTotal))

	rr := httptest.NewRecorder()
	MetricsHandler(registry).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "clinic_test_appointments_auto_cancelled_total 3")
}
