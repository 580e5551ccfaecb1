package metrics

import (
	"clinic-appointment-service/internal/app/contracts"
	"clinic-appointment-service/internal/app/models"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	AppointmentsCreatedTotal prometheus.Counter
	TransitionsTotal         *prometheus.CounterVec
	SlotConflictsTotal       *prometheus.CounterVec
	AutoCancelledTotal       prometheus.Counter
	NotificationsTotal       *prometheus.CounterVec
}

var _ contracts.AppointmentMetrics = (*Collector)(nil)

// NewCollector registers every metric on reg. Tests pass a fresh registry.
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "route"}),

		AppointmentsCreatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointments",
			Name:      "created_total",
			Help:      "Total appointments booked.",
		}),

		TransitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointments",
			Name:      "transitions_total",
			Help:      "Appointment status transitions by source and target status.",
		}, []string{"from", "to"}),

		SlotConflictsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointments",
			Name:      "slot_conflicts_total",
			Help:      "Requests rejected because the doctor's slot was taken.",
		}, []string{"operation"}),

		AutoCancelledTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointments",
			Name:      "auto_cancelled_total",
			Help:      "Pending appointments cancelled by the scheduler.",
		}),

		NotificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "dispatched_total",
			Help:      "Status notifications by dispatch result.",
		}, []string{"result"}),
	}
}

func (c *Collector) ObserveCreated() {
	c.AppointmentsCreatedTotal.Inc()
}

func (c *Collector) ObserveTransition(from, to models.AppointmentStatus) {
	c.TransitionsTotal.WithLabelValues(string(from), string(to)).Inc()
}

func (c *Collector) ObserveSlotConflict(operation string) {
	c.SlotConflictsTotal.WithLabelValues(operation).Inc()
}

func (c *Collector) ObserveAutoCancelled(count int) {
	c.AutoCancelledTotal.Add(float64(count))
}

func (c *Collector) ObserveNotification(result string) {
	c.NotificationsTotal.WithLabelValues(result).Inc()
}

func (c *Collector) ObserveRequest(method, route string, status int, duration time.Duration) {
	c.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
