package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors used by the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer         prometheus.Gatherer
	requestTotal     *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	errorTotal       *prometheus.CounterVec
	feedbackTotal    *prometheus.CounterVec
	departmentEvents *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Errors returned to clients by error code.",
		}, []string{"route", "method", "code"}),
		feedbackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_submissions_total",
			Help: "Accepted feedback submissions by rating.",
		}, []string{"rating"}),
		departmentEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "department_events_total",
			Help: "Department registry mutations by event type.",
		}, []string{"type"}),
	}
	reg.MustRegister(
		m.requestTotal,
		m.requestDuration,
		m.errorTotal,
		m.feedbackTotal,
		m.departmentEvents,
	)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errorTotal.WithLabelValues(route, method, code).Inc()
}

// RecordFeedback counts an accepted submission.
func (m *Metrics) RecordFeedback(rating string) {
	if m == nil {
		return
	}
	m.feedbackTotal.WithLabelValues(rating).Inc()
}

// RecordDepartmentEvent counts a registry mutation.
func (m *Metrics) RecordDepartmentEvent(eventType string) {
	if m == nil {
		return
	}
	m.departmentEvents.WithLabelValues(eventType).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	gatherer := prometheus.DefaultGatherer
	if m != nil && m.gatherer != nil {
		gatherer = m.gatherer
	}
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
