// Package metrics exposes Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the service's Prometheus collectors.
type Metrics struct {
	RequestsTotal       *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
	WizardSubmissions   *prometheus.CounterVec
	RemindersDispatched prometheus.Counter
	ErrorsTotal         prometheus.Counter
}

// New registers and returns the collector set.
func New() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		}, []string{"route", "status"}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "backoffice_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),

		WizardSubmissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_wizard_submissions_total",
			Help: "Reservation wizard submissions by outcome",
		}, []string{"outcome"}),

		RemindersDispatched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_reminders_dispatched_total",
			Help: "Scheduled payment reminders dispatched",
		}),

		ErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_errors_total",
			Help: "Total number of request errors",
		}),
	}
}
