package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	transactionsTotal         *prometheus.CounterVec
	recurrenceRunsTotal       *prometheus.CounterVec
	recurrenceOutcomesTotal   *prometheus.CounterVec
	recurrenceRunDuration     prometheus.Histogram
	authenticationEventsTotal *prometheus.CounterVec
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		transactionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_total",
				Help: "Total number of transaction operations",
			},
			[]string{"operation", "type"},
		),
		recurrenceRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recurrence_runs_total",
				Help: "Total number of recurrence evaluation runs",
			},
			[]string{"trigger", "status"},
		),
		recurrenceOutcomesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recurrence_outcomes_total",
				Help: "Per-template outcomes of recurrence evaluation runs",
			},
			[]string{"status"},
		),
		recurrenceRunDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "recurrence_run_duration_milliseconds",
				Help:    "Recurrence evaluation run duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		authenticationEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event_type"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "transaction_operation":
		m.transactionsTotal.WithLabelValues(tags["operation"], tags["type"]).Inc()
	case "recurrence_run":
		m.recurrenceRunsTotal.WithLabelValues(tags["trigger"], tags["status"]).Inc()
	case "recurrence_outcome":
		if status := tags["status"]; status != "" {
			m.recurrenceOutcomesTotal.WithLabelValues(status).Inc()
		}
	case "authentication_event":
		if eventType := tags["event_type"]; eventType != "" {
			m.authenticationEventsTotal.WithLabelValues(eventType).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "recurrence_run":
		m.recurrenceRunDuration.Observe(float64(duration.Milliseconds()))
	}
}
