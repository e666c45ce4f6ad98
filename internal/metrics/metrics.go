package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "driveros_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "driveros_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SlotBookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "driveros_slot_bookings_total",
			Help: "Slot booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	SlotCancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "driveros_slot_cancellations_total",
			Help: "Slot booking cancellations by outcome",
		},
		[]string{"outcome"},
	)

	TxRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "driveros_tx_retries_total",
			Help: "Transactions replayed after a serialization failure or deadlock",
		},
	)

	SlotUtilization = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "driveros_slot_utilization_ratio",
			Help:    "Slot occupancy (booked/capacity) observed after each capacity change",
			Buckets: []float64{0.1, 0.25, 0.5, 0.75, 0.9, 1},
		},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "driveros_events_published_total",
			Help: "Domain events published by sink and status",
		},
		[]string{"type", "sink", "status"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "driveros_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "driveros_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordBooking counts a booking attempt. outcome is one of
// "confirmed", "conflict", "not_found" or "error".
func RecordBooking(outcome string) {
	SlotBookingsTotal.WithLabelValues(outcome).Inc()
}

func RecordCancellation(outcome string) {
	SlotCancellationsTotal.WithLabelValues(outcome).Inc()
}

func RecordTxRetry() {
	TxRetriesTotal.Inc()
}

func ObserveSlotUtilization(booked, capacity int) {
	if capacity <= 0 {
		return
	}
	SlotUtilization.Observe(float64(booked) / float64(capacity))
}

func RecordEvent(eventType, sink, status string) {
	EventsPublishedTotal.WithLabelValues(eventType, sink, status).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
