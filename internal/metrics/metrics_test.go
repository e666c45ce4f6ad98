package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "/slots/:id/book", "201", 0.02)
	RecordHTTPRequest("POST", "/slots/:id/book", "409", 0.01)
	RecordHTTPRequest("POST", "/slots/:id/book", "201", 0.03)

	assert.Equal(t, float64(2), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/slots/:id/book", "201")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/slots/:id/book", "409")))
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration))
}

func TestRecordBookingOutcomes(t *testing.T) {
	SlotBookingsTotal.Reset()

	RecordBooking("confirmed")
	RecordBooking("confirmed")
	RecordBooking("conflict")

	assert.Equal(t, float64(2), testutil.ToFloat64(SlotBookingsTotal.WithLabelValues("confirmed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(SlotBookingsTotal.WithLabelValues("conflict")))
}

func TestRecordCancellation(t *testing.T) {
	SlotCancellationsTotal.Reset()

	RecordCancellation("cancelled")
	RecordCancellation("not_found")

	assert.Equal(t, float64(1), testutil.ToFloat64(SlotCancellationsTotal.WithLabelValues("cancelled")))
	assert.Equal(t, float64(1), testutil.ToFloat64(SlotCancellationsTotal.WithLabelValues("not_found")))
}

func TestRecordTxRetry(t *testing.T) {
	testCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "driveros_tx_retries_total_test",
		Help: "test",
	})

	old := TxRetriesTotal
	TxRetriesTotal = testCounter
	defer func() { TxRetriesTotal = old }()

	RecordTxRetry()
	RecordTxRetry()

	assert.Equal(t, float64(2), testutil.ToFloat64(testCounter))
}

func TestObserveSlotUtilizationIgnoresZeroCapacity(t *testing.T) {
	testHist := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "driveros_slot_utilization_ratio_test",
		Help: "test",
	})

	old := SlotUtilization
	SlotUtilization = testHist
	defer func() { SlotUtilization = old }()

	ObserveSlotUtilization(1, 0)
	ObserveSlotUtilization(2, 4)

	assert.Equal(t, 1, testutil.CollectAndCount(testHist))
}

func TestRecordEventAndEmail(t *testing.T) {
	EventsPublishedTotal.Reset()
	EmailsSentTotal.Reset()

	RecordEvent("SLOT_BOOKED", "redis", "ok")
	RecordEmail("slot_booked", "queued")

	assert.Equal(t, float64(1), testutil.ToFloat64(EventsPublishedTotal.WithLabelValues("SLOT_BOOKED", "redis", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("slot_booked", "queued")))
}

func TestEmailQueueLength(t *testing.T) {
	EmailQueueLength.Set(4)
	assert.Equal(t, float64(4), testutil.ToFloat64(EmailQueueLength))
	EmailQueueLength.Set(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(EmailQueueLength))
}
