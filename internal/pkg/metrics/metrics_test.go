//go:build unit

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tour-booking/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("nil receiver records nothing", func(t *testing.T) {
		var m *metrics.Metrics
		assert.NotPanics(t, func() {
			m.BookingTransition("confirmed")
			m.CapacityRejected()
			m.Payment("completed")
			m.OutboxMessage("published")
			m.ObserveHTTP(http.MethodGet, "/health", 200, time.Millisecond)
		})
	})

	t.Run("counters are exposed on the handler", func(t *testing.T) {
		m := metrics.New("tour_booking_test")
		m.BookingTransition("confirmed")
		m.BookingTransition("confirmed")
		m.CapacityRejected()

		n, err := testutil.GatherAndCount(m.Registry(), "tour_booking_test_booking_transitions_total")
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `tour_booking_test_booking_transitions_total{status="confirmed"} 2`)
		assert.Contains(t, rec.Body.String(), "tour_booking_test_ledger_capacity_rejections_total 1")
	})
}
