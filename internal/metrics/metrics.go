package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salon_client",
			Name:      "api_requests_total",
			Help:      "Count of backend API requests by endpoint and outcome.",
		},
		[]string{"endpoint", "status"},
	)

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salon_client",
			Name:      "booking_created_total",
			Help:      "Count of bookings submitted successfully.",
		},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salon_client",
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled by users.",
		},
	)

	unauthorizedTeardowns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salon_client",
			Name:      "unauthorized_teardown_total",
			Help:      "Count of 401 responses that tore down the session.",
		},
	)

	todoFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salon_client",
			Name:      "todo_fetch_total",
			Help:      "Count of todo page fetches by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(apiRequests, bookingCreated, bookingCancelled, unauthorizedTeardowns, todoFetches)
	})
}

func IncAPIRequest(endpoint, status string) {
	apiRequests.WithLabelValues(endpoint, status).Inc()
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

func IncBookingCancelled() {
	bookingCancelled.Inc()
}

func IncUnauthorizedTeardown() {
	unauthorizedTeardowns.Inc()
}

func IncTodoFetch(outcome string) {
	todoFetches.WithLabelValues(outcome).Inc()
}
