package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homehero",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homehero",
			Name:      "booking_transitions_total",
			Help:      "Booking state transitions by target status.",
		},
		[]string{"status"},
	)

	geocodeLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homehero",
			Name:      "geocode_lookups_total",
			Help:      "Geocode lookups by outcome: hit, miss, failure.",
		},
		[]string{"outcome"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homehero",
			Name:      "notifications_total",
			Help:      "Outbound notification attempts by outcome.",
		},
		[]string{"outcome"},
	)

	reviewsAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "homehero",
			Name:      "reviews_accepted_total",
			Help:      "Reviews that passed intake and updated a rating.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			bookingTransitions,
			geocodeLookups,
			notifications,
			reviewsAccepted,
		)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncBookingTransition records a successful transition to status.
func IncBookingTransition(status string) {
	bookingTransitions.WithLabelValues(status).Inc()
}

// IncGeocode records a lookup outcome: "hit", "miss" or "failure".
func IncGeocode(outcome string) {
	geocodeLookups.WithLabelValues(outcome).Inc()
}

// IncNotification records a dispatch outcome: "sent" or "failed".
func IncNotification(outcome string) {
	notifications.WithLabelValues(outcome).Inc()
}

// IncReviewAccepted records one accepted review.
func IncReviewAccepted() {
	reviewsAccepted.Inc()
}
