package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingsCreated counts bookings that reserved seats and were stored.
	BookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tours",
			Name:      "bookings_created_total",
			Help:      "The total number of bookings created",
		},
	)

	// BookingsRejected counts createBooking failures by error kind.
	BookingsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tours",
			Name:      "bookings_rejected_total",
			Help:      "The total number of booking requests that failed",
		},
		[]string{"reason"},
	)

	BookingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tours",
			Name:      "booking_transitions_total",
			Help:      "Booking status transitions applied",
		},
		[]string{"to"},
	)

	// SeatsAvailable mirrors each tour's availableSeats after every inventory change.
	SeatsAvailable = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "tours",
			Name:      "seats_available",
			Help:      "Seats currently available per tour",
		},
		[]string{"tour_id"},
	)

	CompensationsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tours",
			Name:      "compensations_failed_total",
			Help:      "Seat rollbacks that failed after a booking could not be stored",
		},
	)
)
