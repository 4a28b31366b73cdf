package models

import "time"

// BookingStatistics summarises bookings whose booking date falls in
// [StartDate, EndDate].
type BookingStatistics struct {
	StartDate      time.Time      `json:"startDate"`
	EndDate        time.Time      `json:"endDate"`
	TotalBookings  int            `json:"totalBookings"`
	TotalRevenue   float64        `json:"totalRevenue"`
	BookingsByTour map[string]int `json:"bookingsByTour"`
}

type PopularTour struct {
	Tour
	BookingCount int `json:"bookingCount"`
}
