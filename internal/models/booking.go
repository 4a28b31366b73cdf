package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
	BookingCompleted: {},
	BookingCancelled: {},
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, next := range bookingTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentUnpaid, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether the payment may move to target given the
// booking's current lifecycle status. Payment is only taken on live bookings
// and refunds only follow a cancellation.
func (p PaymentStatus) CanTransitionTo(target PaymentStatus, booking BookingStatus) bool {
	switch {
	case p == PaymentUnpaid && target == PaymentPaid:
		return booking != BookingCancelled
	case p == PaymentPaid && target == PaymentRefunded:
		return booking == BookingCancelled
	}
	return false
}

type Booking struct {
	Entity
	CustomerID      string        `json:"customerId"`
	TourID          string        `json:"tourId"`
	BookingDate     time.Time     `json:"bookingDate"`
	NumberOfPeople  int           `json:"numberOfPeople"`
	Status          BookingStatus `json:"status"`
	TotalAmount     float64       `json:"totalAmount"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	SpecialRequests string        `json:"specialRequests,omitempty"`
}

type BookingRequest struct {
	CustomerID      string `json:"customerId" validate:"required"`
	TourID          string `json:"tourId" validate:"required"`
	NumberOfPeople  int    `json:"numberOfPeople" validate:"required,gte=1"`
	SpecialRequests string `json:"specialRequests" validate:"max=2000"`
}

// BookingUpdate is the body of PUT /bookings/{id}. NumberOfPeople is decoded
// only to reject attempts to change it.
type BookingUpdate struct {
	Status          *BookingStatus `json:"status"`
	PaymentStatus   *PaymentStatus `json:"paymentStatus"`
	SpecialRequests *string        `json:"specialRequests" validate:"omitempty,max=2000"`
	NumberOfPeople  *int           `json:"numberOfPeople"`
}
