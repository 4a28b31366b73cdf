package models

import "slices"

type TourStatus string

const (
	TourActive    TourStatus = "active"
	TourUpcoming  TourStatus = "upcoming"
	TourSoldOut   TourStatus = "sold-out"
	TourCancelled TourStatus = "cancelled"
)

func (s TourStatus) IsValid() bool {
	switch s {
	case TourActive, TourUpcoming, TourSoldOut, TourCancelled:
		return true
	}
	return false
}

// TourDay is one entry of a tour itinerary.
type TourDay struct {
	Day         int      `json:"day" validate:"gte=1"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Activities  []string `json:"activities"`
}

// Tour is a bookable trip. AvailableSeats is owned by the inventory
// reconciler; Capacity is the seat count the tour was created with (or last
// resized to).
type Tour struct {
	Entity
	Name             string     `json:"name"`
	DeparturePoint   string     `json:"departurePoint,omitempty"`
	Destination      string     `json:"destination"`
	Itinerary        []TourDay  `json:"itinerary"`
	StartDate        string     `json:"startDate,omitempty"`
	EndDate          string     `json:"endDate,omitempty"`
	Transportation   string     `json:"transportation,omitempty"`
	Price            float64    `json:"price"`
	Capacity         int        `json:"capacity"`
	AvailableSeats   int        `json:"availableSeats"`
	IncludedServices []string   `json:"includedServices"`
	ExcludedServices []string   `json:"excludedServices"`
	Description      string     `json:"description,omitempty"`
	Images           []string   `json:"images"`
	Status           TourStatus `json:"status"`
}

// SyncSoldOut flips an active tour to sold-out at zero seats and back once
// seats return. Upcoming and cancelled tours keep their status.
func (t *Tour) SyncSoldOut() {
	switch {
	case t.Status == TourActive && t.AvailableSeats == 0:
		t.Status = TourSoldOut
	case t.Status == TourSoldOut && t.AvailableSeats > 0:
		t.Status = TourActive
	}
}

// Clone returns a copy that shares no slices with t.
func (t Tour) Clone() Tour {
	t.Itinerary = slices.Clone(t.Itinerary)
	for i := range t.Itinerary {
		t.Itinerary[i].Activities = slices.Clone(t.Itinerary[i].Activities)
	}
	t.IncludedServices = slices.Clone(t.IncludedServices)
	t.ExcludedServices = slices.Clone(t.ExcludedServices)
	t.Images = slices.Clone(t.Images)
	return t
}

// HeldSeats is the number of seats currently taken by non-cancelled bookings.
func (t Tour) HeldSeats() int {
	return t.Capacity - t.AvailableSeats
}

type TourRequest struct {
	Name             string     `json:"name" validate:"required"`
	DeparturePoint   string     `json:"departurePoint"`
	Destination      string     `json:"destination" validate:"required"`
	Itinerary        []TourDay  `json:"itinerary" validate:"dive"`
	StartDate        string     `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate          string     `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Transportation   string     `json:"transportation"`
	Price            *float64   `json:"price" validate:"required,gte=0"`
	AvailableSeats   int        `json:"availableSeats" validate:"gte=0"`
	IncludedServices []string   `json:"includedServices"`
	ExcludedServices []string   `json:"excludedServices"`
	Description      string     `json:"description"`
	Images           []string   `json:"images"`
	Status           TourStatus `json:"status" validate:"omitempty,oneof=active upcoming sold-out cancelled"`
}

// TourUpdate is a partial update. Nil fields are left untouched.
// AvailableSeats is only decoded so that direct writes can be rejected.
type TourUpdate struct {
	Name             *string     `json:"name" validate:"omitempty,min=1"`
	DeparturePoint   *string     `json:"departurePoint"`
	Destination      *string     `json:"destination" validate:"omitempty,min=1"`
	Itinerary        []TourDay   `json:"itinerary" validate:"omitempty,dive"`
	StartDate        *string     `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate          *string     `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Transportation   *string     `json:"transportation"`
	Price            *float64    `json:"price" validate:"omitempty,gte=0"`
	Capacity         *int        `json:"capacity" validate:"omitempty,gte=0"`
	AvailableSeats   *int        `json:"availableSeats"`
	IncludedServices []string    `json:"includedServices"`
	ExcludedServices []string    `json:"excludedServices"`
	Description      *string     `json:"description"`
	Images           []string    `json:"images"`
	Status           *TourStatus `json:"status" validate:"omitempty,oneof=active upcoming sold-out cancelled"`
}

type TourFilter struct {
	Destination string
	Status      TourStatus
	MinPrice    *float64
	MaxPrice    *float64
	Featured    bool
}
