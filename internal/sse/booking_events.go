package sse

import (
	"context"
	"sync"
	"time"

	"tour-booking/internal/models"
)

const (
	ActivityCreated   = "created"
	ActivityUpdated   = "updated"
	ActivityCancelled = "cancelled"
)

// clientBuffer is how many activities a slow client may fall behind before
// further ones are dropped for it.
const clientBuffer = 10

// Activity is one booking change pushed to stream subscribers.
type Activity struct {
	Type       string         `json:"type"`
	Booking    models.Booking `json:"booking"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// BookingEventEmitter broadcasts booking activity to clients subscribed to
// a tour.
type BookingEventEmitter struct {
	mu      sync.RWMutex
	clients map[string][]chan Activity
}

func NewBookingEventEmitter() *BookingEventEmitter {
	return &BookingEventEmitter{clients: make(map[string][]chan Activity)}
}

// SubscribeToTour registers a client for the tour's activity. The returned
// channel is closed once ctx is done.
func (e *BookingEventEmitter) SubscribeToTour(ctx context.Context, tourID string) <-chan Activity {
	ch := make(chan Activity, clientBuffer)

	e.mu.Lock()
	e.clients[tourID] = append(e.clients[tourID], ch)
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.remove(tourID, ch)
	}()
	return ch
}

// Emit delivers the activity without blocking; clients with a full buffer
// miss it.
func (e *BookingEventEmitter) Emit(activity Activity) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, ch := range e.clients[activity.Booking.TourID] {
		select {
		case ch <- activity:
		default:
		}
	}
}

func (e *BookingEventEmitter) PublishBookingCreated(_ context.Context, booking models.Booking) error {
	e.Emit(Activity{Type: ActivityCreated, Booking: booking, OccurredAt: time.Now().UTC()})
	return nil
}

func (e *BookingEventEmitter) PublishBookingUpdated(_ context.Context, booking models.Booking) error {
	e.Emit(Activity{Type: ActivityUpdated, Booking: booking, OccurredAt: time.Now().UTC()})
	return nil
}

func (e *BookingEventEmitter) PublishBookingCancelled(_ context.Context, booking models.Booking) error {
	e.Emit(Activity{Type: ActivityCancelled, Booking: booking, OccurredAt: time.Now().UTC()})
	return nil
}

// ClientCount returns the number of clients subscribed to a tour.
func (e *BookingEventEmitter) ClientCount(tourID string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.clients[tourID])
}

func (e *BookingEventEmitter) remove(tourID string, ch chan Activity) {
	e.mu.Lock()
	defer e.mu.Unlock()

	clients := e.clients[tourID]
	for i, c := range clients {
		if c == ch {
			e.clients[tourID] = append(clients[:i], clients[i+1:]...)
			close(ch)
			break
		}
	}
	if len(e.clients[tourID]) == 0 {
		delete(e.clients, tourID)
	}
}
