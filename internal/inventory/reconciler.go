package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tour-booking/internal/apperrors"
	"tour-booking/internal/lock"
	"tour-booking/internal/logger"
	"tour-booking/internal/metrics"
	"tour-booking/internal/models"
)

// ErrCapacityExceeded is returned when a release would push a tour above the
// capacity it was created with.
var ErrCapacityExceeded = fmt.Errorf("seats would exceed tour capacity: %w", apperrors.ErrConflict)

type TourStore interface {
	GetByID(id string) (models.Tour, error)
	Update(id string, apply func(*models.Tour) error) (models.Tour, error)
}

type LedgerWriter interface {
	Append(ctx context.Context, entry *models.LedgerEntry) error
}

// Reconciler is the only writer of Tour.AvailableSeats. Operations on the
// same tour are serialized; different tours proceed in parallel.
type Reconciler struct {
	Tours  TourStore
	Ledger LedgerWriter
	Logger *logger.Logger
	locks  *lock.Keyed
	now    func() time.Time
}

func NewReconciler(tours TourStore, ledger LedgerWriter, log *logger.Logger) *Reconciler {
	return &Reconciler{
		Tours:  tours,
		Ledger: ledger,
		Logger: log,
		locks:  lock.NewKeyed(),
		now:    time.Now,
	}
}

// Reserve takes count seats from the tour. It fails with ErrNotFound for an
// unknown tour and ErrInsufficientInventory when fewer than count seats are
// left, in which case nothing changes.
func (r *Reconciler) Reserve(ctx context.Context, tourID string, count int, bookingID string) (models.Tour, error) {
	if count <= 0 {
		return models.Tour{}, apperrors.InvalidArgument("seat count must be positive, got %d", count)
	}

	unlock := r.locks.Lock(tourID)
	defer unlock()

	tour, err := r.Tours.Update(tourID, func(t *models.Tour) error {
		if t.AvailableSeats < count {
			return fmt.Errorf("tour %s has %d seats left, %d requested: %w",
				t.ID, t.AvailableSeats, count, apperrors.ErrInsufficientInventory)
		}
		t.AvailableSeats -= count
		t.SyncSoldOut()
		return nil
	})
	if err != nil {
		return models.Tour{}, err
	}

	r.record(ctx, tour, -count, models.LedgerReserve, bookingID)
	r.Logger.LogInventory("RESERVE", tourID, fmt.Sprintf("%d seats reserved, %d left", count, tour.AvailableSeats))
	return tour, nil
}

// Release returns count seats to the tour.
func (r *Reconciler) Release(ctx context.Context, tourID string, count int, bookingID string) (models.Tour, error) {
	return r.release(ctx, tourID, count, bookingID, models.LedgerRelease)
}

// Rollback undoes a Reserve whose booking could not be stored. It behaves
// like Release but is recorded separately in the ledger.
func (r *Reconciler) Rollback(ctx context.Context, tourID string, count int, bookingID string) (models.Tour, error) {
	return r.release(ctx, tourID, count, bookingID, models.LedgerRollback)
}

func (r *Reconciler) release(ctx context.Context, tourID string, count int, bookingID string, reason models.LedgerReason) (models.Tour, error) {
	if count <= 0 {
		return models.Tour{}, apperrors.InvalidArgument("seat count must be positive, got %d", count)
	}

	unlock := r.locks.Lock(tourID)
	defer unlock()

	tour, err := r.Tours.Update(tourID, func(t *models.Tour) error {
		if t.AvailableSeats+count > t.Capacity {
			return fmt.Errorf("tour %s: releasing %d onto %d/%d: %w",
				t.ID, count, t.AvailableSeats, t.Capacity, ErrCapacityExceeded)
		}
		t.AvailableSeats += count
		t.SyncSoldOut()
		return nil
	})
	if err != nil {
		return models.Tour{}, err
	}

	r.record(ctx, tour, count, reason, bookingID)
	r.Logger.LogInventory(string(reason), tourID, fmt.Sprintf("%d seats returned, %d available", count, tour.AvailableSeats))
	return tour, nil
}

// Resize sets a new capacity. Seats held by bookings stay held, so
// availableSeats moves by the same delta as capacity. A capacity below the
// held seat count is rejected.
func (r *Reconciler) Resize(ctx context.Context, tourID string, capacity int) (models.Tour, error) {
	if capacity < 0 {
		return models.Tour{}, apperrors.InvalidArgument("capacity must not be negative, got %d", capacity)
	}

	unlock := r.locks.Lock(tourID)
	defer unlock()

	var delta int
	tour, err := r.Tours.Update(tourID, func(t *models.Tour) error {
		held := t.HeldSeats()
		if capacity < held {
			return apperrors.InvalidArgument("capacity %d is below the %d seats already booked", capacity, held)
		}
		delta = capacity - t.Capacity
		t.Capacity = capacity
		t.AvailableSeats += delta
		t.SyncSoldOut()
		return nil
	})
	if err != nil {
		return models.Tour{}, err
	}

	if delta != 0 {
		r.record(ctx, tour, delta, models.LedgerResize, "")
	}
	r.Logger.LogInventory("RESIZE", tourID, fmt.Sprintf("capacity now %d, %d available", tour.Capacity, tour.AvailableSeats))
	return tour, nil
}

func (r *Reconciler) record(ctx context.Context, tour models.Tour, delta int, reason models.LedgerReason, bookingID string) {
	metrics.SeatsAvailable.WithLabelValues(tour.ID).Set(float64(tour.AvailableSeats))

	if r.Ledger == nil {
		return
	}
	entry := &models.LedgerEntry{
		TourID:         tour.ID,
		BookingID:      bookingID,
		Delta:          delta,
		Reason:         reason,
		AvailableAfter: tour.AvailableSeats,
		CreatedAt:      r.now().UTC(),
	}
	if err := r.Ledger.Append(ctx, entry); err != nil {
		r.Logger.Error("INVENTORY", fmt.Sprintf("ledger append failed for tour %s (%s %+d): %v", tour.ID, reason, delta, err))
	}
}

// IsCapacityExceeded reports whether err came from a release beyond capacity.
func IsCapacityExceeded(err error) bool {
	return errors.Is(err, ErrCapacityExceeded)
}
