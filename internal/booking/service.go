package booking

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"tour-booking/internal/apperrors"
	"tour-booking/internal/idempotency"
	"tour-booking/internal/lock"
	"tour-booking/internal/logger"
	"tour-booking/internal/metrics"
	"tour-booking/internal/models"
	"tour-booking/internal/validation"
)

type TourReader interface {
	GetByID(id string) (models.Tour, error)
}

type BookingStore interface {
	NewID() string
	Create(booking models.Booking) (models.Booking, error)
	GetByID(id string) (models.Booking, error)
	Update(id string, apply func(*models.Booking) error) (models.Booking, error)
	Query(match func(models.Booking) bool) iter.Seq[models.Booking]
}

type Inventory interface {
	Reserve(ctx context.Context, tourID string, count int, bookingID string) (models.Tour, error)
	Release(ctx context.Context, tourID string, count int, bookingID string) (models.Tour, error)
	Rollback(ctx context.Context, tourID string, count int, bookingID string) (models.Tour, error)
}

type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, booking models.Booking) error
	PublishBookingUpdated(ctx context.Context, booking models.Booking) error
	PublishBookingCancelled(ctx context.Context, booking models.Booking) error
}

// NopPublisher drops events. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishBookingCreated(context.Context, models.Booking) error   { return nil }
func (NopPublisher) PublishBookingUpdated(context.Context, models.Booking) error   { return nil }
func (NopPublisher) PublishBookingCancelled(context.Context, models.Booking) error { return nil }

// Publishers fans every event out to each publisher in turn. Failures are
// joined; one failing publisher does not stop the rest.
type Publishers []EventPublisher

func (p Publishers) PublishBookingCreated(ctx context.Context, booking models.Booking) error {
	return p.each(func(e EventPublisher) error { return e.PublishBookingCreated(ctx, booking) })
}

func (p Publishers) PublishBookingUpdated(ctx context.Context, booking models.Booking) error {
	return p.each(func(e EventPublisher) error { return e.PublishBookingUpdated(ctx, booking) })
}

func (p Publishers) PublishBookingCancelled(ctx context.Context, booking models.Booking) error {
	return p.each(func(e EventPublisher) error { return e.PublishBookingCancelled(ctx, booking) })
}

func (p Publishers) each(publish func(EventPublisher) error) error {
	var errs []error
	for _, e := range p {
		if err := publish(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type BookingService struct {
	Tours       TourReader
	Bookings    BookingStore
	Inventory   Inventory
	Events      EventPublisher
	Idempotency idempotency.Store
	Logger      *logger.Logger
	locks       *lock.Keyed
	now         func() time.Time
}

func NewBookingService(tours TourReader, bookings BookingStore, inventory Inventory, events EventPublisher, idem idempotency.Store, log *logger.Logger) *BookingService {
	if events == nil {
		events = NopPublisher{}
	}
	return &BookingService{
		Tours:       tours,
		Bookings:    bookings,
		Inventory:   inventory,
		Events:      events,
		Idempotency: idem,
		Logger:      log,
		locks:       lock.NewKeyed(),
		now:         time.Now,
	}
}

// ---------------- CREATE ----------------

// CreateBooking reserves seats on the tour and stores a pending, unpaid
// booking. If the booking cannot be stored the reservation is rolled back
// before the error is returned.
func (s *BookingService) CreateBooking(ctx context.Context, req models.BookingRequest) (models.Booking, error) {
	booking, err := s.createBooking(ctx, req)
	if err != nil {
		metrics.BookingsRejected.WithLabelValues(rejectReason(err)).Inc()
		return models.Booking{}, err
	}
	metrics.BookingsCreated.Inc()
	return booking, nil
}

func (s *BookingService) createBooking(ctx context.Context, req models.BookingRequest) (models.Booking, error) {
	if err := validation.Struct(req); err != nil {
		return models.Booking{}, err
	}

	if _, err := s.Tours.GetByID(req.TourID); err != nil {
		return models.Booking{}, err
	}

	bookingID := s.Bookings.NewID()
	tour, err := s.Inventory.Reserve(ctx, req.TourID, req.NumberOfPeople, bookingID)
	if err != nil {
		s.Logger.LogBooking("REJECTED", bookingID, fmt.Sprintf("tour %s: %v", req.TourID, err))
		return models.Booking{}, err
	}

	booking := models.Booking{
		Entity:          models.Entity{ID: bookingID},
		CustomerID:      req.CustomerID,
		TourID:          req.TourID,
		BookingDate:     s.now().UTC(),
		NumberOfPeople:  req.NumberOfPeople,
		Status:          models.BookingPending,
		TotalAmount:     totalAmount(tour.Price, req.NumberOfPeople),
		PaymentStatus:   models.PaymentUnpaid,
		SpecialRequests: req.SpecialRequests,
	}

	created, err := s.Bookings.Create(booking)
	if err != nil {
		err = fmt.Errorf("store booking %s: %w", bookingID, err)
		s.Logger.LogBooking("ROLLBACK", bookingID, fmt.Sprintf("returning %d seats to tour %s: %v", req.NumberOfPeople, req.TourID, err))
		if _, rbErr := s.Inventory.Rollback(ctx, req.TourID, req.NumberOfPeople, bookingID); rbErr != nil {
			metrics.CompensationsFailed.Inc()
			s.Logger.Error("BOOKING", fmt.Sprintf("rollback of %d seats on tour %s failed: %v", req.NumberOfPeople, req.TourID, rbErr))
			return models.Booking{}, errors.Join(err, fmt.Errorf("roll back seats on tour %s: %w", req.TourID, rbErr))
		}
		return models.Booking{}, err
	}

	s.Logger.LogBooking("CREATED", created.ID, fmt.Sprintf("%d seats on tour %s, total %.2f", created.NumberOfPeople, created.TourID, created.TotalAmount))
	if err := s.Events.PublishBookingCreated(ctx, created); err != nil {
		s.Logger.LogKafka("PUBLISH_FAILED", "booking.created", fmt.Sprintf("booking %s: %v", created.ID, err))
	}
	return created, nil
}

// CreateBookingOnce is CreateBooking guarded by an idempotency key. A key
// that already produced a booking returns that booking with replayed set and
// reserves nothing. An empty key, or a service without a key store, behaves
// like CreateBooking.
func (s *BookingService) CreateBookingOnce(ctx context.Context, key string, req models.BookingRequest) (booking models.Booking, replayed bool, err error) {
	if key == "" || s.Idempotency == nil {
		booking, err = s.CreateBooking(ctx, req)
		return booking, false, err
	}

	existingID, claimed, err := s.Idempotency.Claim(ctx, key)
	if err != nil {
		return models.Booking{}, false, err
	}
	if !claimed {
		booking, err = s.Bookings.GetByID(existingID)
		if err != nil {
			return models.Booking{}, false, fmt.Errorf("replay idempotency key: %w", err)
		}
		s.Logger.LogBooking("REPLAYED", booking.ID, "idempotency key reused")
		return booking, true, nil
	}

	booking, err = s.CreateBooking(ctx, req)
	if err != nil {
		if abandonErr := s.Idempotency.Abandon(ctx, key); abandonErr != nil {
			s.Logger.Warn("BOOKING", fmt.Sprintf("could not release idempotency key: %v", abandonErr))
		}
		return models.Booking{}, false, err
	}
	if err := s.Idempotency.Complete(ctx, key, booking.ID); err != nil {
		s.Logger.Warn("BOOKING", fmt.Sprintf("could not record idempotency key for booking %s: %v", booking.ID, err))
	}
	return booking, false, nil
}

// ---------------- TRANSITIONS ----------------

// UpdateBookingStatus moves the booking along the lifecycle. Entering
// cancelled returns the booking's seats to its tour before the new status
// is stored. A booking whose tour has been deleted is cancelled without
// releasing anything.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error) {
	if !status.IsValid() {
		return models.Booking{}, apperrors.InvalidArgument("unknown booking status %q", status)
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	current, err := s.Bookings.GetByID(id)
	if err != nil {
		return models.Booking{}, err
	}
	if !current.Status.CanTransitionTo(status) {
		return models.Booking{}, transitionError(id, current.Status, status)
	}

	released := false
	if status == models.BookingCancelled {
		_, err := s.Inventory.Release(ctx, current.TourID, current.NumberOfPeople, current.ID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			s.Logger.Warn("BOOKING", fmt.Sprintf("cancelling booking %s of deleted tour %s; no seats released", id, current.TourID))
		case err != nil:
			return models.Booking{}, err
		default:
			released = true
		}
	}

	updated, err := s.Bookings.Update(id, func(b *models.Booking) error {
		if !b.Status.CanTransitionTo(status) {
			return transitionError(id, b.Status, status)
		}
		b.Status = status
		return nil
	})
	if err != nil {
		if released {
			if _, reErr := s.Inventory.Reserve(ctx, current.TourID, current.NumberOfPeople, current.ID); reErr != nil {
				metrics.CompensationsFailed.Inc()
				return models.Booking{}, errors.Join(err, fmt.Errorf("re-reserve seats on tour %s: %w", current.TourID, reErr))
			}
		}
		return models.Booking{}, err
	}

	metrics.BookingTransitions.WithLabelValues(string(status)).Inc()
	s.Logger.LogBooking(string(status), id, fmt.Sprintf("%s -> %s", current.Status, status))

	publish := s.Events.PublishBookingUpdated
	if status == models.BookingCancelled {
		publish = s.Events.PublishBookingCancelled
	}
	if err := publish(ctx, updated); err != nil {
		s.Logger.LogKafka("PUBLISH_FAILED", "booking."+string(status), fmt.Sprintf("booking %s: %v", id, err))
	}
	return updated, nil
}

// UpdatePaymentStatus applies unpaid → paid on a live booking or
// paid → refunded on a cancelled one.
func (s *BookingService) UpdatePaymentStatus(ctx context.Context, id string, payment models.PaymentStatus) (models.Booking, error) {
	if !payment.IsValid() {
		return models.Booking{}, apperrors.InvalidArgument("unknown payment status %q", payment)
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	updated, err := s.Bookings.Update(id, func(b *models.Booking) error {
		if !b.PaymentStatus.CanTransitionTo(payment, b.Status) {
			return fmt.Errorf("booking %s (%s): payment %s -> %s: %w",
				id, b.Status, b.PaymentStatus, payment, apperrors.ErrInvalidTransition)
		}
		b.PaymentStatus = payment
		return nil
	})
	if err != nil {
		return models.Booking{}, err
	}

	s.Logger.LogBooking("PAYMENT", id, fmt.Sprintf("payment %s", payment))
	if err := s.Events.PublishBookingUpdated(ctx, updated); err != nil {
		s.Logger.LogKafka("PUBLISH_FAILED", "booking.updated", fmt.Sprintf("booking %s: %v", id, err))
	}
	return updated, nil
}

// UpdateBooking applies a PUT body: status first, then payment status, then
// special requests. Fields equal to the stored value are skipped. The steps
// are not atomic; a failing step leaves earlier ones applied.
func (s *BookingService) UpdateBooking(ctx context.Context, id string, upd models.BookingUpdate) (models.Booking, error) {
	if err := validation.Struct(upd); err != nil {
		return models.Booking{}, err
	}

	current, err := s.Bookings.GetByID(id)
	if err != nil {
		return models.Booking{}, err
	}
	if upd.NumberOfPeople != nil && *upd.NumberOfPeople != current.NumberOfPeople {
		return models.Booking{}, apperrors.InvalidArgument("numberOfPeople is fixed once a booking is made")
	}

	if upd.Status != nil && *upd.Status != current.Status {
		if current, err = s.UpdateBookingStatus(ctx, id, *upd.Status); err != nil {
			return models.Booking{}, err
		}
	}
	if upd.PaymentStatus != nil && *upd.PaymentStatus != current.PaymentStatus {
		if current, err = s.UpdatePaymentStatus(ctx, id, *upd.PaymentStatus); err != nil {
			return models.Booking{}, err
		}
	}
	if upd.SpecialRequests != nil && *upd.SpecialRequests != current.SpecialRequests {
		unlock := s.locks.Lock(id)
		current, err = s.Bookings.Update(id, func(b *models.Booking) error {
			b.SpecialRequests = *upd.SpecialRequests
			return nil
		})
		unlock()
		if err != nil {
			return models.Booking{}, err
		}
	}
	return current, nil
}

// ---------------- QUERIES ----------------

func (s *BookingService) GetBooking(id string) (models.Booking, error) {
	return s.Bookings.GetByID(id)
}

func (s *BookingService) ListBookings() []models.Booking {
	return collect(s.Bookings.Query(nil))
}

func (s *BookingService) GetBookingsByCustomer(customerID string) []models.Booking {
	return collect(s.Bookings.Query(func(b models.Booking) bool { return b.CustomerID == customerID }))
}

func (s *BookingService) GetBookingsByTour(tourID string) []models.Booking {
	return collect(s.Bookings.Query(func(b models.Booking) bool { return b.TourID == tourID }))
}

func collect(seq iter.Seq[models.Booking]) []models.Booking {
	return slices.AppendSeq(make([]models.Booking, 0), seq)
}

func totalAmount(price float64, people int) float64 {
	return decimal.NewFromFloat(price).
		Mul(decimal.NewFromInt(int64(people))).
		InexactFloat64()
}

func transitionError(id string, from, to models.BookingStatus) error {
	return fmt.Errorf("booking %s: %s -> %s: %w", id, from, to, apperrors.ErrInvalidTransition)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInsufficientInventory):
		return "insufficient_inventory"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "error"
	}
}
