package store

import "tour-booking/internal/models"

// Store groups the collections backing the booking service. It is created
// once at process start and handed to whichever component needs it; tests
// build a fresh one per case.
type Store struct {
	Tours        *Collection[models.Tour]
	Bookings     *Collection[models.Booking]
	Customers    *Collection[models.Customer]
	Reviews      *Collection[models.Review]
	Destinations *Collection[models.Destination]
}

func New() *Store {
	return &Store{
		Tours: NewCollection("tour", "T", func(t *models.Tour) *models.Entity {
			return &t.Entity
		}).WithClone(models.Tour.Clone),
		Bookings: NewCollection("booking", "B", func(b *models.Booking) *models.Entity {
			return &b.Entity
		}),
		Customers: NewCollection("customer", "C", func(c *models.Customer) *models.Entity {
			return &c.Entity
		}),
		Reviews: NewCollection("review", "R", func(r *models.Review) *models.Entity {
			return &r.Entity
		}),
		Destinations: NewCollection("destination", "D", func(d *models.Destination) *models.Entity {
			return &d.Entity
		}).WithClone(models.Destination.Clone),
	}
}
