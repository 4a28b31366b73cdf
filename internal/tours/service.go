package tours

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/samber/lo"

	"tour-booking/internal/apperrors"
	"tour-booking/internal/logger"
	"tour-booking/internal/models"
	"tour-booking/internal/validation"
)

type TourStore interface {
	Create(tour models.Tour) (models.Tour, error)
	GetByID(id string) (models.Tour, error)
	Update(id string, apply func(*models.Tour) error) (models.Tour, error)
	Delete(id string) bool
	Query(match func(models.Tour) bool) iter.Seq[models.Tour]
}

// Resizer changes a tour's capacity without losing seats held by bookings.
type Resizer interface {
	Resize(ctx context.Context, tourID string, capacity int) (models.Tour, error)
}

type Service struct {
	Tours     TourStore
	Inventory Resizer
	Logger    *logger.Logger
}

func NewService(tours TourStore, inventory Resizer, log *logger.Logger) *Service {
	return &Service{Tours: tours, Inventory: inventory, Logger: log}
}

// CreateTour stores a new tour. The requested availableSeats becomes its
// capacity. Status defaults to active.
func (s *Service) CreateTour(req models.TourRequest) (models.Tour, error) {
	if err := validation.Struct(req); err != nil {
		return models.Tour{}, err
	}

	status := req.Status
	if status == "" {
		status = models.TourActive
	}

	tour := models.Tour{
		Name:             req.Name,
		DeparturePoint:   req.DeparturePoint,
		Destination:      req.Destination,
		Itinerary:        orEmpty(req.Itinerary),
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Transportation:   req.Transportation,
		Price:            *req.Price,
		Capacity:         req.AvailableSeats,
		AvailableSeats:   req.AvailableSeats,
		IncludedServices: orEmpty(req.IncludedServices),
		ExcludedServices: orEmpty(req.ExcludedServices),
		Description:      req.Description,
		Images:           orEmpty(req.Images),
		Status:           status,
	}
	tour.SyncSoldOut()

	tour, err := s.Tours.Create(tour)
	if err != nil {
		return models.Tour{}, err
	}

	s.Logger.Info("TOURS", fmt.Sprintf("Tour %s created with %d seats", tour.ID, tour.Capacity))
	return tour, nil
}

func (s *Service) GetTour(id string) (models.Tour, error) {
	return s.Tours.GetByID(id)
}

// ListTours applies the catalog filters. The price range only applies when
// both bounds are given; featured keeps active tours.
func (s *Service) ListTours(filter models.TourFilter) []models.Tour {
	tours := slices.Collect(s.Tours.Query(nil))

	return lo.Filter(tours, func(t models.Tour, _ int) bool {
		if filter.Destination != "" && !strings.EqualFold(t.Destination, filter.Destination) {
			return false
		}
		if filter.Status != "" && t.Status != filter.Status {
			return false
		}
		if filter.MinPrice != nil && filter.MaxPrice != nil &&
			(t.Price < *filter.MinPrice || t.Price > *filter.MaxPrice) {
			return false
		}
		if filter.Featured && t.Status != models.TourActive {
			return false
		}
		return true
	})
}

// UpdateTour merges the given fields into the tour. availableSeats cannot
// be written; a capacity change is routed through the inventory resize and
// applied before the other fields. A requested active or sold-out status is
// corrected to match the remaining seats.
func (s *Service) UpdateTour(ctx context.Context, id string, upd models.TourUpdate) (models.Tour, error) {
	if err := validation.Struct(upd); err != nil {
		return models.Tour{}, err
	}
	if upd.AvailableSeats != nil {
		return models.Tour{}, apperrors.InvalidArgument("availableSeats is managed by bookings; change capacity instead")
	}

	if _, err := s.Tours.GetByID(id); err != nil {
		return models.Tour{}, err
	}
	if upd.Capacity != nil {
		if _, err := s.Inventory.Resize(ctx, id, *upd.Capacity); err != nil {
			return models.Tour{}, err
		}
	}

	updated, err := s.Tours.Update(id, func(t *models.Tour) error {
		setIf(&t.Name, upd.Name)
		setIf(&t.DeparturePoint, upd.DeparturePoint)
		setIf(&t.Destination, upd.Destination)
		setIf(&t.StartDate, upd.StartDate)
		setIf(&t.EndDate, upd.EndDate)
		setIf(&t.Transportation, upd.Transportation)
		setIf(&t.Price, upd.Price)
		setIf(&t.Description, upd.Description)
		setIf(&t.Status, upd.Status)
		if upd.Itinerary != nil {
			t.Itinerary = upd.Itinerary
		}
		if upd.IncludedServices != nil {
			t.IncludedServices = upd.IncludedServices
		}
		if upd.ExcludedServices != nil {
			t.ExcludedServices = upd.ExcludedServices
		}
		if upd.Images != nil {
			t.Images = upd.Images
		}
		// status follows the seats held, whatever was requested
		t.SyncSoldOut()
		return nil
	})
	if err != nil {
		return models.Tour{}, err
	}

	s.Logger.Info("TOURS", fmt.Sprintf("Tour %s updated", id))
	return updated, nil
}

// DeleteTour removes the tour. Its bookings are left in place.
func (s *Service) DeleteTour(id string) error {
	if !s.Tours.Delete(id) {
		return apperrors.NotFound("tour", id)
	}
	s.Logger.Warn("TOURS", fmt.Sprintf("Tour %s deleted; existing bookings keep their reference", id))
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
