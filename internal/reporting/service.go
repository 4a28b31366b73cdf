package reporting

import (
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"tour-booking/internal/apperrors"
	"tour-booking/internal/models"
)

// DefaultPopularLimit applies when popularTours is asked for a non-positive
// number of tours.
const DefaultPopularLimit = 5

const dateOnly = "2006-01-02"

type TourReader interface {
	GetByID(id string) (models.Tour, error)
}

type BookingSource interface {
	Query(match func(models.Booking) bool) iter.Seq[models.Booking]
}

// Service computes read-only views over bookings. It keeps no state of its
// own.
type Service struct {
	Tours    TourReader
	Bookings BookingSource
}

func NewService(tours TourReader, bookings BookingSource) *Service {
	return &Service{Tours: tours, Bookings: bookings}
}

// StatisticsInRange summarises bookings whose booking date lies in
// [start, end]. Both bounds accept RFC3339 or YYYY-MM-DD; a date-only end
// covers that whole day. Cancelled bookings are counted like any other.
func (s *Service) StatisticsInRange(start, end string) (models.BookingStatistics, error) {
	from, err := ParseDate(start, false)
	if err != nil {
		return models.BookingStatistics{}, err
	}
	to, err := ParseDate(end, true)
	if err != nil {
		return models.BookingStatistics{}, err
	}
	if from.After(to) {
		return models.BookingStatistics{}, apperrors.InvalidArgument("startDate %s is after endDate %s", start, end)
	}

	inRange := slices.Collect(s.Bookings.Query(func(b models.Booking) bool {
		return !b.BookingDate.Before(from) && !b.BookingDate.After(to)
	}))

	revenue := decimal.Zero
	for _, b := range inRange {
		revenue = revenue.Add(decimal.NewFromFloat(b.TotalAmount))
	}

	byTour := lo.MapValues(lo.GroupBy(inRange, func(b models.Booking) string { return b.TourID }),
		func(group []models.Booking, _ string) int { return len(group) })

	return models.BookingStatistics{
		StartDate:      from,
		EndDate:        to,
		TotalBookings:  len(inRange),
		TotalRevenue:   revenue.Round(2).InexactFloat64(),
		BookingsByTour: byTour,
	}, nil
}

// PopularTours ranks tours by their number of bookings over the whole
// booking history, most booked first. Ties keep the order in which each
// tour was first booked. Tours deleted since they were booked are skipped.
func (s *Service) PopularTours(limit int) []models.PopularTour {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}

	bookings := slices.Collect(s.Bookings.Query(nil))
	counts := lo.GroupBy(bookings, func(b models.Booking) string { return b.TourID })
	ranked := lo.Uniq(lo.Map(bookings, func(b models.Booking, _ int) string { return b.TourID }))
	slices.SortStableFunc(ranked, func(a, b string) int {
		return len(counts[b]) - len(counts[a])
	})

	popular := make([]models.PopularTour, 0, limit)
	for _, tourID := range ranked {
		if len(popular) == limit {
			break
		}
		tour, err := s.Tours.GetByID(tourID)
		if err != nil {
			continue
		}
		popular = append(popular, models.PopularTour{Tour: tour, BookingCount: len(counts[tourID])})
	}
	return popular
}

// ParseDate accepts RFC3339 timestamps or plain dates. A plain date resolves
// to the start of the day, or to its last instant when endOfDay is set.
func ParseDate(value string, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, apperrors.InvalidArgument("date is required")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateOnly, value)
	if err != nil {
		return time.Time{}, apperrors.InvalidArgument("malformed date %q, want YYYY-MM-DD or RFC3339", value)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
