package reviews

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"tour-booking/internal/apperrors"
	"tour-booking/internal/logger"
	"tour-booking/internal/models"
	"tour-booking/internal/validation"
)

type ReviewStore interface {
	Create(review models.Review) (models.Review, error)
	GetByID(id string) (models.Review, error)
	Update(id string, apply func(*models.Review) error) (models.Review, error)
	Delete(id string) bool
	Query(match func(models.Review) bool) iter.Seq[models.Review]
}

type Service struct {
	Reviews ReviewStore
	Logger  *logger.Logger
	now     func() time.Time
}

func NewService(reviews ReviewStore, log *logger.Logger) *Service {
	return &Service{Reviews: reviews, Logger: log, now: time.Now}
}

// CreateReview stores a review awaiting moderation.
func (s *Service) CreateReview(req models.ReviewRequest) (models.Review, error) {
	if err := validation.Struct(req); err != nil {
		return models.Review{}, err
	}

	review, err := s.Reviews.Create(models.Review{
		CustomerID: req.CustomerID,
		TourID:     req.TourID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		ReviewDate: s.now().UTC(),
		Status:     models.ReviewPending,
	})
	if err != nil {
		return models.Review{}, err
	}
	s.Logger.Info("REVIEWS", fmt.Sprintf("Review %s submitted for tour %s", review.ID, review.TourID))
	return review, nil
}

func (s *Service) GetReview(id string) (models.Review, error) {
	return s.Reviews.GetByID(id)
}

func (s *Service) ReviewsByTour(tourID string) []models.Review {
	return s.collect(func(r models.Review) bool { return r.TourID == tourID })
}

func (s *Service) ReviewsByCustomer(customerID string) []models.Review {
	return s.collect(func(r models.Review) bool { return r.CustomerID == customerID })
}

func (s *Service) UpdateReview(id string, upd models.ReviewUpdate) (models.Review, error) {
	if err := validation.Struct(upd); err != nil {
		return models.Review{}, err
	}

	return s.Reviews.Update(id, func(r *models.Review) error {
		if upd.Rating != nil {
			r.Rating = *upd.Rating
		}
		if upd.Comment != nil {
			r.Comment = *upd.Comment
		}
		if upd.Status != nil {
			r.Status = *upd.Status
		}
		return nil
	})
}

func (s *Service) DeleteReview(id string) error {
	if !s.Reviews.Delete(id) {
		return apperrors.NotFound("review", id)
	}
	return nil
}

func (s *Service) collect(match func(models.Review) bool) []models.Review {
	return slices.AppendSeq(make([]models.Review, 0), s.Reviews.Query(match))
}
