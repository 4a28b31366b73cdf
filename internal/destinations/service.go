package destinations

import (
	"slices"

	"tour-booking/internal/models"
	"tour-booking/internal/store"
	"tour-booking/internal/validation"
)

type Service struct {
	Destinations *store.Collection[models.Destination]
}

func NewService(destinations *store.Collection[models.Destination]) *Service {
	return &Service{Destinations: destinations}
}

func (s *Service) CreateDestination(req models.DestinationRequest) (models.Destination, error) {
	if err := validation.Struct(req); err != nil {
		return models.Destination{}, err
	}

	highlights := req.Highlights
	if highlights == nil {
		highlights = []string{}
	}
	return s.Destinations.Create(models.Destination{
		Name:            req.Name,
		Country:         req.Country,
		Description:     req.Description,
		Highlights:      highlights,
		BestTimeToVisit: req.BestTimeToVisit,
		LocalCuisine:    req.LocalCuisine,
		Image:           req.Image,
	})
}

func (s *Service) GetDestination(id string) (models.Destination, error) {
	return s.Destinations.GetByID(id)
}

func (s *Service) ListDestinations() []models.Destination {
	return slices.AppendSeq(make([]models.Destination, 0), s.Destinations.Query(nil))
}
