package models

import "slices"

type Destination struct {
	Entity
	Name            string   `json:"name"`
	Country         string   `json:"country"`
	Description     string   `json:"description,omitempty"`
	Highlights      []string `json:"highlights"`
	BestTimeToVisit string   `json:"bestTimeToVisit,omitempty"`
	LocalCuisine    string   `json:"localCuisine,omitempty"`
	Image           string   `json:"image,omitempty"`
}

func (d Destination) Clone() Destination {
	d.Highlights = slices.Clone(d.Highlights)
	return d
}

type DestinationRequest struct {
	Name            string   `json:"name" validate:"required"`
	Country         string   `json:"country" validate:"required"`
	Description     string   `json:"description"`
	Highlights      []string `json:"highlights"`
	BestTimeToVisit string   `json:"bestTimeToVisit"`
	LocalCuisine    string   `json:"localCuisine"`
	Image           string   `json:"image" validate:"omitempty,url"`
}
