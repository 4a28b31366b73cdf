package models

import "time"

type ReviewStatus string

const (
	ReviewPending   ReviewStatus = "pending"
	ReviewPublished ReviewStatus = "published"
	ReviewRejected  ReviewStatus = "rejected"
)

type Review struct {
	Entity
	CustomerID string       `json:"customerId"`
	TourID     string       `json:"tourId"`
	Rating     int          `json:"rating"`
	Comment    string       `json:"comment"`
	ReviewDate time.Time    `json:"reviewDate"`
	Status     ReviewStatus `json:"status"`
}

type ReviewRequest struct {
	CustomerID string `json:"customerId" validate:"required"`
	TourID     string `json:"tourId" validate:"required"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"required"`
}

type ReviewUpdate struct {
	Rating  *int          `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string       `json:"comment" validate:"omitempty,min=1"`
	Status  *ReviewStatus `json:"status" validate:"omitempty,oneof=pending published rejected"`
}
