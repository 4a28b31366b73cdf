package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-booking/internal/apperrors"
	"tour-booking/internal/models"
	"tour-booking/internal/validation"
)

func TestStruct_BookingRequest(t *testing.T) {
	err := validation.Struct(models.BookingRequest{CustomerID: "C-1", TourID: "T-1", NumberOfPeople: 2})
	assert.NoError(t, err)

	err = validation.Struct(models.BookingRequest{TourID: "T-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "customerId is required")
	assert.Contains(t, err.Error(), "numberOfPeople is required")
}

func TestStruct_TourRequestPriceAndStatus(t *testing.T) {
	negative := -5.0
	err := validation.Struct(models.TourRequest{
		Name:        "Alps",
		Destination: "Zermatt",
		Price:       &negative,
		Status:      "archived",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price must be at least 0")
	assert.Contains(t, err.Error(), "status must be one of")

	err = validation.Struct(models.TourRequest{Name: "Alps", Destination: "Zermatt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price is required")

	zero := 0.0
	assert.NoError(t, validation.Struct(models.TourRequest{Name: "Free walk", Destination: "Lisbon", Price: &zero}))
}

func TestStruct_ReviewRatingBounds(t *testing.T) {
	err := validation.Struct(models.ReviewRequest{CustomerID: "C-1", TourID: "T-1", Rating: 6, Comment: "great"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rating must be at most 5")
}
