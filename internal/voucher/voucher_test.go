package voucher

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-booking/internal/apperrors"
	"tour-booking/internal/models"
)

func testBooking(status models.BookingStatus) models.Booking {
	return models.Booking{
		Entity:         models.Entity{ID: "B-1"},
		CustomerID:     "C-1",
		TourID:         "T-1",
		NumberOfPeople: 3,
		Status:         status,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	g, err := NewGenerator("secret")
	require.NoError(t, err)

	token, err := g.Token(testBooking(models.BookingConfirmed))
	require.NoError(t, err)

	claims, err := g.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, Claims{BookingID: "B-1", CustomerID: "C-1", TourID: "T-1", NumberOfPeople: 3, Status: "confirmed"}, claims)

	other, err := g.Token(testBooking(models.BookingConfirmed))
	require.NoError(t, err)
	assert.NotEqual(t, token, other, "every token uses a fresh nonce")
}

func TestDecode_RejectsForeignAndMalformedTokens(t *testing.T) {
	g, _ := NewGenerator("secret")
	other, _ := NewGenerator("another-secret")

	token, err := other.Token(testBooking(models.BookingPending))
	require.NoError(t, err)

	for _, bad := range []string{token, "!!!", "AAAA"} {
		_, err := g.Decode(bad)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument, "token %q", bad)
	}
}

func TestGenerate_PNG(t *testing.T) {
	g, _ := NewGenerator("secret")

	img, err := g.Generate(testBooking(models.BookingPending))
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, 256, decoded.Bounds().Dx())
}

func TestGenerate_CancelledBooking(t *testing.T) {
	g, _ := NewGenerator("secret")

	_, err := g.Generate(testBooking(models.BookingCancelled))
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}
