package voucher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/skip2/go-qrcode"

	"tour-booking/internal/apperrors"
	"tour-booking/internal/models"
)

// Claims is the booking summary sealed inside a voucher.
type Claims struct {
	BookingID      string `json:"bookingId"`
	CustomerID     string `json:"customerId"`
	TourID         string `json:"tourId"`
	NumberOfPeople int    `json:"numberOfPeople"`
	Status         string `json:"status"`
}

type Generator struct {
	aead cipher.AEAD
}

func NewGenerator(secret string) (*Generator, error) {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	block, err := aes.NewCipher(hashed[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Generator{aead: aead}, nil
}

// Token seals the booking summary with AES-GCM and returns it URL-safe
// base64 encoded.
func (g *Generator) Token(b models.Booking) (string, error) {
	if b.Status == models.BookingCancelled {
		return "", apperrors.InvalidArgument("booking %s is cancelled and has no voucher", b.ID)
	}

	data, err := json.Marshal(Claims{
		BookingID:      b.ID,
		CustomerID:     b.CustomerID,
		TourID:         b.TourID,
		NumberOfPeople: b.NumberOfPeople,
		Status:         string(b.Status),
	})
	if err != nil {
		return "", err
	}

	nonce := make([]byte, g.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := g.aead.Seal(nonce, nonce, data, nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Decode opens a token produced by Token.
func (g *Generator) Decode(token string) (Claims, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Claims{}, apperrors.InvalidArgument("voucher is not valid base64")
	}
	if len(raw) < g.aead.NonceSize() {
		return Claims{}, apperrors.InvalidArgument("voucher is truncated")
	}

	nonce, sealed := raw[:g.aead.NonceSize()], raw[g.aead.NonceSize():]
	data, err := g.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return Claims{}, apperrors.InvalidArgument("voucher signature mismatch")
	}

	var claims Claims
	if err := json.Unmarshal(data, &claims); err != nil {
		return Claims{}, fmt.Errorf("decode voucher claims: %w", errors.Join(err, apperrors.ErrInvalidArgument))
	}
	return claims, nil
}

// Generate renders the booking's voucher token as a 256px PNG QR code.
func (g *Generator) Generate(b models.Booking) ([]byte, error) {
	token, err := g.Token(b)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(token, qrcode.Medium, 256)
}
