package idempotency

import (
	"context"
	"fmt"

	"tour-booking/internal/apperrors"
)

// Pending marks a key whose first request is still running.
const Pending = "__pending__"

// ErrInFlight is returned when a key is claimed by a request that has not
// finished yet.
var ErrInFlight = fmt.Errorf("request with this idempotency key is still in progress: %w", apperrors.ErrConflict)

// Store remembers which booking an Idempotency-Key produced.
//
// Claim either reserves key for the caller (claimed == true) or returns the
// booking id recorded by an earlier request. Complete records the result of
// a claimed key; Abandon releases a claim whose request failed so the client
// may retry.
type Store interface {
	Claim(ctx context.Context, key string) (bookingID string, claimed bool, err error)
	Complete(ctx context.Context, key, bookingID string) error
	Abandon(ctx context.Context, key string) error
}
