package models

import (
	"time"

	"github.com/uptrace/bun"
)

type LedgerReason string

const (
	LedgerReserve  LedgerReason = "reserve"
	LedgerRelease  LedgerReason = "release"
	LedgerRollback LedgerReason = "rollback"
	LedgerResize   LedgerReason = "resize"
)

// LedgerEntry records one movement of a tour's seat inventory. Delta is
// negative when seats leave the pool.
type LedgerEntry struct {
	bun.BaseModel `bun:"table:ledger_entries"`

	ID             int64        `bun:"id,pk,autoincrement" json:"id"`
	TourID         string       `bun:"tour_id,notnull" json:"tourId"`
	BookingID      string       `bun:"booking_id,nullzero" json:"bookingId,omitempty"`
	Delta          int          `bun:"delta,notnull" json:"delta"`
	Reason         LedgerReason `bun:"reason,notnull" json:"reason"`
	AvailableAfter int          `bun:"available_after,notnull" json:"availableAfter"`
	CreatedAt      time.Time    `bun:"created_at,notnull" json:"createdAt"`
}
