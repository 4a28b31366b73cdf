package ledger

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"tour-booking/internal/models"
)

// DB stores the append-only seat ledger.
type DB struct {
	Bun *bun.DB
}

// CreateSchema creates the ledger table when it is missing. Postgres
// deployments use the versioned migrations instead.
func (d *DB) CreateSchema(ctx context.Context) error {
	_, err := d.Bun.NewCreateTable().
		Model((*models.LedgerEntry)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create ledger_entries: %w", err)
	}
	_, err = d.Bun.NewCreateIndex().
		Model((*models.LedgerEntry)(nil)).
		Index("idx_ledger_entries_tour_id").
		Column("tour_id").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create ledger index: %w", err)
	}
	return nil
}

// Append → insert one movement; the generated id is written back to entry
func (d *DB) Append(ctx context.Context, entry *models.LedgerEntry) error {
	_, err := d.Bun.NewInsert().Model(entry).Exec(ctx)
	return err
}

// EntriesForTour → every movement of one tour, oldest first
func (d *DB) EntriesForTour(ctx context.Context, tourID string) ([]models.LedgerEntry, error) {
	entries := []models.LedgerEntry{}
	err := d.Bun.NewSelect().
		Model(&entries).
		Where("tour_id = ?", tourID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// EntriesForBooking → movements caused by one booking, oldest first
func (d *DB) EntriesForBooking(ctx context.Context, bookingID string) ([]models.LedgerEntry, error) {
	entries := []models.LedgerEntry{}
	err := d.Bun.NewSelect().
		Model(&entries).
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// NetMovement returns the sum of all deltas recorded for a tour. For a tour
// whose ledger is complete, capacity at creation plus NetMovement equals
// availableSeats.
func (d *DB) NetMovement(ctx context.Context, tourID string) (int, error) {
	var total int
	err := d.Bun.NewSelect().
		Model((*models.LedgerEntry)(nil)).
		ColumnExpr("COALESCE(SUM(delta), 0)").
		Where("tour_id = ?", tourID).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}
	return total, nil
}
