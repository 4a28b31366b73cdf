package ledger_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"

	"tour-booking/internal/config"
	"tour-booking/internal/ledger"
	"tour-booking/internal/logger"
	"tour-booking/internal/models"
)

func setupTestDB(t *testing.T) *ledger.DB {
	t.Helper()
	sqldb, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = bunDB.Close() })

	db := &ledger.DB{Bun: bunDB}
	require.NoError(t, db.CreateSchema(context.Background()))
	return db
}

func entry(tourID, bookingID string, delta int, reason models.LedgerReason, after int) *models.LedgerEntry {
	return &models.LedgerEntry{
		TourID:         tourID,
		BookingID:      bookingID,
		Delta:          delta,
		Reason:         reason,
		AvailableAfter: after,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestAppendAndEntriesForTour(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := entry("T-1", "B-1", -3, models.LedgerReserve, 7)
	require.NoError(t, db.Append(ctx, first))
	assert.NotZero(t, first.ID)

	require.NoError(t, db.Append(ctx, entry("T-2", "B-2", -1, models.LedgerReserve, 4)))
	require.NoError(t, db.Append(ctx, entry("T-1", "B-1", 3, models.LedgerRelease, 10)))

	entries, err := db.EntriesForTour(ctx, "T-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.LedgerReserve, entries[0].Reason)
	assert.Equal(t, models.LedgerRelease, entries[1].Reason)
	assert.Equal(t, 10, entries[1].AvailableAfter)
}

func TestEntriesForBooking_SkipsResize(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Append(ctx, entry("T-1", "B-1", -2, models.LedgerReserve, 8)))
	require.NoError(t, db.Append(ctx, entry("T-1", "", 5, models.LedgerResize, 13)))

	entries, err := db.EntriesForBooking(ctx, "B-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, -2, entries[0].Delta)

	all, err := db.EntriesForTour(ctx, "T-1")
	require.NoError(t, err)
	assert.Empty(t, all[1].BookingID)
}

func TestNetMovement(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	total, err := db.NetMovement(ctx, "T-empty")
	require.NoError(t, err)
	assert.Zero(t, total)

	require.NoError(t, db.Append(ctx, entry("T-1", "B-1", -4, models.LedgerReserve, 6)))
	require.NoError(t, db.Append(ctx, entry("T-1", "B-2", -2, models.LedgerReserve, 4)))
	require.NoError(t, db.Append(ctx, entry("T-1", "B-1", 4, models.LedgerRelease, 8)))

	total, err = db.NetMovement(ctx, "T-1")
	require.NoError(t, err)
	assert.Equal(t, -2, total)
}

func TestOpen_SQLiteAndUnsupportedDriver(t *testing.T) {
	ctx := context.Background()

	bunDB, err := ledger.Open(ctx, config.DatabaseConfig{Driver: "sqlite", DSN: "file::memory:", ConnectRetries: 1}, logger.Discard())
	require.NoError(t, err)
	defer bunDB.Close()

	db := &ledger.DB{Bun: bunDB}
	require.NoError(t, db.CreateSchema(ctx))
	require.NoError(t, db.CreateSchema(ctx), "schema creation is repeatable")

	_, err = ledger.Open(ctx, config.DatabaseConfig{Driver: "oracle"}, logger.Discard())
	assert.ErrorContains(t, err, "unsupported ledger driver")
}
