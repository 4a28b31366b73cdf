package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"tour-booking/internal/config"
	"tour-booking/internal/logger"
)

const retryDelay = 2 * time.Second

// Open connects to the ledger database described by cfg, retrying the
// initial ping up to cfg.ConnectRetries times.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	driverName, err := sqlDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}

	retries := cfg.ConnectRetries
	if retries < 1 {
		retries = 1
	}

	var sqldb *sql.DB
	for i := 0; i < retries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Connecting to %s ledger (attempt %d/%d)", cfg.Driver, i+1, retries))
		sqldb, err = sql.Open(driverName, cfg.DSN)
		if err == nil {
			err = sqldb.PingContext(ctx)
			if err == nil {
				break
			}
			_ = sqldb.Close()
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to %s: %v", cfg.Driver, err))
		if i < retries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s after %d attempts: %w", cfg.Driver, retries, err)
	}

	if cfg.Driver == "sqlite" {
		// sqlite allows a single writer
		sqldb.SetMaxOpenConns(1)
		log.Info("DATABASE", "SQLite ledger connection successful")
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)
	log.Info("DATABASE", "PostgreSQL ledger connection successful")
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

func sqlDriver(name string) (string, error) {
	switch name {
	case "sqlite":
		return sqliteshim.ShimName, nil
	case "postgres":
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported ledger driver %q", name)
	}
}
