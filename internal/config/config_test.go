package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "tours.booking.created", cfg.Kafka.Topics.BookingCreated)
	assert.Equal(t, "admin", cfg.Auth.AdminRole)
	assert.Empty(t, cfg.Redis.Addr)
	assert.True(t, cfg.Voucher.UsesDefaultSecret())
}

func TestVoucherSecretOverride(t *testing.T) {
	t.Setenv("VOUCHER_SECRET", "a-real-secret")

	assert.False(t, Load().Voucher.UsesDefaultSecret())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("IDEMPOTENCY_TTL", "90m")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 90*time.Minute, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns, "malformed values fall back to the default")
}
