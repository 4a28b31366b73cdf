package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"

	"tour-booking/internal/booking"
	"tour-booking/internal/config"
	"tour-booking/internal/database/migrations"
	"tour-booking/internal/idempotency"
	"tour-booking/internal/kafka"
	"tour-booking/internal/ledger"
	"tour-booking/internal/logger"
	"tour-booking/internal/sse"
	"tour-booking/internal/store"
	"tour-booking/internal/voucher"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Dir, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if envErr != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}
	log.Info("APP", "Starting Tour Booking service initialization")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bunDB, err := ledger.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()
	if err := prepareSchema(ctx, cfg.Database, bunDB, log); err != nil {
		log.Fatal("DATABASE", err.Error())
	}

	idem, closeIdem := setupIdempotency(ctx, cfg.Redis, log)
	defer closeIdem()

	events, closeEvents := setupEvents(cfg.Kafka, log)
	defer closeEvents()

	vouchers, err := voucher.NewGenerator(cfg.Voucher.Secret)
	if err != nil {
		log.Fatal("CONFIG", fmt.Sprintf("Invalid voucher secret: %v", err))
	}
	warnInsecureDefaults(cfg, log)

	app := &application{
		Config:      cfg,
		Logger:      log,
		Store:       store.New(),
		Ledger:      &ledger.DB{Bun: bunDB},
		Idempotency: idem,
		Events:      events,
		Activity:    sse.NewBookingEventEmitter(),
		Vouchers:    vouchers,
	}

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      app.routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP", fmt.Sprintf("Tour Booking service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server stopped with error: %v", err))
		return
	}
	log.Info("HTTP", "Tour Booking service shutdown complete")
}

func warnInsecureDefaults(cfg *config.Config, log *logger.Logger) {
	if cfg.Auth.JWTSecret == "" {
		log.Warn("AUTH", "ADMIN_JWT_SECRET not set, admin routes are unprotected")
	}
	if cfg.Voucher.UsesDefaultSecret() {
		log.Warn("SECURITY", "VOUCHER_SECRET uses the built-in default, vouchers can be forged")
	}
}

// prepareSchema runs versioned migrations against Postgres and creates the
// table directly on SQLite.
func prepareSchema(ctx context.Context, cfg config.DatabaseConfig, bunDB *bun.DB, log *logger.Logger) error {
	if !cfg.AutoMigrate {
		log.Info("DATABASE", "Automatic migrations disabled")
		return nil
	}
	if cfg.Driver != "postgres" {
		return (&ledger.DB{Bun: bunDB}).CreateSchema(ctx)
	}

	runner := migrations.NewRunner(bunDB, log)
	if err := runner.MigrateUp(); err != nil {
		return err
	}
	log.Info("DATABASE", "Migrations applied")
	return nil
}

func setupIdempotency(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (idempotency.Store, func()) {
	if cfg.Addr == "" {
		log.Info("REDIS", "REDIS_ADDR not set, keeping idempotency keys in memory")
		return idempotency.NewMemory(cfg.IdempotencyTTL), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("REDIS", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("REDIS", fmt.Sprintf("Redis connection successful to %s (DB: %d)", cfg.Addr, cfg.DB))

	return idempotency.NewRedis(client, cfg.IdempotencyTTL), func() { _ = client.Close() }
}

func setupEvents(cfg config.KafkaConfig, log *logger.Logger) (booking.EventPublisher, func()) {
	if !cfg.Enabled {
		log.Info("KAFKA", "Kafka disabled, booking events are not published")
		return booking.NopPublisher{}, func() {}
	}

	if err := kafka.EnsureTopicsExist(cfg.Brokers, kafka.Topics(cfg.Topics), log); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	} else {
		log.Info("KAFKA", "Required topics ensured successfully")
	}

	producer := kafka.NewProducer(cfg.Brokers, cfg.Topics, log)
	log.Info("KAFKA", "Kafka producer initialized successfully")
	return producer, func() {
		if err := producer.Close(); err != nil {
			log.Error("KAFKA", fmt.Sprintf("Failed to close producer: %v", err))
		}
	}
}
