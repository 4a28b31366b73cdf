// Command booking-events tails the booking topics and prints one line per
// event.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tour-booking/internal/config"
	"tour-booking/internal/kafka"
	"tour-booking/internal/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	group := flag.String("group", "booking-events-tail", "consumer group id")
	flag.Parse()

	log, err := logger.NewLogger(cfg.Log.Dir, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, kafka.Topics(cfg.Kafka.Topics), *group, log)
	defer consumer.Close()

	err = consumer.Start(ctx, func(e kafka.BookingEvent) {
		b := e.Booking
		fmt.Printf("%s %-18s booking=%s tour=%s people=%d status=%s payment=%s\n",
			e.OccurredAt.Format("2006-01-02T15:04:05Z07:00"), e.Type, b.ID, b.TourID, b.NumberOfPeople, b.Status, b.PaymentStatus)
	})
	if err != nil {
		log.Error("KAFKA", err.Error())
	}
}
