package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"tour-booking/internal/logger"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer reads booking events back off the booking topics.
type Consumer struct {
	reader messageReader
	logger *logger.Logger
}

// NewConsumer creates a consumer for the given topics within groupID.
func NewConsumer(brokers, topics []string, groupID string, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupTopics: topics,
		GroupID:     groupID,
		MinBytes:    10e3, // 10KB
		MaxBytes:    10e6, // 10MB
	})
	return &Consumer{reader: reader, logger: log}
}

// Start hands each decoded event to handler until ctx is cancelled.
// Undecodable messages are logged and skipped.
func (c *Consumer) Start(ctx context.Context, handler func(BookingEvent)) error {
	c.logger.Info("KAFKA", "Booking event consumer started")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}

		var event BookingEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.LogKafka("DECODE_FAILED", msg.Topic, fmt.Sprintf("offset %d: %v", msg.Offset, err))
			continue
		}
		handler(event)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
