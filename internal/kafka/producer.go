package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"tour-booking/internal/config"
	"tour-booking/internal/logger"
	"tour-booking/internal/models"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingUpdated   = "booking.updated"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is the message value published for every booking change.
type BookingEvent struct {
	Type       string         `json:"type"`
	Booking    models.Booking `json:"booking"`
	OccurredAt time.Time      `json:"occurredAt"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
	topics config.TopicConfig
	logger *logger.Logger
}

func NewProducer(brokers []string, topics config.TopicConfig, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
	return &Producer{writer: writer, topics: topics, logger: log}
}

// Publish writes one keyed JSON message to topic.
func (p *Producer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	msgBytes, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", topic, err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: msgBytes,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	p.logger.LogKafka("PUBLISH", topic, fmt.Sprintf("key=%s bytes=%d", key, len(msgBytes)))
	return nil
}

func (p *Producer) PublishBookingCreated(ctx context.Context, booking models.Booking) error {
	return p.publishBooking(ctx, p.topics.BookingCreated, EventBookingCreated, booking)
}

func (p *Producer) PublishBookingUpdated(ctx context.Context, booking models.Booking) error {
	return p.publishBooking(ctx, p.topics.BookingUpdated, EventBookingUpdated, booking)
}

func (p *Producer) PublishBookingCancelled(ctx context.Context, booking models.Booking) error {
	return p.publishBooking(ctx, p.topics.BookingCancelled, EventBookingCancelled, booking)
}

func (p *Producer) publishBooking(ctx context.Context, topic, eventType string, booking models.Booking) error {
	event := BookingEvent{
		Type:       eventType,
		Booking:    booking,
		OccurredAt: time.Now().UTC(),
	}
	// keyed by tour so one tour's events stay ordered within a partition
	return p.Publish(ctx, topic, booking.TourID, event)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
