package kafka

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/segmentio/kafka-go"

	"tour-booking/internal/config"
	"tour-booking/internal/logger"
)

// Topics lists every topic the service publishes to.
func Topics(cfg config.TopicConfig) []string {
	return []string{cfg.BookingCreated, cfg.BookingUpdated, cfg.BookingCancelled}
}

// EnsureTopicsExist creates Kafka topics if they don't already exist
func EnsureTopicsExist(brokers []string, topics []string, log *logger.Logger) error {
	if len(brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}

	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer controllerConn.Close()

	var failed []error
	for _, topic := range topics {
		err = controllerConn.CreateTopics(kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
		switch {
		case errors.Is(err, kafka.TopicAlreadyExists):
			log.LogKafka("TOPIC", topic, "already exists")
		case err != nil:
			log.LogKafka("TOPIC", topic, fmt.Sprintf("create failed: %v", err))
			failed = append(failed, fmt.Errorf("create topic %s: %w", topic, err))
		default:
			log.LogKafka("TOPIC", topic, "created")
		}
	}
	return errors.Join(failed...)
}
