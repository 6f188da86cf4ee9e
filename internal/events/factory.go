package events

import (
	"fmt"
	"strings"
)

// Config selects the event transport. Backend "none" (or empty) disables the
// stream entirely.
type Config struct {
	Backend string

	// AMQP specific
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Kafka specific
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string
}

// NewPublisher builds the configured publisher. A nil publisher with a nil
// error means events are disabled.
func NewPublisher(cfg Config) (Publisher, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "none":
		return nil, nil
	case "amqp":
		return NewAMQPClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	case "kafka":
		return NewKafkaClient(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID), nil
	default:
		return nil, fmt.Errorf("unsupported events backend: %s", cfg.Backend)
	}
}

// NewConsumer builds the configured consumer, mirroring NewPublisher.
func NewConsumer(cfg Config) (Consumer, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "none":
		return nil, nil
	case "amqp":
		return NewAMQPClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	case "kafka":
		return NewKafkaClient(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID), nil
	default:
		return nil, fmt.Errorf("unsupported events backend: %s", cfg.Backend)
	}
}
