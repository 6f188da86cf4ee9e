package events

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/segmentio/kafka-go"

	applog "fintrack/internal/log"
)

// KafkaClient publishes and consumes ledger events on a single topic.
// Messages are keyed by transaction id so amendments to one transaction stay
// in order within a partition.
type KafkaClient struct {
	writer *kafka.Writer
	reader *kafka.Reader
}

func NewKafkaClient(brokers []string, topic, groupID string) *KafkaClient {
	return &KafkaClient{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   topic,
			GroupID: groupID,
		}),
	}
}

func (c *KafkaClient) Publish(ctx context.Context, e Event) error {
	body, err := e.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = c.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(e.Transaction.ID, 10)),
		Value: body,
	})
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	slog.InfoContext(ctx, "published ledger event",
		"event_id", e.ID,
		applog.FieldEventType, e.Type,
		applog.FieldTransactionID, e.Transaction.ID,
		"topic", c.writer.Topic)
	return nil
}

func (c *KafkaClient) Consume(ctx context.Context, handler Handler) error {
	slog.InfoContext(ctx, "started consuming ledger events", "topic", c.reader.Config().Topic)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		e, err := EventFromJSON(msg.Value)
		if err != nil {
			slog.ErrorContext(ctx, "failed to unmarshal event", applog.FieldError, err)
			// Undecodable messages are committed so they don't wedge the
			// partition.
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return fmt.Errorf("commit message: %w", err)
			}
			continue
		}

		if err := handler(ctx, e); err != nil {
			slog.ErrorContext(ctx, "failed to handle event",
				applog.FieldError, err,
				"event_id", e.ID,
				applog.FieldEventType, e.Type)
			// Not committed; the event is redelivered after restart.
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("commit message: %w", err)
		}
	}
}

func (c *KafkaClient) Close() error {
	werr := c.writer.Close()
	rerr := c.reader.Close()
	if werr != nil {
		return werr
	}
	return rerr
}

var (
	_ Publisher = (*KafkaClient)(nil)
	_ Consumer  = (*KafkaClient)(nil)
)
