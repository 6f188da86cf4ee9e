// Package events defines the ledger event stream: an envelope for
// posted/amended/voided notifications and publisher/consumer ports with AMQP
// and Kafka implementations.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

const (
	TypeTransactionPosted  = "transaction.posted"
	TypeTransactionAmended = "transaction.amended"
	TypeTransactionVoided  = "transaction.voided"
)

// TransactionPayload carries the transaction as it looked when the event was
// emitted. For voided events it is the deleted transaction.
type TransactionPayload struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	CategoryID  int64     `json:"category_id"`
	AccountID   *int64    `json:"account_id,omitempty"`
	AmountCents int64     `json:"amount_cents"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Event is the wire envelope.
type Event struct {
	ID          string             `json:"id"`
	Type        string             `json:"type"`
	OccurredAt  time.Time          `json:"occurred_at"`
	Transaction TransactionPayload `json:"transaction"`
}

// NewTransactionEvent builds an envelope of the given type around a
// transaction snapshot.
func NewTransactionEvent(eventType string, t core.Transaction) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Transaction: TransactionPayload{
			ID:          t.ID,
			UserID:      t.UserID,
			CategoryID:  t.CategoryID,
			AccountID:   t.AccountID,
			AmountCents: t.Amount.Cents,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
		},
	}
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EventFromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Publisher emits ledger events. Implementations must be safe for concurrent
// use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Handler processes one event; returning an error requeues it where the
// transport supports redelivery.
type Handler func(ctx context.Context, e Event) error

// Consumer delivers ledger events to a handler until the context is
// cancelled.
type Consumer interface {
	Consume(ctx context.Context, handler Handler) error
	Close() error
}
