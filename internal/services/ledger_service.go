// Package services orchestrates the ledger engine, entity CRUD and event
// publication.
package services

import (
	"context"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
)

// LedgerService wraps the posting engine and publishes an event after each
// committed operation. Publishing is best effort: a publish failure is logged
// and never fails the request.
type LedgerService struct {
	engine    *ledger.Engine
	publisher events.Publisher
}

func NewLedgerService(engine *ledger.Engine, publisher events.Publisher) *LedgerService {
	return &LedgerService{
		engine:    engine,
		publisher: publisher,
	}
}

func (s *LedgerService) Post(ctx context.Context, data core.TransactionData) (core.Transaction, error) {
	posted, err := s.engine.Post(ctx, data)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publishEvent(ctx, events.TypeTransactionPosted, posted)
	return posted, nil
}

func (s *LedgerService) Amend(ctx context.Context, id int64, data core.TransactionData) (core.Transaction, error) {
	amended, err := s.engine.Amend(ctx, id, data)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publishEvent(ctx, events.TypeTransactionAmended, amended)
	return amended, nil
}

func (s *LedgerService) Void(ctx context.Context, id int64) error {
	voided, err := s.engine.Void(ctx, id)
	if err != nil {
		return err
	}
	s.publishEvent(ctx, events.TypeTransactionVoided, voided)
	return nil
}

func (s *LedgerService) publishEvent(ctx context.Context, eventType string, t core.Transaction) {
	if s.publisher == nil {
		return
	}
	e := events.NewTransactionEvent(eventType, t)
	if err := s.publisher.Publish(ctx, e); err != nil {
		slog.ErrorContext(ctx, "failed to publish ledger event",
			applog.FieldError, err,
			applog.FieldEventType, eventType,
			applog.FieldTransactionID, t.ID)
		// Don't fail the request, the ledger change is committed.
	}
}

func (s *LedgerService) Close() error {
	if s.publisher != nil {
		return s.publisher.Close()
	}
	return nil
}
