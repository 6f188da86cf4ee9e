package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/events"
	"fintrack/internal/storage"
)

// Worker couples the budget monitor to the event stream and runs the balance
// audit beside it.
type Worker struct {
	monitor  *BudgetMonitor
	auditor  *Auditor
	consumer events.Consumer
}

func New(store storage.Store, consumer events.Consumer, sink AlertSink, auditInterval time.Duration) *Worker {
	return &Worker{
		monitor:  NewBudgetMonitor(store, sink),
		auditor:  NewAuditor(store, auditInterval),
		consumer: consumer,
	}
}

// Run blocks until the context is cancelled or a loop fails. With no
// consumer configured only the audit loop runs.
func (w *Worker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.auditor.Run(ctx)
	})

	if w.consumer != nil {
		g.Go(func() error {
			return w.consumer.Consume(ctx, w.monitor.HandleEvent)
		})
	} else {
		slog.InfoContext(ctx, "no event consumer configured, running audit only")
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
