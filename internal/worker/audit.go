package worker

import (
	"context"
	"log/slog"
	"time"

	applog "fintrack/internal/log"
	"fintrack/internal/storage"
)

// Auditor periodically recomputes every account's transaction sum and
// compares it with the materialized balance. A mismatch means the posting
// discipline was bypassed somewhere and is logged as an error.
type Auditor struct {
	store    storage.Store
	interval time.Duration
}

func NewAuditor(store storage.Store, interval time.Duration) *Auditor {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Auditor{store: store, interval: interval}
}

// Run audits on a ticker until the context is cancelled. One pass runs
// immediately on start.
func (a *Auditor) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	if _, err := a.auditOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "balance audit pass failed", applog.FieldError, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := a.auditOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "balance audit pass failed", applog.FieldError, err)
			}
		}
	}
}

func (a *Auditor) auditOnce(ctx context.Context) (int, error) {
	var mismatches int
	err := a.store.WithinTx(ctx, func(tx storage.Tx) error {
		accounts, err := tx.ListAccounts(ctx)
		if err != nil {
			return err
		}
		for _, account := range accounts {
			sum, err := tx.SumAccountTransactions(ctx, account.ID)
			if err != nil {
				return err
			}
			if sum != account.Balance.Cents {
				mismatches++
				slog.ErrorContext(ctx, "account balance drifted from transaction sum",
					applog.FieldAccountID, account.ID,
					applog.FieldBalanceCents, account.Balance.Cents,
					"transaction_sum_cents", sum)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.DebugContext(ctx, "balance audit pass complete", "mismatches", mismatches)
	return mismatches, nil
}
