// Package worker runs the background side of the ledger: budget alerts
// driven by the event stream and a periodic balance audit.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/export/sheets"
	applog "fintrack/internal/log"
	"fintrack/internal/storage"
)

// AlertSink receives budget alert rows. The Google Sheets client satisfies
// it; a nil sink means alerts are log-only.
type AlertSink interface {
	AppendAlert(ctx context.Context, row sheets.AlertRow) error
}

// BudgetMonitor recomputes a user's spend in a category whenever a
// transaction in it is posted or amended and raises an alert when the
// configured budget limit is exceeded.
type BudgetMonitor struct {
	store storage.Store
	sink  AlertSink
}

func NewBudgetMonitor(store storage.Store, sink AlertSink) *BudgetMonitor {
	return &BudgetMonitor{store: store, sink: sink}
}

// HandleEvent is the events.Handler for the monitor. Voided events are
// ignored: a void only lowers spend.
func (m *BudgetMonitor) HandleEvent(ctx context.Context, e events.Event) error {
	switch e.Type {
	case events.TypeTransactionPosted, events.TypeTransactionAmended:
	default:
		return nil
	}

	userID := e.Transaction.UserID
	categoryID := e.Transaction.CategoryID

	var (
		budget   core.Budget
		spent    int64
		enabled  bool
		user     core.User
		category core.Category
	)
	err := m.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		budget, err = tx.GetBudgetByUserCategory(ctx, userID, categoryID)
		if err != nil {
			return err
		}

		sum, err := tx.SumUserCategorySpend(ctx, userID, categoryID)
		if err != nil {
			return err
		}
		// Outflows are negative amounts; spend is their magnitude.
		if sum < 0 {
			spent = -sum
		}

		enabled, err = notificationsEnabled(ctx, tx, userID, categoryID)
		if err != nil {
			return err
		}

		user, err = tx.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		category, err = tx.GetCategory(ctx, categoryID)
		return err
	})
	if errors.Is(err, core.ErrNotFound) {
		// No budget for this user/category, or the entities vanished since
		// the event was emitted. Nothing to monitor.
		return nil
	}
	if err != nil {
		return fmt.Errorf("evaluate budget: %w", err)
	}

	if spent <= budget.Limit.Cents {
		return nil
	}
	if !enabled {
		slog.DebugContext(ctx, "budget exceeded but notifications disabled",
			applog.FieldUserID, userID,
			applog.FieldCategoryID, categoryID)
		return nil
	}

	slog.WarnContext(ctx, "budget exceeded",
		applog.FieldUserID, userID,
		"user", user.Username,
		applog.FieldCategoryID, categoryID,
		"category", category.Name,
		"spent_cents", spent,
		"limit_cents", budget.Limit.Cents)

	if m.sink == nil {
		return nil
	}
	row := sheets.AlertRow{
		OccurredAt: e.OccurredAt,
		Username:   user.Username,
		Category:   category.Name,
		SpentCents: spent,
		LimitCents: budget.Limit.Cents,
	}
	if err := m.sink.AppendAlert(ctx, row); err != nil {
		// The alert is already logged; a sink failure shouldn't requeue the
		// event forever.
		slog.ErrorContext(ctx, "failed to export budget alert", applog.FieldError, err)
	}
	return nil
}

// notificationsEnabled reads the user's preference for the category; a
// missing preference means notifications are on.
func notificationsEnabled(ctx context.Context, tx storage.Tx, userID, categoryID int64) (bool, error) {
	pref, err := tx.GetPreference(ctx, userID, categoryID)
	if errors.Is(err, core.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return pref.NotificationsEnabled, nil
}
