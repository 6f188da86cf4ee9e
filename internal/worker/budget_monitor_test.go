package worker

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/export/sheets"
	"fintrack/internal/ledger"
	"fintrack/internal/storage"
	"fintrack/internal/storage/memory"
)

type captureSink struct {
	rows []sheets.AlertRow
}

func (s *captureSink) AppendAlert(_ context.Context, row sheets.AlertRow) error {
	s.rows = append(s.rows, row)
	return nil
}

type monitorFixture struct {
	store    *memory.Store
	engine   *ledger.Engine
	sink     *captureSink
	monitor  *BudgetMonitor
	user     core.User
	category core.Category
}

func newMonitorFixture(t *testing.T, limitCents int64) *monitorFixture {
	t.Helper()

	store := memory.New()
	f := &monitorFixture{
		store:    store,
		engine:   ledger.New(store),
		sink:     &captureSink{},
		user:     core.User{Username: "pia", Email: "pia@example.com"},
		category: core.Category{Name: "dining"},
	}
	f.monitor = NewBudgetMonitor(store, f.sink)

	err := store.WithinTx(context.Background(), func(tx storage.Tx) error {
		if err := tx.CreateUser(context.Background(), &f.user); err != nil {
			return err
		}
		if err := tx.CreateCategory(context.Background(), &f.category); err != nil {
			return err
		}
		if limitCents >= 0 {
			budget := core.Budget{UserID: f.user.ID, CategoryID: f.category.ID, Limit: core.Money{Cents: limitCents}}
			return tx.CreateBudget(context.Background(), &budget)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return f
}

func (f *monitorFixture) post(t *testing.T, cents int64) core.Transaction {
	t.Helper()
	posted, err := f.engine.Post(context.Background(), core.TransactionData{
		UserID:     f.user.ID,
		CategoryID: f.category.ID,
		Amount:     core.Money{Cents: cents},
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	return posted
}

func (f *monitorFixture) setPreference(t *testing.T, enabled bool) {
	t.Helper()
	err := f.store.WithinTx(context.Background(), func(tx storage.Tx) error {
		return tx.CreatePreference(context.Background(), core.CategoryPreference{
			UserID:               f.user.ID,
			CategoryID:           f.category.ID,
			NotificationsEnabled: enabled,
		})
	})
	if err != nil {
		t.Fatalf("set preference: %v", err)
	}
}

func TestBudgetMonitorAlertsWhenExceeded(t *testing.T) {
	f := newMonitorFixture(t, 1000)
	posted := f.post(t, -1500)

	e := events.NewTransactionEvent(events.TypeTransactionPosted, posted)
	if err := f.monitor.HandleEvent(context.Background(), e); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	if len(f.sink.rows) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(f.sink.rows))
	}
	row := f.sink.rows[0]
	if row.SpentCents != 1500 || row.LimitCents != 1000 {
		t.Errorf("expected spent 1500 / limit 1000, got %d / %d", row.SpentCents, row.LimitCents)
	}
	if row.Username != "pia" || row.Category != "dining" {
		t.Errorf("unexpected alert row: %+v", row)
	}
}

func TestBudgetMonitorNoAlertUnderLimit(t *testing.T) {
	f := newMonitorFixture(t, 2000)
	posted := f.post(t, -1500)

	e := events.NewTransactionEvent(events.TypeTransactionPosted, posted)
	if err := f.monitor.HandleEvent(context.Background(), e); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(f.sink.rows) != 0 {
		t.Errorf("expected no alerts, got %d", len(f.sink.rows))
	}
}

func TestBudgetMonitorRespectsDisabledNotifications(t *testing.T) {
	f := newMonitorFixture(t, 1000)
	f.setPreference(t, false)
	posted := f.post(t, -1500)

	e := events.NewTransactionEvent(events.TypeTransactionPosted, posted)
	if err := f.monitor.HandleEvent(context.Background(), e); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(f.sink.rows) != 0 {
		t.Errorf("expected no alerts with notifications disabled, got %d", len(f.sink.rows))
	}
}

func TestBudgetMonitorNoBudgetNoError(t *testing.T) {
	f := newMonitorFixture(t, -1) // no budget seeded
	posted := f.post(t, -99999)

	e := events.NewTransactionEvent(events.TypeTransactionPosted, posted)
	if err := f.monitor.HandleEvent(context.Background(), e); err != nil {
		t.Fatalf("expected nil for missing budget, got %v", err)
	}
	if len(f.sink.rows) != 0 {
		t.Errorf("expected no alerts without a budget, got %d", len(f.sink.rows))
	}
}

func TestBudgetMonitorIgnoresVoidedEvents(t *testing.T) {
	f := newMonitorFixture(t, 1000)
	posted := f.post(t, -1500)

	e := events.NewTransactionEvent(events.TypeTransactionVoided, posted)
	if err := f.monitor.HandleEvent(context.Background(), e); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(f.sink.rows) != 0 {
		t.Errorf("expected voided events to be ignored, got %d alerts", len(f.sink.rows))
	}
}

func TestBudgetMonitorInflowsOffsetSpend(t *testing.T) {
	f := newMonitorFixture(t, 1000)
	f.post(t, -1500)
	posted := f.post(t, 600) // refund brings net spend back under the limit

	e := events.NewTransactionEvent(events.TypeTransactionPosted, posted)
	if err := f.monitor.HandleEvent(context.Background(), e); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(f.sink.rows) != 0 {
		t.Errorf("expected no alert at net spend 900 against limit 1000, got %d", len(f.sink.rows))
	}
}

func TestAuditorDetectsDrift(t *testing.T) {
	store := memory.New()
	engine := ledger.New(store)
	user := core.User{Username: "pia", Email: "pia@example.com"}
	category := core.Category{Name: "dining"}
	account := core.Account{Name: "checking"}

	err := store.WithinTx(context.Background(), func(tx storage.Tx) error {
		if err := tx.CreateUser(context.Background(), &user); err != nil {
			return err
		}
		if err := tx.CreateCategory(context.Background(), &category); err != nil {
			return err
		}
		account.UserID = user.ID
		return tx.CreateAccount(context.Background(), &account)
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := engine.Post(context.Background(), core.TransactionData{
		UserID:     user.ID,
		CategoryID: category.ID,
		AccountID:  &account.ID,
		Amount:     core.Money{Cents: -500},
	}); err != nil {
		t.Fatalf("post: %v", err)
	}

	auditor := NewAuditor(store, time.Minute)
	mismatches, err := auditor.auditOnce(context.Background())
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if mismatches != 0 {
		t.Fatalf("expected no drift on a clean ledger, got %d", mismatches)
	}

	// Skew the balance behind the engine's back.
	err = store.WithinTx(context.Background(), func(tx storage.Tx) error {
		return tx.AdjustAccountBalance(context.Background(), account.ID, 123)
	})
	if err != nil {
		t.Fatalf("skew balance: %v", err)
	}

	mismatches, err = auditor.auditOnce(context.Background())
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if mismatches != 1 {
		t.Errorf("expected 1 drifted account, got %d", mismatches)
	}
}
