package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
	"fintrack/internal/storage/memory"
)

type fixture struct {
	store    *memory.Store
	engine   *Engine
	user     core.User
	category core.Category
	accountA core.Account
	accountB core.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	f := &fixture{
		store:    store,
		engine:   New(store),
		user:     core.User{Username: "mario", Email: "mario@example.com"},
		category: core.Category{Name: "groceries"},
		accountA: core.Account{Name: "checking"},
		accountB: core.Account{Name: "savings"},
	}

	err := store.WithinTx(context.Background(), func(tx storage.Tx) error {
		if err := tx.CreateUser(context.Background(), &f.user); err != nil {
			return err
		}
		if err := tx.CreateCategory(context.Background(), &f.category); err != nil {
			return err
		}
		f.accountA.UserID = f.user.ID
		f.accountB.UserID = f.user.ID
		if err := tx.CreateAccount(context.Background(), &f.accountA); err != nil {
			return err
		}
		return tx.CreateAccount(context.Background(), &f.accountB)
	})
	if err != nil {
		t.Fatalf("seed fixture: %v", err)
	}
	return f
}

func (f *fixture) balance(t *testing.T, accountID int64) int64 {
	t.Helper()
	var cents int64
	err := f.store.WithinTx(context.Background(), func(tx storage.Tx) error {
		a, err := tx.GetAccount(context.Background(), accountID)
		if err != nil {
			return err
		}
		cents = a.Balance.Cents
		return nil
	})
	if err != nil {
		t.Fatalf("read balance: %v", err)
	}
	return cents
}

// checkInvariant asserts that the account's stored balance matches the sum of
// its transactions.
func (f *fixture) checkInvariant(t *testing.T, accountID int64) {
	t.Helper()
	err := f.store.WithinTx(context.Background(), func(tx storage.Tx) error {
		a, err := tx.GetAccount(context.Background(), accountID)
		if err != nil {
			return err
		}
		sum, err := tx.SumAccountTransactions(context.Background(), accountID)
		if err != nil {
			return err
		}
		if a.Balance.Cents != sum {
			t.Errorf("account %d: balance %d != transaction sum %d", accountID, a.Balance.Cents, sum)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("check invariant: %v", err)
	}
}

func (f *fixture) data(accountID *int64, cents int64) core.TransactionData {
	return core.TransactionData{
		UserID:      f.user.ID,
		CategoryID:  f.category.ID,
		AccountID:   accountID,
		Amount:      core.Money{Cents: cents},
		Description: "test posting",
	}
}

func TestPostAdjustsBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	posted, err := f.engine.Post(ctx, f.data(&f.accountA.ID, -2550))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if posted.ID == 0 {
		t.Error("expected posted transaction to get an id")
	}
	if posted.CreatedAt.IsZero() {
		t.Error("expected posted transaction to get a creation time")
	}
	if got := f.balance(t, f.accountA.ID); got != -2550 {
		t.Errorf("expected balance -2550, got %d", got)
	}
	f.checkInvariant(t, f.accountA.ID)
}

func TestPostWithoutAccountLeavesBalancesAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.engine.Post(ctx, f.data(nil, 1000)); err != nil {
		t.Fatalf("post: %v", err)
	}
	if got := f.balance(t, f.accountA.ID); got != 0 {
		t.Errorf("expected balance 0, got %d", got)
	}
	if got := f.balance(t, f.accountB.ID); got != 0 {
		t.Errorf("expected balance 0, got %d", got)
	}
}

func TestPostMissingReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	missing := int64(9999)

	cases := []struct {
		name string
		data core.TransactionData
	}{
		{"missing user", core.TransactionData{UserID: missing, CategoryID: f.category.ID, Amount: core.Money{Cents: 100}}},
		{"missing category", core.TransactionData{UserID: f.user.ID, CategoryID: missing, Amount: core.Money{Cents: 100}}},
		{"missing account", f.data(&missing, 100)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.engine.Post(ctx, tc.data)
			if !errors.Is(err, core.ErrNotFound) {
				t.Fatalf("expected not found, got %v", err)
			}
		})
	}

	// Nothing should have been written.
	err := f.store.WithinTx(ctx, func(tx storage.Tx) error {
		list, err := tx.ListTransactions(ctx)
		if err != nil {
			return err
		}
		if len(list) != 0 {
			t.Errorf("expected no transactions after failed posts, got %d", len(list))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if got := f.balance(t, f.accountA.ID); got != 0 {
		t.Errorf("expected balance 0 after failed posts, got %d", got)
	}
}

func TestAmendAmountSameAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	posted, err := f.engine.Post(ctx, f.data(&f.accountA.ID, -1000))
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	amended, err := f.engine.Amend(ctx, posted.ID, f.data(&f.accountA.ID, -1500))
	if err != nil {
		t.Fatalf("amend: %v", err)
	}
	if amended.Amount.Cents != -1500 {
		t.Errorf("expected amended amount -1500, got %d", amended.Amount.Cents)
	}
	if got := f.balance(t, f.accountA.ID); got != -1500 {
		t.Errorf("expected balance -1500, got %d", got)
	}
	f.checkInvariant(t, f.accountA.ID)
}

func TestAmendMovesBetweenAccounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	posted, err := f.engine.Post(ctx, f.data(&f.accountA.ID, -1000))
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	// Re-point to account B and change the amount in one amend.
	if _, err := f.engine.Amend(ctx, posted.ID, f.data(&f.accountB.ID, -2000)); err != nil {
		t.Fatalf("amend: %v", err)
	}

	if got := f.balance(t, f.accountA.ID); got != 0 {
		t.Errorf("expected source account restored to 0, got %d", got)
	}
	if got := f.balance(t, f.accountB.ID); got != -2000 {
		t.Errorf("expected target account -2000, got %d", got)
	}
	f.checkInvariant(t, f.accountA.ID)
	f.checkInvariant(t, f.accountB.ID)
}

func TestAmendDetachesFromAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	posted, err := f.engine.Post(ctx, f.data(&f.accountA.ID, -1000))
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	if _, err := f.engine.Amend(ctx, posted.ID, f.data(nil, -1000)); err != nil {
		t.Fatalf("amend: %v", err)
	}
	if got := f.balance(t, f.accountA.ID); got != 0 {
		t.Errorf("expected balance restored to 0, got %d", got)
	}
	f.checkInvariant(t, f.accountA.ID)
}

func TestAmendPreservesCreationTime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f.engine.now = func() time.Time { return fixed }

	posted, err := f.engine.Post(ctx, f.data(&f.accountA.ID, -1000))
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	f.engine.now = func() time.Time { return fixed.Add(48 * time.Hour) }
	amended, err := f.engine.Amend(ctx, posted.ID, f.data(&f.accountA.ID, -500))
	if err != nil {
		t.Fatalf("amend: %v", err)
	}
	if !amended.CreatedAt.Equal(fixed) {
		t.Errorf("expected creation time %v preserved, got %v", fixed, amended.CreatedAt)
	}
}

func TestAmendFailsCleanOnMissingAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	posted, err := f.engine.Post(ctx, f.data(&f.accountA.ID, -1000))
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	missing := int64(9999)
	_, err = f.engine.Amend(ctx, posted.ID, f.data(&missing, -5000))
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	// The failed amend must leave the old posting fully intact.
	if got := f.balance(t, f.accountA.ID); got != -1000 {
		t.Errorf("expected balance unchanged at -1000, got %d", got)
	}
	err = f.store.WithinTx(ctx, func(tx storage.Tx) error {
		current, err := tx.GetTransaction(ctx, posted.ID)
		if err != nil {
			return err
		}
		if current.Amount.Cents != -1000 {
			t.Errorf("expected amount unchanged at -1000, got %d", current.Amount.Cents)
		}
		if current.AccountID == nil || *current.AccountID != f.accountA.ID {
			t.Errorf("expected account unchanged")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("read transaction: %v", err)
	}
	f.checkInvariant(t, f.accountA.ID)
}

func TestAmendMissingTransaction(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Amend(context.Background(), 9999, f.data(&f.accountA.ID, -100))
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestVoidReversesAndDeletes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	posted, err := f.engine.Post(ctx, f.data(&f.accountA.ID, -1000))
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	voided, err := f.engine.Void(ctx, posted.ID)
	if err != nil {
		t.Fatalf("void: %v", err)
	}
	if voided.ID != posted.ID {
		t.Errorf("expected voided id %d, got %d", posted.ID, voided.ID)
	}
	if got := f.balance(t, f.accountA.ID); got != 0 {
		t.Errorf("expected balance restored to 0, got %d", got)
	}

	// Voiding again must fail without touching the balance.
	if _, err := f.engine.Void(ctx, posted.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found on second void, got %v", err)
	}
	if got := f.balance(t, f.accountA.ID); got != 0 {
		t.Errorf("expected balance still 0 after failed void, got %d", got)
	}
	f.checkInvariant(t, f.accountA.ID)
}

func TestVoidWithoutAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	posted, err := f.engine.Post(ctx, f.data(nil, 500))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if _, err := f.engine.Void(ctx, posted.ID); err != nil {
		t.Fatalf("void: %v", err)
	}
	if got := f.balance(t, f.accountA.ID); got != 0 {
		t.Errorf("expected balance 0, got %d", got)
	}
}

func TestConcurrentPostsKeepBalanceConsistent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const workers = 25
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.engine.Post(ctx, f.data(&f.accountA.ID, -100)); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent post: %v", err)
	}

	if got := f.balance(t, f.accountA.ID); got != -100*workers {
		t.Errorf("expected balance %d, got %d", -100*workers, got)
	}
	f.checkInvariant(t, f.accountA.ID)
}

// Two amends of the same transaction racing each other must not both reverse
// the original amount: whichever commits last has to see the other's row, or
// the balance drifts (e.g. 100 amended to 50 and to 70 concurrently leaving
// balance 20 while the row says 70).
func TestConcurrentAmendsKeepBalanceConsistent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	posted, err := f.engine.Post(ctx, f.data(&f.accountA.ID, 10000))
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	amounts := []int64{5000, 7000, -2500, 12000, 100}
	var wg sync.WaitGroup
	errs := make(chan error, len(amounts))
	for _, cents := range amounts {
		wg.Add(1)
		go func(cents int64) {
			defer wg.Done()
			if _, err := f.engine.Amend(ctx, posted.ID, f.data(&f.accountA.ID, cents)); err != nil {
				errs <- err
			}
		}(cents)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent amend: %v", err)
	}

	var surviving core.Transaction
	err = f.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		surviving, err = tx.GetTransaction(ctx, posted.ID)
		return err
	})
	if err != nil {
		t.Fatalf("read surviving transaction: %v", err)
	}
	if got := f.balance(t, f.accountA.ID); got != surviving.Amount.Cents {
		t.Errorf("balance %d does not match surviving amount %d", got, surviving.Amount.Cents)
	}
	f.checkInvariant(t, f.accountA.ID)
}

func TestAmendRacingVoidKeepsBalanceConsistent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	posted, err := f.engine.Post(ctx, f.data(&f.accountA.ID, 10000))
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	// Either the amend wins and the void removes the amended row, or the
	// void wins and the amend fails on the missing row. Both end with the
	// row gone and the posting reversed exactly once.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = f.engine.Amend(ctx, posted.ID, f.data(&f.accountA.ID, 5000))
	}()
	go func() {
		defer wg.Done()
		_, _ = f.engine.Void(ctx, posted.ID)
	}()
	wg.Wait()

	err = f.store.WithinTx(ctx, func(tx storage.Tx) error {
		_, err := tx.GetTransaction(ctx, posted.ID)
		return err
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected transaction gone after void, got %v", err)
	}
	if got := f.balance(t, f.accountA.ID); got != 0 {
		t.Errorf("expected balance 0 after void, got %d", got)
	}
	f.checkInvariant(t, f.accountA.ID)
}
