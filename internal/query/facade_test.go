package query

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/storage"
	"fintrack/internal/storage/memory"
)

func seed(t *testing.T) (*Facade, *ledger.Engine, core.User, core.Category, core.Account) {
	t.Helper()

	store := memory.New()
	user := core.User{Username: "anna", Email: "anna@example.com"}
	category := core.Category{Name: "transport"}
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
	return New(store), ledger.New(store), user, category, account
}

func TestTransactionDetail(t *testing.T) {
	facade, engine, user, category, account := seed(t)
	ctx := context.Background()

	posted, err := engine.Post(ctx, core.TransactionData{
		UserID:      user.ID,
		CategoryID:  category.ID,
		AccountID:   &account.ID,
		Amount:      core.Money{Cents: -750},
		Description: "bus ticket",
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	detail, err := facade.TransactionDetail(ctx, posted.ID)
	if err != nil {
		t.Fatalf("transaction detail: %v", err)
	}
	if detail.User.Username != "anna" {
		t.Errorf("expected username anna, got %q", detail.User.Username)
	}
	if detail.Category.Name != "transport" {
		t.Errorf("expected category transport, got %q", detail.Category.Name)
	}
	if detail.Account == nil || detail.Account.ID != account.ID {
		t.Error("expected resolved account")
	}
}

func TestTransactionDetailWithoutAccount(t *testing.T) {
	facade, engine, user, category, _ := seed(t)
	ctx := context.Background()

	posted, err := engine.Post(ctx, core.TransactionData{
		UserID:     user.ID,
		CategoryID: category.ID,
		Amount:     core.Money{Cents: 100},
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	detail, err := facade.TransactionDetail(ctx, posted.ID)
	if err != nil {
		t.Fatalf("transaction detail: %v", err)
	}
	if detail.Account != nil {
		t.Error("expected nil account on detached transaction")
	}
}

func TestAccountStatement(t *testing.T) {
	facade, engine, user, category, account := seed(t)
	ctx := context.Background()

	for _, cents := range []int64{-100, -200, -300} {
		if _, err := engine.Post(ctx, core.TransactionData{
			UserID:     user.ID,
			CategoryID: category.ID,
			AccountID:  &account.ID,
			Amount:     core.Money{Cents: cents},
		}); err != nil {
			t.Fatalf("post: %v", err)
		}
	}

	stmt, err := facade.AccountStatement(ctx, account.ID)
	if err != nil {
		t.Fatalf("account statement: %v", err)
	}
	if len(stmt.Transactions) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(stmt.Transactions))
	}
	if stmt.Account.Balance.Cents != -600 {
		t.Errorf("expected balance -600, got %d", stmt.Account.Balance.Cents)
	}
	if stmt.Owner.ID != user.ID {
		t.Errorf("expected owner %d, got %d", user.ID, stmt.Owner.ID)
	}
	// Newest first.
	if stmt.Transactions[0].Amount.Cents != -300 {
		t.Errorf("expected newest transaction first, got amount %d", stmt.Transactions[0].Amount.Cents)
	}
}

func TestDetailNotFound(t *testing.T) {
	facade, _, _, _, _ := seed(t)
	ctx := context.Background()

	if _, err := facade.TransactionDetail(ctx, 9999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected not found for transaction, got %v", err)
	}
	if _, err := facade.AccountStatement(ctx, 9999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected not found for account, got %v", err)
	}
	if _, err := facade.BudgetDetail(ctx, 9999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected not found for budget, got %v", err)
	}
	if _, err := facade.GoalDetail(ctx, 9999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected not found for goal, got %v", err)
	}
}
