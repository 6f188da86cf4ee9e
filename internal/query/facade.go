// Package query is the read side: projections that join entities for
// presentation. It reads the materialized balance and never recomputes it.
package query

import (
	"context"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type (
	// TransactionDetail is a transaction with the entities it references
	// resolved. Account is nil when the transaction has no account.
	TransactionDetail struct {
		Transaction core.Transaction
		User        core.User
		Category    core.Category
		Account     *core.Account
	}

	// AccountStatement is an account with its transactions, newest first.
	AccountStatement struct {
		Account      core.Account
		Owner        core.User
		Transactions []core.Transaction
	}

	BudgetDetail struct {
		Budget   core.Budget
		User     core.User
		Category core.Category
	}

	GoalDetail struct {
		Goal core.Goal
		User core.User
	}
)

type Facade struct {
	store storage.Store
}

func New(store storage.Store) *Facade {
	return &Facade{store: store}
}

func (f *Facade) TransactionDetail(ctx context.Context, id int64) (TransactionDetail, error) {
	var detail TransactionDetail
	err := f.store.WithinTx(ctx, func(tx storage.Tx) error {
		t, err := tx.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		u, err := tx.GetUser(ctx, t.UserID)
		if err != nil {
			return err
		}
		c, err := tx.GetCategory(ctx, t.CategoryID)
		if err != nil {
			return err
		}
		detail = TransactionDetail{Transaction: t, User: u, Category: c}
		if t.AccountID != nil {
			a, err := tx.GetAccount(ctx, *t.AccountID)
			if err != nil {
				return err
			}
			detail.Account = &a
		}
		return nil
	})
	if err != nil {
		return TransactionDetail{}, err
	}
	return detail, nil
}

func (f *Facade) AccountStatement(ctx context.Context, accountID int64) (AccountStatement, error) {
	var stmt AccountStatement
	err := f.store.WithinTx(ctx, func(tx storage.Tx) error {
		a, err := tx.GetAccount(ctx, accountID)
		if err != nil {
			return err
		}
		u, err := tx.GetUser(ctx, a.UserID)
		if err != nil {
			return err
		}
		list, err := tx.ListAccountTransactions(ctx, accountID)
		if err != nil {
			return err
		}
		stmt = AccountStatement{Account: a, Owner: u, Transactions: list}
		return nil
	})
	if err != nil {
		return AccountStatement{}, err
	}
	return stmt, nil
}

func (f *Facade) BudgetDetail(ctx context.Context, id int64) (BudgetDetail, error) {
	var detail BudgetDetail
	err := f.store.WithinTx(ctx, func(tx storage.Tx) error {
		b, err := tx.GetBudget(ctx, id)
		if err != nil {
			return err
		}
		u, err := tx.GetUser(ctx, b.UserID)
		if err != nil {
			return err
		}
		c, err := tx.GetCategory(ctx, b.CategoryID)
		if err != nil {
			return err
		}
		detail = BudgetDetail{Budget: b, User: u, Category: c}
		return nil
	})
	if err != nil {
		return BudgetDetail{}, err
	}
	return detail, nil
}

func (f *Facade) GoalDetail(ctx context.Context, id int64) (GoalDetail, error) {
	var detail GoalDetail
	err := f.store.WithinTx(ctx, func(tx storage.Tx) error {
		g, err := tx.GetGoal(ctx, id)
		if err != nil {
			return err
		}
		u, err := tx.GetUser(ctx, g.UserID)
		if err != nil {
			return err
		}
		detail = GoalDetail{Goal: g, User: u}
		return nil
	})
	if err != nil {
		return GoalDetail{}, err
	}
	return detail, nil
}

func (f *Facade) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	var out []core.Transaction
	err := f.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		out, err = tx.ListTransactions(ctx)
		return err
	})
	return out, err
}

func (f *Facade) ListUsers(ctx context.Context) ([]core.User, error) {
	var out []core.User
	err := f.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		out, err = tx.ListUsers(ctx)
		return err
	})
	return out, err
}

func (f *Facade) ListCategories(ctx context.Context) ([]core.Category, error) {
	var out []core.Category
	err := f.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		out, err = tx.ListCategories(ctx)
		return err
	})
	return out, err
}

func (f *Facade) ListAccounts(ctx context.Context) ([]core.Account, error) {
	var out []core.Account
	err := f.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		out, err = tx.ListAccounts(ctx)
		return err
	})
	return out, err
}

func (f *Facade) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	var out []core.Budget
	err := f.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		out, err = tx.ListBudgets(ctx)
		return err
	})
	return out, err
}

func (f *Facade) ListGoals(ctx context.Context) ([]core.Goal, error) {
	var out []core.Goal
	err := f.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		out, err = tx.ListGoals(ctx)
		return err
	})
	return out, err
}

func (f *Facade) ListPreferences(ctx context.Context) ([]core.CategoryPreference, error) {
	var out []core.CategoryPreference
	err := f.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		out, err = tx.ListPreferences(ctx)
		return err
	})
	return out, err
}
