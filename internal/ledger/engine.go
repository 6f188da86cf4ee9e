// Package ledger implements the posting engine that keeps every account's
// materialized balance equal to the sum of the transactions pointing at it.
//
// Post, Amend and Void each run as one unit of work: the transaction row and
// the balance adjustment commit together or not at all.
package ledger

import (
	"context"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type Engine struct {
	store storage.Store
	now   func() time.Time
}

func New(store storage.Store) *Engine {
	return &Engine{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Post records a new transaction and, when it points at an account, adds its
// amount to that account's balance.
func (e *Engine) Post(ctx context.Context, data core.TransactionData) (core.Transaction, error) {
	if err := data.Validate(); err != nil {
		return core.Transaction{}, err
	}

	var posted core.Transaction
	err := e.store.WithinTx(ctx, func(tx storage.Tx) error {
		if err := checkReferences(ctx, tx, data); err != nil {
			return err
		}

		posted = core.Transaction{
			UserID:      data.UserID,
			CategoryID:  data.CategoryID,
			AccountID:   data.AccountID,
			Amount:      data.Amount,
			Description: data.Description,
			CreatedAt:   e.now(),
		}
		if err := tx.CreateTransaction(ctx, &posted); err != nil {
			return err
		}

		if posted.AccountID != nil {
			return tx.AdjustAccountBalance(ctx, *posted.AccountID, posted.Amount.Cents)
		}
		return nil
	})
	if err != nil {
		return core.Transaction{}, err
	}
	return posted, nil
}

// Amend replaces every caller-supplied field of an existing transaction.
// The old posting is reversed before the new one is applied, so the amended
// transaction may change amount, move between accounts, attach to an account
// or detach from one; the creation time never changes.
func (e *Engine) Amend(ctx context.Context, id int64, data core.TransactionData) (core.Transaction, error) {
	if err := data.Validate(); err != nil {
		return core.Transaction{}, err
	}

	var amended core.Transaction
	err := e.store.WithinTx(ctx, func(tx storage.Tx) error {
		// Locking read: the reversal below is computed from the old amount,
		// which must not change under us before this unit of work commits.
		old, err := tx.GetTransactionForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := checkReferences(ctx, tx, data); err != nil {
			return err
		}

		// Reverse the old posting first. Done unconditionally even when the
		// account stays the same: reverse-then-apply is one code path
		// instead of a matrix of moved/changed cases.
		if old.AccountID != nil {
			if err := tx.AdjustAccountBalance(ctx, *old.AccountID, -old.Amount.Cents); err != nil {
				return err
			}
		}

		amended = core.Transaction{
			ID:          old.ID,
			UserID:      data.UserID,
			CategoryID:  data.CategoryID,
			AccountID:   data.AccountID,
			Amount:      data.Amount,
			Description: data.Description,
			CreatedAt:   old.CreatedAt,
		}
		if err := tx.UpdateTransaction(ctx, amended); err != nil {
			return err
		}

		if amended.AccountID != nil {
			return tx.AdjustAccountBalance(ctx, *amended.AccountID, amended.Amount.Cents)
		}
		return nil
	})
	if err != nil {
		return core.Transaction{}, err
	}
	return amended, nil
}

// Void reverses a transaction's posting and deletes it.
func (e *Engine) Void(ctx context.Context, id int64) (core.Transaction, error) {
	var voided core.Transaction
	err := e.store.WithinTx(ctx, func(tx storage.Tx) error {
		old, err := tx.GetTransactionForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if old.AccountID != nil {
			if err := tx.AdjustAccountBalance(ctx, *old.AccountID, -old.Amount.Cents); err != nil {
				return err
			}
		}

		voided = old
		return tx.DeleteTransaction(ctx, id)
	})
	if err != nil {
		return core.Transaction{}, err
	}
	return voided, nil
}

// checkReferences verifies that every entity the transaction points at
// exists, surfacing core.NotFound errors per entity.
func checkReferences(ctx context.Context, tx storage.Tx, data core.TransactionData) error {
	if _, err := tx.GetUser(ctx, data.UserID); err != nil {
		return err
	}
	if _, err := tx.GetCategory(ctx, data.CategoryID); err != nil {
		return err
	}
	if data.AccountID != nil {
		if _, err := tx.GetAccount(ctx, *data.AccountID); err != nil {
			return err
		}
	}
	return nil
}
