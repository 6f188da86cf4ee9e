// Package storage defines the entity store port implemented by the memory,
// sqlite and postgres backends. All reads and writes go through WithinTx so
// that a ledger operation's entity change and balance change share one unit
// of work.
package storage

import (
	"context"

	"fintrack/internal/core"
)

// Tx is the set of operations available inside a unit of work. Get/Update/
// Delete return core.NotFound errors when the row is absent; Create assigns
// the identity on the passed struct.
type Tx interface {
	// Users
	CreateUser(ctx context.Context, u *core.User) error
	GetUser(ctx context.Context, id int64) (core.User, error)
	ListUsers(ctx context.Context) ([]core.User, error)
	UpdateUser(ctx context.Context, u core.User) error
	DeleteUser(ctx context.Context, id int64) error
	UserReferenced(ctx context.Context, id int64) (bool, error)

	// Categories
	CreateCategory(ctx context.Context, c *core.Category) error
	GetCategory(ctx context.Context, id int64) (core.Category, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	UpdateCategory(ctx context.Context, c core.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	CategoryReferenced(ctx context.Context, id int64) (bool, error)

	// Accounts. UpdateAccount replaces owner and name only: the balance
	// belongs to the ledger engine and moves exclusively through
	// AdjustAccountBalance.
	CreateAccount(ctx context.Context, a *core.Account) error
	GetAccount(ctx context.Context, id int64) (core.Account, error)
	ListAccounts(ctx context.Context) ([]core.Account, error)
	UpdateAccount(ctx context.Context, a core.Account) error
	DeleteAccount(ctx context.Context, id int64) error
	AccountReferenced(ctx context.Context, id int64) (bool, error)
	AdjustAccountBalance(ctx context.Context, id int64, deltaCents int64) error
	SumAccountTransactions(ctx context.Context, accountID int64) (int64, error)

	// Budgets
	CreateBudget(ctx context.Context, b *core.Budget) error
	GetBudget(ctx context.Context, id int64) (core.Budget, error)
	GetBudgetByUserCategory(ctx context.Context, userID, categoryID int64) (core.Budget, error)
	ListBudgets(ctx context.Context) ([]core.Budget, error)
	UpdateBudget(ctx context.Context, b core.Budget) error
	DeleteBudget(ctx context.Context, id int64) error

	// Goals
	CreateGoal(ctx context.Context, g *core.Goal) error
	GetGoal(ctx context.Context, id int64) (core.Goal, error)
	ListGoals(ctx context.Context) ([]core.Goal, error)
	UpdateGoal(ctx context.Context, g core.Goal) error
	DeleteGoal(ctx context.Context, id int64) error

	// Category preferences, keyed by (userID, categoryID)
	CreatePreference(ctx context.Context, p core.CategoryPreference) error
	GetPreference(ctx context.Context, userID, categoryID int64) (core.CategoryPreference, error)
	ListPreferences(ctx context.Context) ([]core.CategoryPreference, error)
	UpdatePreference(ctx context.Context, p core.CategoryPreference) error
	DeletePreference(ctx context.Context, userID, categoryID int64) error

	// Transactions. GetTransactionForUpdate locks the row for the rest of
	// the unit of work: amend and void compute their reversal from the old
	// amount, and a concurrent unit of work must not read it in between.
	CreateTransaction(ctx context.Context, t *core.Transaction) error
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	GetTransactionForUpdate(ctx context.Context, id int64) (core.Transaction, error)
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	ListAccountTransactions(ctx context.Context, accountID int64) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error
	SumUserCategorySpend(ctx context.Context, userID, categoryID int64) (int64, error)
}

// Store runs units of work. WithinTx commits when fn returns nil and rolls
// every contained write back when it returns an error; concurrent units of
// work touching the same account must not interleave their balance updates.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}
