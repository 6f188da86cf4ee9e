// Package postgres is the shared-server storage backend. Unlike the sqlite
// backend it allows a real connection pool; balance updates rely on row-level
// locking of the relative UPDATE instead of pool serialization.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	queries
}

// New connects to the database at dsn and runs migrations.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, queries: queries{db: db}}, nil
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(&queries{db: dbTx}); err != nil {
		if rbErr := dbTx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var _ storage.Store = (*Store)(nil)

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	db dbtx
}

var _ storage.Tx = (*queries)(nil)

// ---- users ----

func (q *queries) CreateUser(ctx context.Context, u *core.User) error {
	err := q.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email) VALUES ($1, $2) RETURNING id`,
		u.Username, u.Email).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (q *queries) GetUser(ctx context.Context, id int64) (core.User, error) {
	var u core.User
	err := q.db.QueryRowContext(ctx,
		`SELECT id, username, email FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Email)
	if err == sql.ErrNoRows {
		return core.User{}, core.NotFound("user")
	}
	if err != nil {
		return core.User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

func (q *queries) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, username, email FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []core.User
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (q *queries) UpdateUser(ctx context.Context, u core.User) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE users SET username = $1, email = $2 WHERE id = $3`,
		u.Username, u.Email, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(res, "user")
}

func (q *queries) DeleteUser(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(res, "user")
}

func (q *queries) UserReferenced(ctx context.Context, id int64) (bool, error) {
	return q.exists(ctx,
		`SELECT 1 WHERE EXISTS (SELECT 1 FROM accounts WHERE user_id = $1)
		 OR EXISTS (SELECT 1 FROM transactions WHERE user_id = $1)
		 OR EXISTS (SELECT 1 FROM budgets WHERE user_id = $1)
		 OR EXISTS (SELECT 1 FROM goals WHERE user_id = $1)
		 OR EXISTS (SELECT 1 FROM category_preferences WHERE user_id = $1)`,
		id)
}

// ---- categories ----

func (q *queries) CreateCategory(ctx context.Context, c *core.Category) error {
	err := q.db.QueryRowContext(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, c.Name).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (q *queries) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return core.Category{}, core.NotFound("category")
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("select category: %w", err)
	}
	return c, nil
}

func (q *queries) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (q *queries) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE categories SET name = $1 WHERE id = $2`, c.Name, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res, "category")
}

func (q *queries) DeleteCategory(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res, "category")
}

func (q *queries) CategoryReferenced(ctx context.Context, id int64) (bool, error) {
	return q.exists(ctx,
		`SELECT 1 WHERE EXISTS (SELECT 1 FROM transactions WHERE category_id = $1)
		 OR EXISTS (SELECT 1 FROM budgets WHERE category_id = $1)
		 OR EXISTS (SELECT 1 FROM category_preferences WHERE category_id = $1)`,
		id)
}

// ---- accounts ----

func (q *queries) CreateAccount(ctx context.Context, a *core.Account) error {
	err := q.db.QueryRowContext(ctx,
		`INSERT INTO accounts (user_id, name, balance_cents) VALUES ($1, $2, $3) RETURNING id`,
		a.UserID, a.Name, a.Balance.Cents).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (q *queries) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	var a core.Account
	err := q.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, balance_cents FROM accounts WHERE id = $1`, id).
		Scan(&a.ID, &a.UserID, &a.Name, &a.Balance.Cents)
	if err == sql.ErrNoRows {
		return core.Account{}, core.NotFound("account")
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("select account: %w", err)
	}
	return a, nil
}

func (q *queries) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, user_id, name, balance_cents FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Balance.Cents); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (q *queries) UpdateAccount(ctx context.Context, a core.Account) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE accounts SET user_id = $1, name = $2 WHERE id = $3`,
		a.UserID, a.Name, a.ID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return requireRow(res, "account")
}

func (q *queries) DeleteAccount(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return requireRow(res, "account")
}

func (q *queries) AccountReferenced(ctx context.Context, id int64) (bool, error) {
	return q.exists(ctx,
		`SELECT 1 FROM transactions WHERE account_id = $1 LIMIT 1`, id)
}

// AdjustAccountBalance takes the row lock on the account; concurrent units of
// work adjusting the same account serialize here.
func (q *queries) AdjustAccountBalance(ctx context.Context, id int64, deltaCents int64) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE accounts SET balance_cents = balance_cents + $1 WHERE id = $2`,
		deltaCents, id)
	if err != nil {
		return fmt.Errorf("adjust account balance: %w", err)
	}
	return requireRow(res, "account")
}

func (q *queries) SumAccountTransactions(ctx context.Context, accountID int64) (int64, error) {
	var sum int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions WHERE account_id = $1`,
		accountID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum account transactions: %w", err)
	}
	return sum, nil
}

// ---- budgets ----

func (q *queries) CreateBudget(ctx context.Context, b *core.Budget) error {
	err := q.db.QueryRowContext(ctx,
		`INSERT INTO budgets (user_id, category_id, limit_cents) VALUES ($1, $2, $3) RETURNING id`,
		b.UserID, b.CategoryID, b.Limit.Cents).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

func (q *queries) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	var b core.Budget
	err := q.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, limit_cents FROM budgets WHERE id = $1`, id).
		Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Limit.Cents)
	if err == sql.ErrNoRows {
		return core.Budget{}, core.NotFound("budget")
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("select budget: %w", err)
	}
	return b, nil
}

func (q *queries) GetBudgetByUserCategory(ctx context.Context, userID, categoryID int64) (core.Budget, error) {
	var b core.Budget
	err := q.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, limit_cents FROM budgets
		 WHERE user_id = $1 AND category_id = $2 LIMIT 1`, userID, categoryID).
		Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Limit.Cents)
	if err == sql.ErrNoRows {
		return core.Budget{}, core.NotFound("budget")
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("select budget by user/category: %w", err)
	}
	return b, nil
}

func (q *queries) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, limit_cents FROM budgets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Limit.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (q *queries) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE budgets SET user_id = $1, category_id = $2, limit_cents = $3 WHERE id = $4`,
		b.UserID, b.CategoryID, b.Limit.Cents, b.ID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRow(res, "budget")
}

func (q *queries) DeleteBudget(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res, "budget")
}

// ---- goals ----

func (q *queries) CreateGoal(ctx context.Context, g *core.Goal) error {
	err := q.db.QueryRowContext(ctx,
		`INSERT INTO goals (user_id, title, target_cents, current_cents, deadline)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		g.UserID, g.Title, g.Target.Cents, g.Current.Cents, nullableTime(g.Deadline)).Scan(&g.ID)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

func (q *queries) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	var (
		g        core.Goal
		deadline sql.NullTime
	)
	err := q.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, target_cents, current_cents, deadline
		 FROM goals WHERE id = $1`, id).
		Scan(&g.ID, &g.UserID, &g.Title, &g.Target.Cents, &g.Current.Cents, &deadline)
	if err == sql.ErrNoRows {
		return core.Goal{}, core.NotFound("goal")
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("select goal: %w", err)
	}
	g.Deadline = timePointer(deadline)
	return g, nil
}

func (q *queries) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, user_id, title, target_cents, current_cents, deadline
		 FROM goals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		var (
			g        core.Goal
			deadline sql.NullTime
		)
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.Target.Cents, &g.Current.Cents, &deadline); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.Deadline = timePointer(deadline)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (q *queries) UpdateGoal(ctx context.Context, g core.Goal) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE goals SET user_id = $1, title = $2, target_cents = $3, current_cents = $4, deadline = $5
		 WHERE id = $6`,
		g.UserID, g.Title, g.Target.Cents, g.Current.Cents, nullableTime(g.Deadline), g.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res, "goal")
}

func (q *queries) DeleteGoal(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res, "goal")
}

// ---- preferences ----

func (q *queries) CreatePreference(ctx context.Context, p core.CategoryPreference) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO category_preferences (user_id, category_id, notifications_enabled)
		 VALUES ($1, $2, $3)`,
		p.UserID, p.CategoryID, p.NotificationsEnabled)
	if err != nil {
		return fmt.Errorf("insert preference: %w", err)
	}
	return nil
}

func (q *queries) GetPreference(ctx context.Context, userID, categoryID int64) (core.CategoryPreference, error) {
	var p core.CategoryPreference
	err := q.db.QueryRowContext(ctx,
		`SELECT user_id, category_id, notifications_enabled FROM category_preferences
		 WHERE user_id = $1 AND category_id = $2`, userID, categoryID).
		Scan(&p.UserID, &p.CategoryID, &p.NotificationsEnabled)
	if err == sql.ErrNoRows {
		return core.CategoryPreference{}, core.NotFound("preference")
	}
	if err != nil {
		return core.CategoryPreference{}, fmt.Errorf("select preference: %w", err)
	}
	return p, nil
}

func (q *queries) ListPreferences(ctx context.Context) ([]core.CategoryPreference, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT user_id, category_id, notifications_enabled FROM category_preferences
		 ORDER BY user_id, category_id`)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryPreference
	for rows.Next() {
		var p core.CategoryPreference
		if err := rows.Scan(&p.UserID, &p.CategoryID, &p.NotificationsEnabled); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (q *queries) UpdatePreference(ctx context.Context, p core.CategoryPreference) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE category_preferences SET notifications_enabled = $1
		 WHERE user_id = $2 AND category_id = $3`,
		p.NotificationsEnabled, p.UserID, p.CategoryID)
	if err != nil {
		return fmt.Errorf("update preference: %w", err)
	}
	return requireRow(res, "preference")
}

func (q *queries) DeletePreference(ctx context.Context, userID, categoryID int64) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM category_preferences WHERE user_id = $1 AND category_id = $2`,
		userID, categoryID)
	if err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	return requireRow(res, "preference")
}

// ---- transactions ----

func (q *queries) CreateTransaction(ctx context.Context, t *core.Transaction) error {
	err := q.db.QueryRowContext(ctx,
		`INSERT INTO transactions (user_id, category_id, account_id, amount_cents, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		t.UserID, t.CategoryID, nullableID(t.AccountID), t.Amount.Cents, t.Description, t.CreatedAt).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (q *queries) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, account_id, amount_cents, description, created_at
		 FROM transactions WHERE id = $1`, id)
	t, err := scanTransaction(row.Scan)
	if err == sql.ErrNoRows {
		return core.Transaction{}, core.NotFound("transaction")
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("select transaction: %w", err)
	}
	return t, nil
}

// GetTransactionForUpdate takes the row lock. Under read committed two
// concurrent amends of the same transaction would otherwise both read the old
// amount and reverse it twice; FOR UPDATE makes the second one wait and see
// the first one's committed row.
func (q *queries) GetTransactionForUpdate(ctx context.Context, id int64) (core.Transaction, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, account_id, amount_cents, description, created_at
		 FROM transactions WHERE id = $1 FOR UPDATE`, id)
	t, err := scanTransaction(row.Scan)
	if err == sql.ErrNoRows {
		return core.Transaction{}, core.NotFound("transaction")
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("select transaction for update: %w", err)
	}
	return t, nil
}

func (q *queries) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, account_id, amount_cents, description, created_at
		 FROM transactions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (q *queries) ListAccountTransactions(ctx context.Context, accountID int64) ([]core.Transaction, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, account_id, amount_cents, description, created_at
		 FROM transactions WHERE account_id = $1 ORDER BY created_at DESC, id DESC`,
		accountID)
	if err != nil {
		return nil, fmt.Errorf("list account transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (q *queries) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE transactions SET user_id = $1, category_id = $2, account_id = $3, amount_cents = $4, description = $5
		 WHERE id = $6`,
		t.UserID, t.CategoryID, nullableID(t.AccountID), t.Amount.Cents, t.Description, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res, "transaction")
}

func (q *queries) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res, "transaction")
}

func (q *queries) SumUserCategorySpend(ctx context.Context, userID, categoryID int64) (int64, error) {
	var sum int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		 WHERE user_id = $1 AND category_id = $2`, userID, categoryID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum user category spend: %w", err)
	}
	return sum, nil
}

// ---- helpers ----

func (q *queries) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var one int
	err := q.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("existence check: %w", err)
	}
	return true, nil
}

func requireRow(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.NotFound(entity)
	}
	return nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePointer(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}

func scanTransaction(scan func(dest ...any) error) (core.Transaction, error) {
	var (
		t         core.Transaction
		accountID sql.NullInt64
	)
	if err := scan(&t.ID, &t.UserID, &t.CategoryID, &accountID, &t.Amount.Cents, &t.Description, &t.CreatedAt); err != nil {
		return core.Transaction{}, err
	}
	if accountID.Valid {
		id := accountID.Int64
		t.AccountID = &id
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
