// Package sqlite is the embedded storage backend.
//
// The database is opened with a single connection so units of work serialize:
// two concurrent balance updates against the same account can never
// interleave their read-modify-write.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
	queries
}

// New opens (creating if needed) the database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
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

// dbtx is satisfied by both *sql.DB and *sql.Tx.
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
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO users (username, email) VALUES (?, ?)`,
		u.Username, u.Email)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("user insert id: %w", err)
	}
	return nil
}

func (q *queries) GetUser(ctx context.Context, id int64) (core.User, error) {
	var u core.User
	err := q.db.QueryRowContext(ctx,
		`SELECT id, username, email FROM users WHERE id = ?`, id).
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
		`UPDATE users SET username = ?, email = ? WHERE id = ?`,
		u.Username, u.Email, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(res, "user")
}

func (q *queries) DeleteUser(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(res, "user")
}

func (q *queries) UserReferenced(ctx context.Context, id int64) (bool, error) {
	return q.exists(ctx, `SELECT 1 WHERE EXISTS (SELECT 1 FROM accounts WHERE user_id = ?)
		OR EXISTS (SELECT 1 FROM transactions WHERE user_id = ?)
		OR EXISTS (SELECT 1 FROM budgets WHERE user_id = ?)
		OR EXISTS (SELECT 1 FROM goals WHERE user_id = ?)
		OR EXISTS (SELECT 1 FROM category_preferences WHERE user_id = ?)`,
		id, id, id, id, id)
}

// ---- categories ----

func (q *queries) CreateCategory(ctx context.Context, c *core.Category) error {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO categories (name) VALUES (?)`, c.Name)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("category insert id: %w", err)
	}
	return nil
}

func (q *queries) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name FROM categories WHERE id = ?`, id).
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
		`UPDATE categories SET name = ? WHERE id = ?`, c.Name, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res, "category")
}

func (q *queries) DeleteCategory(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res, "category")
}

func (q *queries) CategoryReferenced(ctx context.Context, id int64) (bool, error) {
	return q.exists(ctx, `SELECT 1 WHERE EXISTS (SELECT 1 FROM transactions WHERE category_id = ?)
		OR EXISTS (SELECT 1 FROM budgets WHERE category_id = ?)
		OR EXISTS (SELECT 1 FROM category_preferences WHERE category_id = ?)`,
		id, id, id)
}

// ---- accounts ----

func (q *queries) CreateAccount(ctx context.Context, a *core.Account) error {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO accounts (user_id, name, balance_cents) VALUES (?, ?, ?)`,
		a.UserID, a.Name, a.Balance.Cents)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	a.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("account insert id: %w", err)
	}
	return nil
}

func (q *queries) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	var a core.Account
	err := q.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, balance_cents FROM accounts WHERE id = ?`, id).
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
	// Balance deliberately untouched; only AdjustAccountBalance moves it.
	res, err := q.db.ExecContext(ctx,
		`UPDATE accounts SET user_id = ?, name = ? WHERE id = ?`,
		a.UserID, a.Name, a.ID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return requireRow(res, "account")
}

func (q *queries) DeleteAccount(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return requireRow(res, "account")
}

func (q *queries) AccountReferenced(ctx context.Context, id int64) (bool, error) {
	return q.exists(ctx,
		`SELECT 1 FROM transactions WHERE account_id = ? LIMIT 1`, id)
}

func (q *queries) AdjustAccountBalance(ctx context.Context, id int64, deltaCents int64) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE accounts SET balance_cents = balance_cents + ? WHERE id = ?`,
		deltaCents, id)
	if err != nil {
		return fmt.Errorf("adjust account balance: %w", err)
	}
	return requireRow(res, "account")
}

func (q *queries) SumAccountTransactions(ctx context.Context, accountID int64) (int64, error) {
	var sum int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions WHERE account_id = ?`,
		accountID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum account transactions: %w", err)
	}
	return sum, nil
}

// ---- budgets ----

func (q *queries) CreateBudget(ctx context.Context, b *core.Budget) error {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category_id, limit_cents) VALUES (?, ?, ?)`,
		b.UserID, b.CategoryID, b.Limit.Cents)
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	b.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("budget insert id: %w", err)
	}
	return nil
}

func (q *queries) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	var b core.Budget
	err := q.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, limit_cents FROM budgets WHERE id = ?`, id).
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
		 WHERE user_id = ? AND category_id = ? LIMIT 1`, userID, categoryID).
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
		`UPDATE budgets SET user_id = ?, category_id = ?, limit_cents = ? WHERE id = ?`,
		b.UserID, b.CategoryID, b.Limit.Cents, b.ID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRow(res, "budget")
}

func (q *queries) DeleteBudget(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res, "budget")
}

// ---- goals ----

func (q *queries) CreateGoal(ctx context.Context, g *core.Goal) error {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO goals (user_id, title, target_cents, current_cents, deadline_unix)
		 VALUES (?, ?, ?, ?, ?)`,
		g.UserID, g.Title, g.Target.Cents, g.Current.Cents, deadlineUnix(g.Deadline))
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	g.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("goal insert id: %w", err)
	}
	return nil
}

func (q *queries) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	var (
		g        core.Goal
		deadline sql.NullInt64
	)
	err := q.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, target_cents, current_cents, deadline_unix
		 FROM goals WHERE id = ?`, id).
		Scan(&g.ID, &g.UserID, &g.Title, &g.Target.Cents, &g.Current.Cents, &deadline)
	if err == sql.ErrNoRows {
		return core.Goal{}, core.NotFound("goal")
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("select goal: %w", err)
	}
	g.Deadline = unixDeadline(deadline)
	return g, nil
}

func (q *queries) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, user_id, title, target_cents, current_cents, deadline_unix
		 FROM goals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		var (
			g        core.Goal
			deadline sql.NullInt64
		)
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.Target.Cents, &g.Current.Cents, &deadline); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.Deadline = unixDeadline(deadline)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (q *queries) UpdateGoal(ctx context.Context, g core.Goal) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE goals SET user_id = ?, title = ?, target_cents = ?, current_cents = ?, deadline_unix = ?
		 WHERE id = ?`,
		g.UserID, g.Title, g.Target.Cents, g.Current.Cents, deadlineUnix(g.Deadline), g.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res, "goal")
}

func (q *queries) DeleteGoal(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res, "goal")
}

// ---- preferences ----

func (q *queries) CreatePreference(ctx context.Context, p core.CategoryPreference) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO category_preferences (user_id, category_id, notifications_enabled)
		 VALUES (?, ?, ?)`,
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
		 WHERE user_id = ? AND category_id = ?`, userID, categoryID).
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
		`UPDATE category_preferences SET notifications_enabled = ?
		 WHERE user_id = ? AND category_id = ?`,
		p.NotificationsEnabled, p.UserID, p.CategoryID)
	if err != nil {
		return fmt.Errorf("update preference: %w", err)
	}
	return requireRow(res, "preference")
}

func (q *queries) DeletePreference(ctx context.Context, userID, categoryID int64) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM category_preferences WHERE user_id = ? AND category_id = ?`,
		userID, categoryID)
	if err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	return requireRow(res, "preference")
}

// ---- transactions ----

func (q *queries) CreateTransaction(ctx context.Context, t *core.Transaction) error {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, category_id, account_id, amount_cents, description, created_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.UserID, t.CategoryID, nullableID(t.AccountID), t.Amount.Cents, t.Description, t.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("transaction insert id: %w", err)
	}
	return nil
}

func (q *queries) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, account_id, amount_cents, description, created_at_unix
		 FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row.Scan)
	if err == sql.ErrNoRows {
		return core.Transaction{}, core.NotFound("transaction")
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("select transaction: %w", err)
	}
	return t, nil
}

// GetTransactionForUpdate is a plain read: the store runs on a single
// connection, so units of work never see each other's uncommitted state.
func (q *queries) GetTransactionForUpdate(ctx context.Context, id int64) (core.Transaction, error) {
	return q.GetTransaction(ctx, id)
}

func (q *queries) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, account_id, amount_cents, description, created_at_unix
		 FROM transactions ORDER BY created_at_unix DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (q *queries) ListAccountTransactions(ctx context.Context, accountID int64) ([]core.Transaction, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, account_id, amount_cents, description, created_at_unix
		 FROM transactions WHERE account_id = ? ORDER BY created_at_unix DESC, id DESC`,
		accountID)
	if err != nil {
		return nil, fmt.Errorf("list account transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (q *queries) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	// created_at_unix is immutable and therefore not in the SET list.
	res, err := q.db.ExecContext(ctx,
		`UPDATE transactions SET user_id = ?, category_id = ?, account_id = ?, amount_cents = ?, description = ?
		 WHERE id = ?`,
		t.UserID, t.CategoryID, nullableID(t.AccountID), t.Amount.Cents, t.Description, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res, "transaction")
}

func (q *queries) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res, "transaction")
}

func (q *queries) SumUserCategorySpend(ctx context.Context, userID, categoryID int64) (int64, error) {
	var sum int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		 WHERE user_id = ? AND category_id = ?`, userID, categoryID).Scan(&sum)
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

func deadlineUnix(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func unixDeadline(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}

func scanTransaction(scan func(dest ...any) error) (core.Transaction, error) {
	var (
		t         core.Transaction
		accountID sql.NullInt64
		createdAt int64
	)
	if err := scan(&t.ID, &t.UserID, &t.CategoryID, &accountID, &t.Amount.Cents, &t.Description, &createdAt); err != nil {
		return core.Transaction{}, err
	}
	if accountID.Valid {
		id := accountID.Int64
		t.AccountID = &id
	}
	t.CreatedAt = time.Unix(0, createdAt).UTC()
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
