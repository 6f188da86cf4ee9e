// Package memory is the in-process storage backend. It backs local runs
// without a database file and doubles as the store used by unit tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type prefKey struct {
	userID     int64
	categoryID int64
}

// state holds every table. Cloned wholesale at the start of a unit of work
// so a failed one can be rolled back by swapping the snapshot back in.
type state struct {
	users        map[int64]core.User
	categories   map[int64]core.Category
	accounts     map[int64]core.Account
	budgets      map[int64]core.Budget
	goals        map[int64]core.Goal
	preferences  map[prefKey]core.CategoryPreference
	transactions map[int64]core.Transaction
	nextID       int64
}

func newState() *state {
	return &state{
		users:        make(map[int64]core.User),
		categories:   make(map[int64]core.Category),
		accounts:     make(map[int64]core.Account),
		budgets:      make(map[int64]core.Budget),
		goals:        make(map[int64]core.Goal),
		preferences:  make(map[prefKey]core.CategoryPreference),
		transactions: make(map[int64]core.Transaction),
		nextID:       1,
	}
}

func (s *state) clone() *state {
	c := newState()
	c.nextID = s.nextID
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.budgets {
		c.budgets[k] = v
	}
	for k, v := range s.goals {
		c.goals[k] = v
	}
	for k, v := range s.preferences {
		c.preferences[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	return c
}

func (s *state) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// Store is a mutex-guarded in-memory store. The mutex is held for the whole
// unit of work, which trivially serializes concurrent balance updates.
type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store {
	return &Store{st: newState()}
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(&txView{st: s.st}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}

var _ storage.Store = (*Store)(nil)

// txView implements storage.Tx against the live state. The store mutex is
// already held while a txView is in use.
type txView struct {
	st *state
}

var _ storage.Tx = (*txView)(nil)

// ---- users ----

func (t *txView) CreateUser(ctx context.Context, u *core.User) error {
	u.ID = t.st.allocID()
	t.st.users[u.ID] = *u
	return nil
}

func (t *txView) GetUser(ctx context.Context, id int64) (core.User, error) {
	u, ok := t.st.users[id]
	if !ok {
		return core.User{}, core.NotFound("user")
	}
	return u, nil
}

func (t *txView) ListUsers(ctx context.Context) ([]core.User, error) {
	out := make([]core.User, 0, len(t.st.users))
	for _, u := range t.st.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *txView) UpdateUser(ctx context.Context, u core.User) error {
	if _, ok := t.st.users[u.ID]; !ok {
		return core.NotFound("user")
	}
	t.st.users[u.ID] = u
	return nil
}

func (t *txView) DeleteUser(ctx context.Context, id int64) error {
	if _, ok := t.st.users[id]; !ok {
		return core.NotFound("user")
	}
	delete(t.st.users, id)
	return nil
}

func (t *txView) UserReferenced(ctx context.Context, id int64) (bool, error) {
	for _, a := range t.st.accounts {
		if a.UserID == id {
			return true, nil
		}
	}
	for _, tr := range t.st.transactions {
		if tr.UserID == id {
			return true, nil
		}
	}
	for _, b := range t.st.budgets {
		if b.UserID == id {
			return true, nil
		}
	}
	for _, g := range t.st.goals {
		if g.UserID == id {
			return true, nil
		}
	}
	for k := range t.st.preferences {
		if k.userID == id {
			return true, nil
		}
	}
	return false, nil
}

// ---- categories ----

func (t *txView) CreateCategory(ctx context.Context, c *core.Category) error {
	c.ID = t.st.allocID()
	t.st.categories[c.ID] = *c
	return nil
}

func (t *txView) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	c, ok := t.st.categories[id]
	if !ok {
		return core.Category{}, core.NotFound("category")
	}
	return c, nil
}

func (t *txView) ListCategories(ctx context.Context) ([]core.Category, error) {
	out := make([]core.Category, 0, len(t.st.categories))
	for _, c := range t.st.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *txView) UpdateCategory(ctx context.Context, c core.Category) error {
	if _, ok := t.st.categories[c.ID]; !ok {
		return core.NotFound("category")
	}
	t.st.categories[c.ID] = c
	return nil
}

func (t *txView) DeleteCategory(ctx context.Context, id int64) error {
	if _, ok := t.st.categories[id]; !ok {
		return core.NotFound("category")
	}
	delete(t.st.categories, id)
	return nil
}

func (t *txView) CategoryReferenced(ctx context.Context, id int64) (bool, error) {
	for _, tr := range t.st.transactions {
		if tr.CategoryID == id {
			return true, nil
		}
	}
	for _, b := range t.st.budgets {
		if b.CategoryID == id {
			return true, nil
		}
	}
	for k := range t.st.preferences {
		if k.categoryID == id {
			return true, nil
		}
	}
	return false, nil
}

// ---- accounts ----

func (t *txView) CreateAccount(ctx context.Context, a *core.Account) error {
	a.ID = t.st.allocID()
	t.st.accounts[a.ID] = *a
	return nil
}

func (t *txView) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	a, ok := t.st.accounts[id]
	if !ok {
		return core.Account{}, core.NotFound("account")
	}
	return a, nil
}

func (t *txView) ListAccounts(ctx context.Context) ([]core.Account, error) {
	out := make([]core.Account, 0, len(t.st.accounts))
	for _, a := range t.st.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *txView) UpdateAccount(ctx context.Context, a core.Account) error {
	cur, ok := t.st.accounts[a.ID]
	if !ok {
		return core.NotFound("account")
	}
	cur.UserID = a.UserID
	cur.Name = a.Name
	t.st.accounts[a.ID] = cur
	return nil
}

func (t *txView) DeleteAccount(ctx context.Context, id int64) error {
	if _, ok := t.st.accounts[id]; !ok {
		return core.NotFound("account")
	}
	delete(t.st.accounts, id)
	return nil
}

func (t *txView) AccountReferenced(ctx context.Context, id int64) (bool, error) {
	for _, tr := range t.st.transactions {
		if tr.AccountID != nil && *tr.AccountID == id {
			return true, nil
		}
	}
	return false, nil
}

func (t *txView) AdjustAccountBalance(ctx context.Context, id int64, deltaCents int64) error {
	a, ok := t.st.accounts[id]
	if !ok {
		return core.NotFound("account")
	}
	a.Balance.Cents += deltaCents
	t.st.accounts[id] = a
	return nil
}

func (t *txView) SumAccountTransactions(ctx context.Context, accountID int64) (int64, error) {
	var sum int64
	for _, tr := range t.st.transactions {
		if tr.AccountID != nil && *tr.AccountID == accountID {
			sum += tr.Amount.Cents
		}
	}
	return sum, nil
}

// ---- budgets ----

func (t *txView) CreateBudget(ctx context.Context, b *core.Budget) error {
	b.ID = t.st.allocID()
	t.st.budgets[b.ID] = *b
	return nil
}

func (t *txView) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	b, ok := t.st.budgets[id]
	if !ok {
		return core.Budget{}, core.NotFound("budget")
	}
	return b, nil
}

func (t *txView) GetBudgetByUserCategory(ctx context.Context, userID, categoryID int64) (core.Budget, error) {
	for _, b := range t.st.budgets {
		if b.UserID == userID && b.CategoryID == categoryID {
			return b, nil
		}
	}
	return core.Budget{}, core.NotFound("budget")
}

func (t *txView) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	out := make([]core.Budget, 0, len(t.st.budgets))
	for _, b := range t.st.budgets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *txView) UpdateBudget(ctx context.Context, b core.Budget) error {
	if _, ok := t.st.budgets[b.ID]; !ok {
		return core.NotFound("budget")
	}
	t.st.budgets[b.ID] = b
	return nil
}

func (t *txView) DeleteBudget(ctx context.Context, id int64) error {
	if _, ok := t.st.budgets[id]; !ok {
		return core.NotFound("budget")
	}
	delete(t.st.budgets, id)
	return nil
}

// ---- goals ----

func (t *txView) CreateGoal(ctx context.Context, g *core.Goal) error {
	g.ID = t.st.allocID()
	t.st.goals[g.ID] = *g
	return nil
}

func (t *txView) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	g, ok := t.st.goals[id]
	if !ok {
		return core.Goal{}, core.NotFound("goal")
	}
	return g, nil
}

func (t *txView) ListGoals(ctx context.Context) ([]core.Goal, error) {
	out := make([]core.Goal, 0, len(t.st.goals))
	for _, g := range t.st.goals {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *txView) UpdateGoal(ctx context.Context, g core.Goal) error {
	if _, ok := t.st.goals[g.ID]; !ok {
		return core.NotFound("goal")
	}
	t.st.goals[g.ID] = g
	return nil
}

func (t *txView) DeleteGoal(ctx context.Context, id int64) error {
	if _, ok := t.st.goals[id]; !ok {
		return core.NotFound("goal")
	}
	delete(t.st.goals, id)
	return nil
}

// ---- preferences ----

// CreatePreference mirrors the SQL backends' composite primary key: a second
// row for the same (user, category) pair is a conflict, not an overwrite.
func (t *txView) CreatePreference(ctx context.Context, p core.CategoryPreference) error {
	key := prefKey{p.UserID, p.CategoryID}
	if _, ok := t.st.preferences[key]; ok {
		return fmt.Errorf("preference %d/%d: %w", p.UserID, p.CategoryID, core.ErrConflict)
	}
	t.st.preferences[key] = p
	return nil
}

func (t *txView) GetPreference(ctx context.Context, userID, categoryID int64) (core.CategoryPreference, error) {
	p, ok := t.st.preferences[prefKey{userID, categoryID}]
	if !ok {
		return core.CategoryPreference{}, core.NotFound("preference")
	}
	return p, nil
}

func (t *txView) ListPreferences(ctx context.Context) ([]core.CategoryPreference, error) {
	out := make([]core.CategoryPreference, 0, len(t.st.preferences))
	for _, p := range t.st.preferences {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out, nil
}

func (t *txView) UpdatePreference(ctx context.Context, p core.CategoryPreference) error {
	k := prefKey{p.UserID, p.CategoryID}
	if _, ok := t.st.preferences[k]; !ok {
		return core.NotFound("preference")
	}
	t.st.preferences[k] = p
	return nil
}

func (t *txView) DeletePreference(ctx context.Context, userID, categoryID int64) error {
	k := prefKey{userID, categoryID}
	if _, ok := t.st.preferences[k]; !ok {
		return core.NotFound("preference")
	}
	delete(t.st.preferences, k)
	return nil
}

// ---- transactions ----

func (t *txView) CreateTransaction(ctx context.Context, tr *core.Transaction) error {
	tr.ID = t.st.allocID()
	if tr.AccountID != nil {
		id := *tr.AccountID
		tr.AccountID = &id
	}
	t.st.transactions[tr.ID] = *tr
	return nil
}

func (t *txView) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	tr, ok := t.st.transactions[id]
	if !ok {
		return core.Transaction{}, core.NotFound("transaction")
	}
	return tr, nil
}

// GetTransactionForUpdate needs no extra locking here: units of work hold the
// store-wide mutex and never interleave.
func (t *txView) GetTransactionForUpdate(ctx context.Context, id int64) (core.Transaction, error) {
	return t.GetTransaction(ctx, id)
}

func (t *txView) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	out := make([]core.Transaction, 0, len(t.st.transactions))
	for _, tr := range t.st.transactions {
		out = append(out, tr)
	}
	// Newest first, matching the API's list order.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (t *txView) ListAccountTransactions(ctx context.Context, accountID int64) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, tr := range t.st.transactions {
		if tr.AccountID != nil && *tr.AccountID == accountID {
			out = append(out, tr)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (t *txView) UpdateTransaction(ctx context.Context, tr core.Transaction) error {
	if _, ok := t.st.transactions[tr.ID]; !ok {
		return core.NotFound("transaction")
	}
	if tr.AccountID != nil {
		id := *tr.AccountID
		tr.AccountID = &id
	}
	t.st.transactions[tr.ID] = tr
	return nil
}

func (t *txView) DeleteTransaction(ctx context.Context, id int64) error {
	if _, ok := t.st.transactions[id]; !ok {
		return core.NotFound("transaction")
	}
	delete(t.st.transactions, id)
	return nil
}

func (t *txView) SumUserCategorySpend(ctx context.Context, userID, categoryID int64) (int64, error) {
	var sum int64
	for _, tr := range t.st.transactions {
		if tr.UserID == userID && tr.CategoryID == categoryID {
			sum += tr.Amount.Cents
		}
	}
	return sum, nil
}
