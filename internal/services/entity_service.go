package services

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// EntityService is the CRUD side for everything except transactions. Every
// write validates the entity and the existence of what it references; deletes
// of still-referenced entities fail with core.ErrConflict.
type EntityService struct {
	store storage.Store
}

func NewEntityService(store storage.Store) *EntityService {
	return &EntityService{store: store}
}

// ---- users ----

func (s *EntityService) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	if err := u.Validate(); err != nil {
		return core.User{}, err
	}
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		return tx.CreateUser(ctx, &u)
	})
	if err != nil {
		return core.User{}, err
	}
	return u, nil
}

func (s *EntityService) GetUser(ctx context.Context, id int64) (core.User, error) {
	var u core.User
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		u, err = tx.GetUser(ctx, id)
		return err
	})
	return u, err
}

func (s *EntityService) UpdateUser(ctx context.Context, u core.User) (core.User, error) {
	if err := u.Validate(); err != nil {
		return core.User{}, err
	}
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		return tx.UpdateUser(ctx, u)
	})
	if err != nil {
		return core.User{}, err
	}
	return u, nil
}

func (s *EntityService) DeleteUser(ctx context.Context, id int64) error {
	return s.store.WithinTx(ctx, func(tx storage.Tx) error {
		referenced, err := tx.UserReferenced(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return fmt.Errorf("delete user %d: %w", id, core.ErrConflict)
		}
		return tx.DeleteUser(ctx, id)
	})
}

// ---- categories ----

func (s *EntityService) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		return tx.CreateCategory(ctx, &c)
	})
	if err != nil {
		return core.Category{}, err
	}
	return c, nil
}

func (s *EntityService) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		c, err = tx.GetCategory(ctx, id)
		return err
	})
	return c, err
}

func (s *EntityService) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		return tx.UpdateCategory(ctx, c)
	})
	if err != nil {
		return core.Category{}, err
	}
	return c, nil
}

func (s *EntityService) DeleteCategory(ctx context.Context, id int64) error {
	return s.store.WithinTx(ctx, func(tx storage.Tx) error {
		referenced, err := tx.CategoryReferenced(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return fmt.Errorf("delete category %d: %w", id, core.ErrConflict)
		}
		return tx.DeleteCategory(ctx, id)
	})
}

// ---- accounts ----

// CreateAccount opens the account with a zero balance; the balance only
// moves when transactions post against it.
func (s *EntityService) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	a.Balance = core.Money{}
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetUser(ctx, a.UserID); err != nil {
			return err
		}
		return tx.CreateAccount(ctx, &a)
	})
	if err != nil {
		return core.Account{}, err
	}
	return a, nil
}

func (s *EntityService) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	var a core.Account
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		a, err = tx.GetAccount(ctx, id)
		return err
	})
	return a, err
}

// UpdateAccount replaces owner and name. The stored balance is returned
// untouched.
func (s *EntityService) UpdateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	var updated core.Account
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetUser(ctx, a.UserID); err != nil {
			return err
		}
		if err := tx.UpdateAccount(ctx, a); err != nil {
			return err
		}
		var err error
		updated, err = tx.GetAccount(ctx, a.ID)
		return err
	})
	if err != nil {
		return core.Account{}, err
	}
	return updated, nil
}

func (s *EntityService) DeleteAccount(ctx context.Context, id int64) error {
	return s.store.WithinTx(ctx, func(tx storage.Tx) error {
		referenced, err := tx.AccountReferenced(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return fmt.Errorf("delete account %d: %w", id, core.ErrConflict)
		}
		return tx.DeleteAccount(ctx, id)
	})
}

// ---- budgets ----

func (s *EntityService) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetUser(ctx, b.UserID); err != nil {
			return err
		}
		if _, err := tx.GetCategory(ctx, b.CategoryID); err != nil {
			return err
		}
		return tx.CreateBudget(ctx, &b)
	})
	if err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

func (s *EntityService) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	var b core.Budget
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		b, err = tx.GetBudget(ctx, id)
		return err
	})
	return b, err
}

func (s *EntityService) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetUser(ctx, b.UserID); err != nil {
			return err
		}
		if _, err := tx.GetCategory(ctx, b.CategoryID); err != nil {
			return err
		}
		return tx.UpdateBudget(ctx, b)
	})
	if err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

func (s *EntityService) DeleteBudget(ctx context.Context, id int64) error {
	return s.store.WithinTx(ctx, func(tx storage.Tx) error {
		return tx.DeleteBudget(ctx, id)
	})
}

// ---- goals ----

func (s *EntityService) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetUser(ctx, g.UserID); err != nil {
			return err
		}
		return tx.CreateGoal(ctx, &g)
	})
	if err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

func (s *EntityService) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	var g core.Goal
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		g, err = tx.GetGoal(ctx, id)
		return err
	})
	return g, err
}

func (s *EntityService) UpdateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetUser(ctx, g.UserID); err != nil {
			return err
		}
		return tx.UpdateGoal(ctx, g)
	})
	if err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

func (s *EntityService) DeleteGoal(ctx context.Context, id int64) error {
	return s.store.WithinTx(ctx, func(tx storage.Tx) error {
		return tx.DeleteGoal(ctx, id)
	})
}

// ---- preferences ----

// CreatePreference rejects a duplicate (user, category) pair with
// core.ErrConflict; changing an existing preference goes through
// UpdatePreference.
func (s *EntityService) CreatePreference(ctx context.Context, p core.CategoryPreference) (core.CategoryPreference, error) {
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetUser(ctx, p.UserID); err != nil {
			return err
		}
		if _, err := tx.GetCategory(ctx, p.CategoryID); err != nil {
			return err
		}
		if _, err := tx.GetPreference(ctx, p.UserID, p.CategoryID); err == nil {
			return fmt.Errorf("preference for user %d category %d exists: %w", p.UserID, p.CategoryID, core.ErrConflict)
		} else if !errors.Is(err, core.ErrNotFound) {
			return err
		}
		return tx.CreatePreference(ctx, p)
	})
	if err != nil {
		return core.CategoryPreference{}, err
	}
	return p, nil
}

func (s *EntityService) GetPreference(ctx context.Context, userID, categoryID int64) (core.CategoryPreference, error) {
	var p core.CategoryPreference
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		p, err = tx.GetPreference(ctx, userID, categoryID)
		return err
	})
	return p, err
}

func (s *EntityService) UpdatePreference(ctx context.Context, p core.CategoryPreference) (core.CategoryPreference, error) {
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		return tx.UpdatePreference(ctx, p)
	})
	if err != nil {
		return core.CategoryPreference{}, err
	}
	return p, nil
}

func (s *EntityService) DeletePreference(ctx context.Context, userID, categoryID int64) error {
	return s.store.WithinTx(ctx, func(tx storage.Tx) error {
		return tx.DeletePreference(ctx, userID, categoryID)
	})
}
