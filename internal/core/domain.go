package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Money is a signed amount in cents. Balance arithmetic stays in integer
	// cents to avoid floating-point drift.
	Money struct {
		Cents int64
	}

	User struct {
		ID       int64
		Username string
		Email    string
	}

	Category struct {
		ID   int64
		Name string
	}

	// Account carries a materialized balance. The balance always equals the
	// sum of amounts of the transactions currently pointing at the account;
	// only the ledger engine may change it.
	Account struct {
		ID      int64
		UserID  int64
		Name    string
		Balance Money
	}

	// Transaction is a single posting. AccountID is optional: a transaction
	// without an account contributes to no balance. CreatedAt is immutable.
	Transaction struct {
		ID          int64
		UserID      int64
		CategoryID  int64
		AccountID   *int64
		Amount      Money
		Description string
		CreatedAt   time.Time
	}

	// TransactionData is the full set of caller-supplied transaction fields.
	// Amend replaces every field with it; there are no partial updates.
	TransactionData struct {
		UserID      int64
		CategoryID  int64
		AccountID   *int64
		Amount      Money
		Description string
	}

	Budget struct {
		ID         int64
		UserID     int64
		CategoryID int64
		Limit      Money
	}

	Goal struct {
		ID       int64
		UserID   int64
		Title    string
		Target   Money
		Current  Money
		Deadline *time.Time
	}

	// CategoryPreference is keyed by (UserID, CategoryID).
	CategoryPreference struct {
		UserID               int64
		CategoryID           int64
		NotificationsEnabled bool
	}
)

var (
	// ErrNotFound is the sentinel every NotFoundError matches via errors.Is.
	ErrNotFound = errors.New("not found")

	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyName          = errors.New("empty name")
	ErrEmptyUsername      = errors.New("empty username")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmptyTitle         = errors.New("empty title")
	ErrNameTooLong        = errors.New("name too long (max 100 characters)")
	ErrTitleTooLong       = errors.New("title too long (max 200 characters)")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrConflict           = errors.New("still referenced by other records")
)

// NotFoundError reports which referenced entity was absent: "user",
// "category", "account", "transaction", "budget", "goal" or "preference".
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound builds a NotFoundError for the given entity name.
func NotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return ErrNameTooLong
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if len(a.Name) > 100 {
		return ErrNameTooLong
	}
	return nil
}

func (d TransactionData) Validate() error {
	if len(d.Description) > 200 {
		return ErrDescriptionTooLong
	}
	return nil
}

func (b Budget) Validate() error {
	if b.Limit.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrEmptyTitle
	}
	if len(g.Title) > 200 {
		return ErrTitleTooLong
	}
	if g.Target.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}
