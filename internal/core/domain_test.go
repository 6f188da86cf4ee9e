package core

import (
	"errors"
	"strings"
	"testing"
)

func TestUserValidate(t *testing.T) {
	cases := []struct {
		name string
		user User
		want error
	}{
		{"valid", User{Username: "vadim", Email: "vadim@example.com"}, nil},
		{"empty username", User{Username: "  ", Email: "a@b.c"}, ErrEmptyUsername},
		{"bad email", User{Username: "vadim", Email: "not-an-email"}, ErrInvalidEmail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.user.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCategoryValidate(t *testing.T) {
	if err := (Category{Name: "Groceries"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Category{Name: ""}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	long := Category{Name: strings.Repeat("x", 101)}
	if err := long.Validate(); !errors.Is(err, ErrNameTooLong) {
		t.Fatalf("expected ErrNameTooLong, got %v", err)
	}
}

func TestAccountValidate(t *testing.T) {
	if err := (Account{Name: "checking"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	long := Account{Name: strings.Repeat("x", 101)}
	if err := long.Validate(); !errors.Is(err, ErrNameTooLong) {
		t.Fatalf("expected ErrNameTooLong, got %v", err)
	}
}

func TestTransactionDataValidate(t *testing.T) {
	ok := TransactionData{UserID: 1, CategoryID: 1, Amount: Money{Cents: -250}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("signed amounts are valid, got %v", err)
	}
	bad := TransactionData{UserID: 1, CategoryID: 1, Description: strings.Repeat("x", 201)}
	if err := bad.Validate(); !errors.Is(err, ErrDescriptionTooLong) {
		t.Fatalf("expected ErrDescriptionTooLong, got %v", err)
	}
}

func TestGoalValidate(t *testing.T) {
	if err := (Goal{Title: "Vacation", Target: Money{Cents: 500000}}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Goal{Title: "", Target: Money{Cents: 1}}).Validate(); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if err := (Goal{Title: "t", Target: Money{Cents: -1}}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	long := Goal{Title: strings.Repeat("x", 201), Target: Money{Cents: 1}}
	if err := long.Validate(); !errors.Is(err, ErrTitleTooLong) {
		t.Fatalf("expected ErrTitleTooLong, got %v", err)
	}
}

func TestNotFoundError(t *testing.T) {
	err := NotFound("account")
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("NotFoundError should match ErrNotFound")
	}
	if err.Error() != "account not found" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Entity != "account" {
		t.Fatalf("expected entity 'account', got %+v", nf)
	}
}
