// Package core holds the finance domain model shared by every component.
//
// This file contains amount parsing and formatting. Caller input arrives as
// decimal strings (or JSON numbers rendered as strings); internally every
// amount is signed integer cents.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var maxCents = decimal.NewFromInt(math.MaxInt64)

// ParseAmount converts a signed decimal string to Money with half-up rounding
// on the third decimal place. Both dot and comma separators are accepted.
// Zero is a valid amount; anything non-numeric or outside the int64 cent
// range fails with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234 cents
//	ParseAmount("-0,5")   -> -50 cents
//	ParseAmount("12.345") -> 1235 cents (rounds half up)
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}

	cents := d.Shift(2).Round(0)
	if cents.Abs().GreaterThan(maxCents) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// Decimal returns the amount as an exact decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats the amount with two decimal places, e.g. "-12.34".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Neg returns the negated amount.
func (m Money) Neg() Money {
	return Money{Cents: -m.Cents}
}
