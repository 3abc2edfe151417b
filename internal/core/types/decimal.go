// Package types provides monetary value helpers.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NullMoney is an optional monetary value (NULL in the database, null in JSON).
type NullMoney = decimal.NullDecimal

// MoneyScale is the number of fractional digits kept for currency amounts.
const MoneyScale = 2

var hundred = decimal.NewFromInt(100)

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	return decimal.RequireFromString(s)
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Round2 rounds to two decimal places, half to even (2.205 -> 2.20, 2.215 -> 2.22).
func Round2(m Money) Money {
	return m.RoundBank(MoneyScale)
}

// Percent returns value * pct / 100 without rounding.
func Percent(value, pct Money) Money {
	return value.Mul(pct).Div(hundred)
}

// InPercentRange reports whether pct lies in [0, 100].
func InPercentRange(pct Money) bool {
	return !pct.IsNegative() && pct.LessThanOrEqual(hundred)
}

// SomeMoney wraps a value as a present NullMoney.
func SomeMoney(m Money) NullMoney {
	return NullMoney{Decimal: m, Valid: true}
}

// ValueOrZero returns the value of n or zero when absent.
func ValueOrZero(n NullMoney) Money {
	if !n.Valid {
		return decimal.Zero
	}
	return n.Decimal
}
