// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
//
// Amounts are carried at full precision through every calculation;
// rounding to 2 decimal places happens only at the presentation layer
// (see Round2).
type Money = decimal.Decimal

// Quantity represents a product quantity. Fractional quantities are
// allowed (weights, meters), so it shares the decimal representation.
type Quantity = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Round2 rounds to 2 decimal places for presentation.
// Never use mid-calculation.
func Round2(m Money) Money {
	return m.Round(2)
}

// PercentOf returns value × pct / 100 at full precision.
func PercentOf(value, pct Money) Money {
	return value.Mul(pct).Div(decimal.NewFromInt(100))
}

// OneMinusPct returns the multiplier (1 − pct/100) used for
// sequential percentage discounts.
func OneMinusPct(pct Money) Money {
	one := decimal.NewFromInt(1)
	return one.Sub(pct.Div(decimal.NewFromInt(100)))
}

// OnePlusPct returns the multiplier (1 + pct/100) used for VAT markup.
func OnePlusPct(pct Money) Money {
	one := decimal.NewFromInt(1)
	return one.Add(pct.Div(decimal.NewFromInt(100)))
}
