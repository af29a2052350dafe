// Package money provides currency-safe display and arithmetic for the
// engine's INR amounts using integer paise and the Fowler Money pattern.
package money

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// INR is the only currency the engine renders; statement amounts are
// parsed with symbols stripped, so currency is a presentation concern.
const INR = "INR"

// Money wraps go-money for safe arithmetic and locale-aware display.
type Money struct {
	m *money.Money
}

// New creates a Money value from paise (minor units).
func New(paise int64) *Money {
	return &Money{m: money.New(paise, INR)}
}

// FromDecimal converts a decimal rupee amount, rounding to whole paise.
func FromDecimal(d decimal.Decimal) *Money {
	return New(d.Round(2).Shift(2).IntPart())
}

// Decimal returns the amount as a decimal rupee value.
func (mo *Money) Decimal() decimal.Decimal {
	return decimal.New(mo.m.Amount(), -2)
}

// Add returns the sum of two amounts.
func (mo *Money) Add(other *Money) (*Money, error) {
	sum, err := mo.m.Add(other.m)
	if err != nil {
		return nil, err
	}
	return &Money{m: sum}, nil
}

// Display renders the amount with the currency symbol and grouping.
func (mo *Money) Display() string {
	return mo.m.Display()
}

// IsZero reports whether the amount is zero.
func (mo *Money) IsZero() bool {
	return mo.m.IsZero()
}
