package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money is a fixed-point amount that serializes with two fraction digits.
type Money struct {
	decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{decimal.Zero}

// NewMoney wraps d.
func NewMoney(d decimal.Decimal) Money {
	return Money{d}
}

// MustMoney parses s and panics on failure. Intended for literals.
func MustMoney(s string) Money {
	return Money{decimal.RequireFromString(s)}
}

// Plus returns m + o.
func (m Money) Plus(o Money) Money {
	return Money{m.Decimal.Add(o.Decimal)}
}

// Times returns m * n.
func (m Money) Times(n int) Money {
	return Money{m.Decimal.Mul(decimal.NewFromInt(int64(n)))}
}

// Same reports numeric equality, ignoring representation (3 == 3.00).
func (m Money) Same(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

// String renders the amount with exactly two fraction digits.
func (m Money) String() string {
	return m.StringFixed(2)
}

// MarshalJSON encodes the amount as a two-digit string, e.g. "12.65".
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.StringFixed(2))
}

// UnmarshalJSON accepts quoted strings and bare JSON numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}
