// Package amount implements fixed-point monetary values for the bookkeeping
// engine: arithmetic, textual parsing with expression support, formatting,
// and conversion between currencies.
//
// An Amount stores an integer value scaled by its currency's exponent (12.34
// USD is stored as 1234), avoiding floating-point drift. The zero Amount has
// no currency ("untyped zero") and is compatible with every currency.
package amount

import (
	"errors"
	"math"

	"github.com/sebkoller/bookkeep/currency"
)

// Arithmetic errors.
var (
	ErrDifferentCurrencies = errors.New("amounts of different currencies")
	ErrDivisionByZero      = errors.New("division by zero")
)

// Amount is a monetary value: an integer scaled by the currency's exponent.
// A zero value with a nil currency is compatible with any currency.
type Amount struct {
	Value    int64
	Currency *currency.Currency
}

// New creates an amount from an already-scaled integer value.
func New(value int64, c *currency.Currency) Amount {
	return Amount{Value: value, Currency: c}
}

// FromFloat creates an amount from a float in currency units (12.34 rather
// than 1234).
func FromFloat(value float64, c *currency.Currency) Amount {
	exp := 2
	if c != nil {
		exp = c.Exponent
	}
	return Amount{Value: int64(math.RoundToEven(value * math.Pow(10, float64(exp)))), Currency: c}
}

// Float returns the amount in currency units.
func (a Amount) Float() float64 {
	exp := 2
	if a.Currency != nil {
		exp = a.Currency.Exponent
	}
	return float64(a.Value) / math.Pow(10, float64(exp))
}

// IsZero returns whether the amount's value is zero, regardless of currency.
func (a Amount) IsZero() bool {
	return a.Value == 0
}

// Neg returns the amount with its sign flipped.
func (a Amount) Neg() Amount {
	return Amount{Value: -a.Value, Currency: a.Currency}
}

// Abs returns the amount with a non-negative value.
func (a Amount) Abs() Amount {
	if a.Value < 0 {
		return a.Neg()
	}
	return a
}

// SameCurrency returns whether a and b carry the same currency, treating
// zero amounts as wildcards.
func SameCurrency(a, b Amount) bool {
	if a.Value == 0 || b.Value == 0 {
		return true
	}
	return a.Currency == b.Currency
}

// Add returns a + b. Both amounts must be compatible: a zero amount is
// compatible with anything, otherwise the currencies must match.
func Add(a, b Amount) (Amount, error) {
	if !SameCurrency(a, b) {
		return Amount{}, ErrDifferentCurrencies
	}
	switch {
	case a.Value != 0 && b.Value != 0:
		return Amount{Value: a.Value + b.Value, Currency: a.Currency}, nil
	case a.Value != 0:
		return a, nil
	default:
		return b, nil
	}
}

// Sub returns a - b, with the same compatibility rules as Add.
func Sub(a, b Amount) (Amount, error) {
	return Add(a, b.Neg())
}

// MulFloat returns the amount scaled by a factor, rounded to the nearest
// representable value.
func (a Amount) MulFloat(factor float64) Amount {
	if factor == 0 {
		return Amount{}
	}
	return Amount{
		Value:    int64(math.RoundToEven(float64(a.Value) * factor)),
		Currency: a.Currency,
	}
}

// DivFloat returns the amount divided by a divisor.
func (a Amount) DivFloat(divisor float64) (Amount, error) {
	if divisor == 0 {
		return Amount{}, ErrDivisionByZero
	}
	return Amount{
		Value:    int64(math.RoundToEven(float64(a.Value) / divisor)),
		Currency: a.Currency,
	}, nil
}

// Div returns the ratio of two amounts of the same currency as a plain
// number.
func Div(a, b Amount) (float64, error) {
	if !SameCurrency(a, b) {
		return 0, ErrDifferentCurrencies
	}
	if b.Value == 0 {
		return 0, ErrDivisionByZero
	}
	return float64(a.Value) / float64(b.Value), nil
}

// Equal returns whether two amounts have the same value and compatible
// currencies. Zero amounts of different currencies are equal.
func Equal(a, b Amount) bool {
	if !SameCurrency(a, b) {
		return false
	}
	return a.Value == b.Value
}

// Cmp compares two compatible amounts, returning -1, 0 or 1.
func Cmp(a, b Amount) (int, error) {
	if !SameCurrency(a, b) {
		return 0, ErrDifferentCurrencies
	}
	switch {
	case a.Value < b.Value:
		return -1, nil
	case a.Value > b.Value:
		return 1, nil
	default:
		return 0, nil
	}
}
