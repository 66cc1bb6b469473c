package amount

import (
	"math"
	"time"

	"github.com/sebkoller/bookkeep/currency"
)

// Convert exchanges a into the target currency at the rate in effect on
// date. Zero amounts and amounts already in the target currency are
// returned unchanged.
func Convert(reg *currency.Registry, a Amount, to *currency.Currency, date time.Time) (Amount, error) {
	if a.Value == 0 || a.Currency == to {
		return a, nil
	}
	if a.Currency == nil {
		return Amount{Value: a.Value, Currency: to}, nil
	}
	rate, err := reg.RateAt(date, a.Currency, to)
	if err != nil {
		return Amount{}, err
	}
	// Account for differing exponents between the two currencies.
	scale := math.Pow10(to.Exponent - a.Currency.Exponent)
	value := int64(math.RoundToEven(float64(a.Value) * rate * scale))
	return Amount{Value: value, Currency: to}, nil
}
