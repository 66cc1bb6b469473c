// Package currency provides currency metadata and historical exchange rate
// lookups for the bookkeeping engine.
//
// All rates are stored as the value of one unit of a currency expressed in
// the pivot currency. Converting between two non-pivot currencies routes
// through the pivot: rate(from, to) = value(from) / value(to).
//
// The registry is an explicit value passed to every operation that needs
// currency resolution. There is no global registry.
package currency

import (
	"strings"
	"time"
)

// Currency describes a currency's formatting and rate metadata.
//
// The Exponent is the number of decimal digits carried by amounts of this
// currency. StartDate/StopDate bound the validity window of the historical
// rate series: before StartDate the StartRate applies, after StopDate the
// LatestRate applies.
type Currency struct {
	Code       string
	Exponent   int
	StartDate  time.Time
	StartRate  float64
	StopDate   time.Time
	LatestRate float64
}

// Registry holds all known currencies and answers rate queries against a
// RateStore. One of the registered currencies acts as the pivot; its value
// is always 1.
type Registry struct {
	byCode map[string]*Currency
	pivot  *Currency
	store  RateStore
}

// NewRegistry creates a registry backed by store, seeded with the three
// builtin currencies the engine has always shipped with. CAD acts as the
// pivot. A nil store behaves as an always-empty one.
func NewRegistry(store RateStore) *Registry {
	if store == nil {
		store = NewMemoryRateDB()
	}
	r := &Registry{
		byCode: make(map[string]*Currency),
		store:  store,
	}
	r.Register("USD", 2, date(1998, 1, 2), 1.425, time.Time{}, 1.0128)
	r.Register("EUR", 2, date(1999, 1, 4), 1.8123, time.Time{}, 1.3298)
	r.pivot = r.Register("CAD", 2, time.Time{}, 1, time.Time{}, 1)
	return r
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Register adds a currency to the registry and returns it. Registering an
// already-known code is a no-op that returns the existing instance.
func (r *Registry) Register(code string, exponent int, startDate time.Time, startRate float64, stopDate time.Time, latestRate float64) *Currency {
	code = strings.ToUpper(code)
	if c, ok := r.byCode[code]; ok {
		return c
	}
	c := &Currency{
		Code:       code,
		Exponent:   exponent,
		StartDate:  startDate,
		StartRate:  startRate,
		StopDate:   stopDate,
		LatestRate: latestRate,
	}
	r.byCode[code] = c
	return c
}

// Get returns the currency with the given code, case-insensitively.
func (r *Registry) Get(code string) (*Currency, bool) {
	c, ok := r.byCode[strings.ToUpper(code)]
	return c, ok
}

// All returns every registered currency, in no particular order.
func (r *Registry) All() []*Currency {
	all := make([]*Currency, 0, len(r.byCode))
	for _, c := range r.byCode {
		all = append(all, c)
	}
	return all
}

// Pivot returns the registry's pivot currency.
func (r *Registry) Pivot() *Currency {
	return r.pivot
}

// Store returns the underlying rate store.
func (r *Registry) Store() RateStore {
	return r.store
}

// RateAt returns the exchange rate from one currency to another at the given
// date, routing through the pivot. Same-currency conversions are always 1.
//
// If the store has no data for a currency, its LatestRate is assumed; storage
// errors are propagated.
func (r *Registry) RateAt(d time.Time, from, to *Currency) (float64, error) {
	if from.Code == to.Code {
		return 1, nil
	}
	v1, err := r.valueInPivot(d, from)
	if err != nil {
		return 0, err
	}
	v2, err := r.valueInPivot(d, to)
	if err != nil {
		return 0, err
	}
	if v2 == 0 {
		return 1, nil
	}
	return v1 / v2, nil
}

// SetPivotValue records the value of one unit of currency in pivot terms at
// the given date.
func (r *Registry) SetPivotValue(d time.Time, c *Currency, value float64) error {
	return r.store.PutRate(c.Code, d, value)
}

// valueInPivot returns the value of one unit of c expressed in the pivot
// currency at date d.
func (r *Registry) valueInPivot(d time.Time, c *Currency) (float64, error) {
	if c == r.pivot {
		return 1, nil
	}
	if !c.StartDate.IsZero() && d.Before(c.StartDate) {
		return c.StartRate, nil
	}
	if !c.StopDate.IsZero() && d.After(c.StopDate) {
		return c.LatestRate, nil
	}
	rate, err := r.store.GetRate(c.Code, d)
	if err == ErrNoRate {
		return c.LatestRate, nil
	}
	if err != nil {
		return 0, err
	}
	return rate, nil
}
