package currency

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRegisterIdempotent(t *testing.T) {
	reg := NewRegistry(nil)
	first := reg.Register("PLN", 2, time.Time{}, 1, time.Time{}, 1)
	second := reg.Register("PLN", 3, time.Time{}, 2, time.Time{}, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, second.Exponent)
}

func TestGetIsCaseInsensitive(t *testing.T) {
	reg := NewRegistry(nil)
	c, ok := reg.Get("usd")
	assert.True(t, ok)
	assert.Equal(t, "USD", c.Code)

	_, ok = reg.Get("ZZZ")
	assert.False(t, ok)
}

func TestRateAtSameCurrency(t *testing.T) {
	reg := NewRegistry(nil)
	usd, _ := reg.Get("USD")
	rate, err := reg.RateAt(day(2008, 1, 1), usd, usd)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, rate)
}

func TestRateAtRoutesThroughPivot(t *testing.T) {
	reg := NewRegistry(nil)
	usd, _ := reg.Get("USD")
	cad, _ := reg.Get("CAD")
	assert.NoError(t, reg.SetPivotValue(day(2008, 1, 1), usd, 1.1))

	rate, err := reg.RateAt(day(2008, 1, 1), usd, cad)
	assert.NoError(t, err)
	assert.Equal(t, 1.1, rate)

	rate, err = reg.RateAt(day(2008, 1, 1), cad, usd)
	assert.NoError(t, err)
	assert.Equal(t, 1/1.1, rate)
}

func TestRateAtForwardFill(t *testing.T) {
	reg := NewRegistry(nil)
	usd, _ := reg.Get("USD")
	cad, _ := reg.Get("CAD")
	assert.NoError(t, reg.SetPivotValue(day(2008, 1, 3), usd, 0.7))

	// Nearest rate at or before the date wins.
	rate, err := reg.RateAt(day(2008, 1, 31), usd, cad)
	assert.NoError(t, err)
	assert.Equal(t, 0.7, rate)

	// With nothing preceding, the nearest rate after the date is used.
	rate, err = reg.RateAt(day(2008, 1, 2), usd, cad)
	assert.NoError(t, err)
	assert.Equal(t, 0.7, rate)
}

func TestRateAtFallsBackToLatestRate(t *testing.T) {
	reg := NewRegistry(nil)
	cad, _ := reg.Get("CAD")
	xxx := reg.Register("XXX", 2, time.Time{}, 0, time.Time{}, 2.5)

	// No data at all: the currency's latest known rate applies.
	rate, err := reg.RateAt(day(2020, 6, 1), xxx, cad)
	assert.NoError(t, err)
	assert.Equal(t, 2.5, rate)
}

func TestRateAtBeforeStartDate(t *testing.T) {
	reg := NewRegistry(nil)
	usd, _ := reg.Get("USD")
	cad, _ := reg.Get("CAD")

	rate, err := reg.RateAt(day(1997, 1, 1), usd, cad)
	assert.NoError(t, err)
	assert.Equal(t, 1.425, rate)
}

func TestMemoryRateDBDateRange(t *testing.T) {
	db := NewMemoryRateDB()
	_, _, err := db.DateRange("USD")
	assert.IsError(t, err, ErrNoRate)

	assert.NoError(t, db.PutRate("USD", day(2008, 1, 3), 0.7))
	assert.NoError(t, db.PutRate("USD", day(2008, 1, 1), 0.9))
	first, last, err := db.DateRange("USD")
	assert.NoError(t, err)
	assert.Equal(t, day(2008, 1, 1), first)
	assert.Equal(t, day(2008, 1, 3), last)
}

func TestMemoryRateDBReplace(t *testing.T) {
	db := NewMemoryRateDB()
	assert.NoError(t, db.PutRate("USD", day(2008, 1, 1), 0.9))
	assert.NoError(t, db.PutRate("USD", day(2008, 1, 1), 0.95))
	rate, err := db.GetRate("USD", day(2008, 1, 1))
	assert.NoError(t, err)
	assert.Equal(t, 0.95, rate)
}
