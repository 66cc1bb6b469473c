package currency

import (
	"errors"
	"sort"
	"time"
)

// ErrNoRate is returned by a RateStore when no historical data exists for a
// currency. It is distinct from storage errors so callers can pick a
// fallback (assume the latest known rate, or refuse the edit).
var ErrNoRate = errors.New("no rate data for currency")

// RateStore persists historical exchange rates, keyed by (currency, date).
// Each rate is the value of one unit of the currency in pivot terms.
//
// GetRate uses forward-fill semantics: the nearest rate at or before the
// date wins, falling back to the nearest rate at or after it when nothing
// precedes it. ErrNoRate is returned when the series is empty.
type RateStore interface {
	GetRate(code string, date time.Time) (float64, error)
	PutRate(code string, date time.Time, rate float64) error
	DateRange(code string) (first, last time.Time, err error)
}

type ratePoint struct {
	date time.Time
	rate float64
}

// MemoryRateDB is an in-memory RateStore. It is used by tests and by
// embedders that don't want rate persistence.
type MemoryRateDB struct {
	series map[string][]ratePoint
}

// NewMemoryRateDB creates an empty in-memory rate store.
func NewMemoryRateDB() *MemoryRateDB {
	return &MemoryRateDB{series: make(map[string][]ratePoint)}
}

func (db *MemoryRateDB) GetRate(code string, date time.Time) (float64, error) {
	points := db.series[code]
	if len(points) == 0 {
		return 0, ErrNoRate
	}
	// First point strictly after date.
	i := sort.Search(len(points), func(i int) bool {
		return points[i].date.After(date)
	})
	if i > 0 {
		return points[i-1].rate, nil
	}
	return points[0].rate, nil
}

func (db *MemoryRateDB) PutRate(code string, date time.Time, rate float64) error {
	points := db.series[code]
	i := sort.Search(len(points), func(i int) bool {
		return !points[i].date.Before(date)
	})
	if i < len(points) && points[i].date.Equal(date) {
		points[i].rate = rate
	} else {
		points = append(points, ratePoint{})
		copy(points[i+1:], points[i:])
		points[i] = ratePoint{date: date, rate: rate}
	}
	db.series[code] = points
	return nil
}

func (db *MemoryRateDB) DateRange(code string) (time.Time, time.Time, error) {
	points := db.series[code]
	if len(points) == 0 {
		return time.Time{}, time.Time{}, ErrNoRate
	}
	return points[0].date, points[len(points)-1].date, nil
}
