// Package recurrence implements the calendar arithmetic behind recurring
// transactions.
package recurrence

import (
	"errors"
	"time"
)

// Rule determines how a recurring date advances.
type Rule int

const (
	Daily Rule = iota + 1
	Weekly
	Monthly
	Yearly
	// NthWeekday preserves the ordinal weekday occurrence within the month,
	// e.g. "2nd Friday".
	NthWeekday
	// LastWeekday preserves "last occurrence of weekday X" in the month.
	LastWeekday
)

func (r Rule) String() string {
	switch r {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	case NthWeekday:
		return "nth weekday of month"
	case LastWeekday:
		return "last weekday of month"
	default:
		return "unknown"
	}
}

// ErrNonexistentDay is returned when an nth-weekday occurrence doesn't
// exist in the target month, e.g. a 5th Thursday. The rules never clamp to
// a nearby day; a recurrence simply skips such months.
var ErrNonexistentDay = errors.New("day does not exist in target month")

// Increment advances date by count applications of the rule. count may be
// negative.
//
// Monthly and yearly increments clamp an overflowing day-of-month to the
// last day of the target month (Jan 31 -> Feb 28). NthWeekday fails with
// ErrNonexistentDay when the occurrence is missing; LastWeekday always
// succeeds.
func Increment(date time.Time, rule Rule, count int) (time.Time, error) {
	switch rule {
	case Daily:
		return date.AddDate(0, 0, count), nil
	case Weekly:
		return date.AddDate(0, 0, count*7), nil
	case Monthly:
		return incMonthly(date, count), nil
	case Yearly:
		return incMonthly(date, count*12), nil
	case NthWeekday:
		return incNthWeekday(date, count)
	case LastWeekday:
		return incLastWeekday(date, count), nil
	default:
		return date, nil
	}
}

func incMonthly(date time.Time, months int) time.Time {
	y, m, d := date.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, date.Location())
	if last := daysIn(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, date.Location())
}

func incNthWeekday(date time.Time, months int) (time.Time, error) {
	y, m, d := date.Date()
	weekday := date.Weekday()
	ordinal := (d - 1) / 7
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, date.Location())
	diff := (int(weekday) - int(first.Weekday()) + 7) % 7
	day := ordinal*7 + diff + 1
	if day > daysIn(first) {
		return time.Time{}, ErrNonexistentDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, date.Location()), nil
}

func incLastWeekday(date time.Time, months int) time.Time {
	y, m, _ := date.Date()
	weekday := date.Weekday()
	// Day zero normalizes to the last day of the previous month.
	last := time.Date(y, m+time.Month(months)+1, 0, 0, 0, 0, 0, date.Location())
	diff := (int(last.Weekday()) - int(weekday) + 7) % 7
	return time.Date(last.Year(), last.Month(), last.Day()-diff, 0, 0, 0, 0, date.Location())
}

// daysIn returns the number of days in t's month.
func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
