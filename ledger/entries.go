package ledger

import (
	"sort"
	"time"

	"github.com/sebkoller/bookkeep/amount"
	"github.com/sebkoller/bookkeep/currency"
)

// DateRange is an inclusive date interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls within the range. A zero bound is open.
func (r DateRange) Contains(d time.Time) bool {
	if !r.Start.IsZero() && d.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && d.After(r.End) {
		return false
	}
	return true
}

// EntryList holds an account's entries in natural order, together with the
// cached running balances computed by Cook.
//
// Entries before cookedUntil carry valid caches; the cursor only advances,
// except through Clear.
type EntryList struct {
	account *Account
	entries []*Entry

	cookedUntil    int
	lastReconciled *Entry
}

// NewEntryList creates an empty list for the given account.
func NewEntryList(account *Account) *EntryList {
	return &EntryList{account: account}
}

// Account returns the account the list belongs to.
func (el *EntryList) Account() *Account {
	return el.account
}

func (el *EntryList) Len() int {
	return len(el.entries)
}

// At returns the entry at position i.
func (el *EntryList) At(i int) *Entry {
	return el.entries[i]
}

// All returns the entries in natural order. The returned slice is shared;
// callers must not modify it.
func (el *EntryList) All() []*Entry {
	return el.entries
}

// Add appends an entry. Calls must always be made in natural order; this is
// normally only done by the Oven.
func (el *EntryList) Add(e *Entry) {
	e.index = len(el.entries)
	el.entries = append(el.entries, e)
}

// findDate is the binary-search primitive behind date-bound queries: it
// returns the index of the first entry whose date is strictly greater than
// date (equal true) or greater-or-equal (equal false). It returns 0 for an
// empty list and Len when every entry is earlier.
func (el *EntryList) findDate(date time.Time, equal bool) int {
	return sort.Search(len(el.entries), func(i int) bool {
		d := el.entries[i].Date()
		if equal {
			return d.After(date)
		}
		return !d.Before(date)
	})
}

// LastEntry returns the last entry dated at or before date, or the very
// last entry when date is zero. Returns nil on an empty prefix.
func (el *EntryList) LastEntry(date time.Time) *Entry {
	idx := len(el.entries)
	if !date.IsZero() {
		idx = el.findDate(date, true)
	}
	if idx == 0 {
		return nil
	}
	return el.entries[idx-1]
}

// Balance returns the running balance at date (or the latest balance for a
// zero date). With a target currency and a date, the result is converted at
// that date.
func (el *EntryList) Balance(reg *currency.Registry, date time.Time, target *currency.Currency) (amount.Amount, error) {
	return el.balance(reg, date, target, false)
}

// BalanceWithBudget is Balance including budget spawns.
func (el *EntryList) BalanceWithBudget(reg *currency.Registry, date time.Time, target *currency.Currency) (amount.Amount, error) {
	return el.balance(reg, date, target, true)
}

func (el *EntryList) balance(reg *currency.Registry, date time.Time, target *currency.Currency, withBudget bool) (amount.Amount, error) {
	entry := el.LastEntry(date)
	if entry == nil {
		return amount.Amount{}, nil
	}
	bal := entry.Balance
	if withBudget {
		bal = entry.BalanceWithBudget
	}
	if target != nil && !date.IsZero() {
		converted, err := amount.Convert(reg, bal, target, date)
		if err != nil {
			return amount.Amount{}, &ConversionError{Date: date, Currency: target.Code, Underlying: err}
		}
		return converted, nil
	}
	return bal, nil
}

// NormalBalance returns Balance normalized to the account's natural sign.
func (el *EntryList) NormalBalance(reg *currency.Registry, date time.Time, target *currency.Currency) (amount.Amount, error) {
	bal, err := el.Balance(reg, date, target)
	if err != nil {
		return amount.Amount{}, err
	}
	return el.account.NormalizeAmount(bal), nil
}

// BalanceOfReconciled returns the reconciled running balance stamped on the
// latest-reconciled entry, or zero if nothing is reconciled yet.
func (el *EntryList) BalanceOfReconciled() amount.Amount {
	if el.lastReconciled == nil {
		return amount.Amount{}
	}
	return el.lastReconciled.ReconciledBalance
}

// CashFlow sums the entry amounts within the range, each converted into
// target at its own transaction date. Budget spawns are excluded. A nil
// target means the account's currency.
func (el *EntryList) CashFlow(reg *currency.Registry, r DateRange, target *currency.Currency) (amount.Amount, error) {
	if target == nil {
		target = el.account.Currency
	}
	var total amount.Amount
	for _, e := range el.entries {
		if !r.Contains(e.Date()) || e.Transaction.IsBudget() {
			continue
		}
		converted, err := amount.Convert(reg, e.Amount(), target, e.Date())
		if err != nil {
			return amount.Amount{}, &ConversionError{Date: e.Date(), Currency: target.Code, Underlying: err}
		}
		total, err = amount.Add(total, converted)
		if err != nil {
			return amount.Amount{}, err
		}
	}
	return total, nil
}

// NormalCashFlow returns CashFlow normalized to the account's natural sign.
func (el *EntryList) NormalCashFlow(reg *currency.Registry, r DateRange, target *currency.Currency) (amount.Amount, error) {
	flow, err := el.CashFlow(reg, r, target)
	if err != nil {
		return amount.Amount{}, err
	}
	return el.account.NormalizeAmount(flow), nil
}

// Clear truncates the list to entries strictly before fromDate, or empties
// it entirely for a zero date. The last-reconciled tracker is recomputed
// from the retained prefix, since the discarded suffix may have held it.
func (el *EntryList) Clear(fromDate time.Time) {
	if fromDate.IsZero() {
		el.entries = nil
	} else {
		el.entries = el.entries[:el.findDate(fromDate, false)]
	}
	if el.cookedUntil > len(el.entries) {
		el.cookedUntil = len(el.entries)
	}
	el.lastReconciled = nil
	for _, e := range el.entries[:el.cookedUntil] {
		if el.lastReconciled == nil || !e.reconciliationKeyLess(el.lastReconciled) {
			el.lastReconciled = e
		}
	}
}

// Cook fills the balance caches of the entries added since the last call.
//
// The new entries are processed in natural order: each split amount is
// converted to the account's currency at its transaction date and folded
// into the running totals (budget spawns only count toward the
// budget-inclusive one). The same entries, sorted in reconciliation order,
// feed a second accumulator that only advances on reconciled entries, yet
// is stamped on every entry; that stamp is what makes "balance since last
// reconciliation" a constant-time read and must not be limited to
// reconciled entries.
//
// Cooking with no new entries is a no-op. On a conversion failure no entry
// is stamped and the cursor stays put.
func (el *EntryList) Cook(reg *currency.Registry) error {
	fresh := el.entries[el.cookedUntil:]
	if len(fresh) == 0 {
		return nil
	}

	// Convert everything up front so a failure stamps nothing.
	converted := make(map[*Entry]amount.Amount, len(fresh))
	for _, e := range fresh {
		c, err := amount.Convert(reg, e.Split.Amount, el.account.Currency, e.Date())
		if err != nil {
			return &ConversionError{Date: e.Date(), Currency: el.account.Currency.Code, Underlying: err}
		}
		converted[e] = c
	}

	var total, totalWithBudget amount.Amount
	if el.cookedUntil > 0 {
		prev := el.entries[el.cookedUntil-1]
		total = prev.Balance
		totalWithBudget = prev.BalanceWithBudget
	}
	for _, e := range fresh {
		if !e.Transaction.IsBudget() {
			total, _ = amount.Add(total, converted[e])
		}
		totalWithBudget, _ = amount.Add(totalWithBudget, converted[e])
		e.Balance = total
		e.BalanceWithBudget = totalWithBudget
	}

	inRecOrder := make([]*Entry, len(fresh))
	copy(inRecOrder, fresh)
	sort.SliceStable(inRecOrder, func(i, j int) bool {
		return inRecOrder[i].reconciliationKeyLess(inRecOrder[j])
	})
	recTotal := el.BalanceOfReconciled()
	for _, e := range inRecOrder {
		if e.Reconciled() {
			recTotal, _ = amount.Add(recTotal, converted[e])
		}
		e.ReconciledBalance = recTotal
	}

	el.cookedUntil = len(el.entries)
	for _, e := range fresh {
		if el.lastReconciled == nil || !e.reconciliationKeyLess(el.lastReconciled) {
			el.lastReconciled = e
		}
	}
	return nil
}
