package ledger

import (
	"context"
	"time"

	"github.com/sebkoller/bookkeep/currency"
	"github.com/sebkoller/bookkeep/telemetry"
)

// Oven turns splits into cooked entries: it walks the transactions of a
// date window, produces an Entry per (account, split) pair and fills the
// running-balance caches.
type Oven struct {
	accounts     *AccountList
	transactions *TransactionList
}

// NewOven creates an oven over the given lists.
func NewOven(accounts *AccountList, transactions *TransactionList) *Oven {
	return &Oven{accounts: accounts, transactions: transactions}
}

// Cook re-derives the entries of every transaction dated within [from,
// until]. Zero bounds are open. Existing entries from the window onward are
// cleared first, so cooking the same window twice is idempotent.
func (o *Oven) Cook(ctx context.Context, reg *currency.Registry, from, until time.Time) error {
	timer := telemetry.FromContext(ctx).Start("Cook entries")
	defer timer.End()

	sortTimer := timer.Child("Sort transactions")
	o.transactions.Sort()
	sortTimer.End()

	window := DateRange{Start: from, End: until}
	touched := make(map[*EntryList]bool)
	for _, a := range o.accounts.All() {
		el := o.accounts.EntriesForAccount(a)
		el.Clear(from)
		touched[el] = true
	}

	fillTimer := timer.Child("Generate entries")
	for _, txn := range o.transactions.All() {
		if !window.Contains(txn.Date) {
			continue
		}
		for _, split := range txn.Splits {
			if split.Account == nil {
				continue
			}
			el := o.accounts.EntriesForAccount(split.Account)
			el.Add(NewEntry(split, txn))
			touched[el] = true
		}
	}
	fillTimer.End()

	cookTimer := timer.Child("Fill balance caches")
	defer cookTimer.End()
	for el := range touched {
		if err := el.Cook(reg); err != nil {
			return err
		}
	}
	return nil
}
