package ledger

import (
	"time"

	"github.com/sebkoller/bookkeep/amount"
)

// Entry is a split seen from its account's point of view, carrying the
// running balances cached by cooking. Entries hold non-owning references
// and must not outlive their split or transaction.
type Entry struct {
	Split       *Split
	Transaction *Transaction

	// Balance is the account's running balance after this entry.
	Balance amount.Amount
	// ReconciledBalance is the running balance over reconciled entries,
	// stamped on every entry so "balance since last reconciliation" is an
	// O(1) read. See EntryList.Cook.
	ReconciledBalance amount.Amount
	// BalanceWithBudget is the running balance including budget spawns.
	BalanceWithBudget amount.Amount

	index int
}

// NewEntry creates an uncooked entry tying a split to its transaction.
func NewEntry(split *Split, txn *Transaction) *Entry {
	return &Entry{Split: split, Transaction: txn, index: -1}
}

// Date returns the entry's transaction date.
func (e *Entry) Date() time.Time {
	return e.Transaction.Date
}

// Amount returns the split amount in the split's own currency.
func (e *Entry) Amount() amount.Amount {
	return e.Split.Amount
}

// Account returns the account the entry belongs to.
func (e *Entry) Account() *Account {
	return e.Split.Account
}

// Reconciled reports whether the underlying split is reconciled.
func (e *Entry) Reconciled() bool {
	return e.Split.Reconciled()
}

// Index returns the entry's position within its list, or -1 before the
// entry is added to one.
func (e *Entry) Index() int {
	return e.index
}

// reconciliationKeyLess orders entries for the reconciled-balance pass:
// reconciliation date first (unreconciled entries sort before everything),
// then natural order.
func (e *Entry) reconciliationKeyLess(other *Entry) bool {
	a, b := e.Split.ReconciliationDate, other.Split.ReconciliationDate
	if !a.Equal(b) {
		// A zero date is the sentinel minimum.
		return a.Before(b)
	}
	return e.naturalKeyLess(other)
}

// naturalKeyLess orders entries by (transaction date, transaction position,
// split index).
func (e *Entry) naturalKeyLess(other *Entry) bool {
	if !e.Date().Equal(other.Date()) {
		return e.Date().Before(other.Date())
	}
	if e.Transaction.Position != other.Transaction.Position {
		return e.Transaction.Position < other.Transaction.Position
	}
	return e.Split.index < other.Split.index
}
