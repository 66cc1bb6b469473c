package ledger

import (
	"sort"
	"time"
)

// TransactionList manages a document's transactions: sorting order, moving
// transactions around within a day, and completion candidates for editing
// UIs.
type TransactionList struct {
	txns []*Transaction

	// completion caches, rebuilt lazily after any mutation
	payees       []string
	accountNames []string
	descriptions []string
}

// NewTransactionList creates an empty list.
func NewTransactionList() *TransactionList {
	return &TransactionList{}
}

func (tl *TransactionList) Len() int {
	return len(tl.txns)
}

// All returns the transactions in their current order. The returned slice
// is shared; callers must not modify it.
func (tl *TransactionList) All() []*Transaction {
	return tl.txns
}

// Add appends a transaction. Unless keepPosition is set, the transaction's
// position is bumped past every other transaction of the same date so it
// sorts last among them.
func (tl *TransactionList) Add(txn *Transaction, keepPosition bool) {
	if !keepPosition {
		position := 0
		for _, t := range tl.txns {
			if t.Date.Equal(txn.Date) && t.Position >= position {
				position = t.Position + 1
			}
		}
		txn.Position = position
	}
	tl.txns = append(tl.txns, txn)
	tl.clearCache()
}

// Remove drops a transaction, failing with StaleReferenceError if it is not
// in the list.
func (tl *TransactionList) Remove(txn *Transaction) error {
	for i, t := range tl.txns {
		if t == txn {
			tl.txns = append(tl.txns[:i], tl.txns[i+1:]...)
			tl.clearCache()
			return nil
		}
	}
	return &StaleReferenceError{Kind: "transaction"}
}

// Clear empties the list.
func (tl *TransactionList) Clear() {
	tl.txns = nil
	tl.clearCache()
}

// Sort orders the transactions by date, breaking ties with position.
func (tl *TransactionList) Sort() {
	sort.SliceStable(tl.txns, func(i, j int) bool {
		a, b := tl.txns[i], tl.txns[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Position < b.Position
	})
}

// TransactionsAt returns the transactions occurring on the given date.
func (tl *TransactionList) TransactionsAt(date time.Time) []*Transaction {
	var res []*Transaction
	for _, t := range tl.txns {
		if t.Date.Equal(date) {
			res = append(res, t)
		}
	}
	return res
}

// MoveBefore moves a transaction just before target among the transactions
// of its date, adjusting positions. A nil target (or one on another date)
// moves it last. Entries must be recooked after a move.
func (tl *TransactionList) MoveBefore(txn, target *Transaction) {
	if !tl.contains(txn) {
		return
	}
	if target != nil && !target.Date.Equal(txn.Date) {
		target = nil
	}
	var sameDay []*Transaction
	for _, t := range tl.TransactionsAt(txn.Date) {
		if t != txn {
			sameDay = append(sameDay, t)
		}
	}
	if len(sameDay) == 0 {
		return
	}
	var position int
	if target == nil {
		for _, t := range sameDay {
			if t.Position >= position {
				position = t.Position + 1
			}
		}
	} else {
		position = target.Position
	}
	txn.Position = position
	for _, t := range sameDay {
		if t.Position >= position {
			t.Position++
		}
	}
}

// MoveLast moves a transaction after every other transaction of its date.
func (tl *TransactionList) MoveLast(txn *Transaction) {
	tl.MoveBefore(txn, nil)
}

// ReassignAccount redirects every split on the given account, dropping any
// transaction that ends up referencing no account at all. A nil replacement
// unassigns the splits.
func (tl *TransactionList) ReassignAccount(account, reassignTo *Account) {
	kept := tl.txns[:0]
	for _, t := range tl.txns {
		t.ReassignAccount(account, reassignTo)
		if len(t.AffectedAccounts()) > 0 {
			kept = append(kept, t)
		}
	}
	tl.txns = kept
	tl.clearCache()
}

// Payees returns the distinct payees used by the transactions, most
// recently modified first.
func (tl *TransactionList) Payees() []string {
	if tl.payees == nil {
		tl.payees = completionList(func(yield func(string, time.Time)) {
			for _, t := range tl.txns {
				if t.Payee != "" {
					yield(t.Payee, t.MTime)
				}
			}
		})
	}
	return tl.payees
}

// AccountNames returns the distinct active account names used by the
// transactions, most recently modified first.
func (tl *TransactionList) AccountNames() []string {
	if tl.accountNames == nil {
		tl.accountNames = completionList(func(yield func(string, time.Time)) {
			for _, t := range tl.txns {
				for _, a := range t.AffectedAccounts() {
					if !a.Inactive {
						yield(a.Name, t.MTime)
					}
				}
			}
		})
	}
	return tl.accountNames
}

// Descriptions returns the distinct transaction descriptions, most recently
// modified first.
func (tl *TransactionList) Descriptions() []string {
	if tl.descriptions == nil {
		tl.descriptions = completionList(func(yield func(string, time.Time)) {
			for _, t := range tl.txns {
				if t.Description != "" {
					yield(t.Description, t.MTime)
				}
			}
		})
	}
	return tl.descriptions
}

func (tl *TransactionList) clearCache() {
	tl.payees = nil
	tl.accountNames = nil
	tl.descriptions = nil
}

func (tl *TransactionList) contains(txn *Transaction) bool {
	for _, t := range tl.txns {
		if t == txn {
			return true
		}
	}
	return false
}

// completionList collects (value, mtime) pairs and returns the distinct
// values sorted by their highest mtime, most recent first.
func completionList(collect func(yield func(string, time.Time))) []string {
	mtimes := make(map[string]time.Time)
	var order []string
	collect(func(value string, mtime time.Time) {
		prev, ok := mtimes[value]
		if !ok {
			order = append(order, value)
		}
		if !ok || mtime.After(prev) {
			mtimes[value] = mtime
		}
	})
	sort.SliceStable(order, func(i, j int) bool {
		return mtimes[order[i]].After(mtimes[order[j]])
	})
	return order
}
