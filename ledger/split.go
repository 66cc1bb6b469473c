package ledger

import (
	"time"

	"github.com/sebkoller/bookkeep/amount"
)

// Split is one posting of a Transaction. A nil Account marks an unassigned
// split, which the balancing algorithm is free to adjust or remove.
type Split struct {
	Account *Account
	Amount  amount.Amount
	// ReconciliationDate is zero while the split is unreconciled.
	ReconciliationDate time.Time
	Memo               string
	Reference          string

	// index is the split's position within its owning transaction. It is
	// re-stamped after every structural change and used to validate that a
	// reference is not stale.
	index int
}

// Index returns the split's position within its transaction.
func (s *Split) Index() int {
	return s.index
}

// Reconciled reports whether the split has been reconciled.
func (s *Split) Reconciled() bool {
	return !s.ReconciliationDate.IsZero()
}

// IsAssigned reports whether the split is attached to an account.
func (s *Split) IsAssigned() bool {
	return s.Account != nil
}

func (s *Split) copy() *Split {
	dup := *s
	return &dup
}
