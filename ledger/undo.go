package ledger

// changedAccount pairs a live account with a value snapshot of its
// pre-edit state. After an undo the snapshot holds the post-edit state,
// ready to serve as the redo target.
type changedAccount struct {
	account *Account
	copy    Account
}

// changedTransaction does the same for transactions; the snapshot carries
// its own deep-copied splits.
type changedTransaction struct {
	txn  *Transaction
	copy *Transaction
}

// UndoStep captures one edit: accounts and transactions added, soft-deleted
// and mutated in place.
type UndoStep struct {
	addedAccounts   []*Account
	deletedAccounts []*Account
	changedAccounts []changedAccount

	addedTxns   []*Transaction
	deletedTxns []*Transaction
	changedTxns []changedTransaction
}

// NewUndoStep records an edit's touched objects. It must be called before
// the edit mutates anything, so the snapshots hold pre-edit state.
func NewUndoStep(added, deleted, changed []*Account, addedTxns, deletedTxns, changedTxns []*Transaction) *UndoStep {
	step := &UndoStep{
		addedAccounts:   added,
		deletedAccounts: deleted,
		addedTxns:       addedTxns,
		deletedTxns:     deletedTxns,
	}
	for _, a := range changed {
		step.changedAccounts = append(step.changedAccounts, changedAccount{account: a, copy: a.snapshot()})
	}
	for _, t := range changedTxns {
		step.changedTxns = append(step.changedTxns, changedTransaction{txn: t, copy: t.Copy()})
	}
	return step
}

// swap exchanges every changed object's live state with its snapshot. One
// body serves both directions: after undo the snapshots hold post-edit
// state, so the same swap redoes the edit.
func (s *UndoStep) swap() {
	for i := range s.changedAccounts {
		c := &s.changedAccounts[i]
		tmp := *c.account
		*c.account = c.copy
		c.copy = tmp
	}
	for i := range s.changedTxns {
		c := &s.changedTxns[i]
		tmp := *c.txn
		*c.txn = *c.copy
		*c.copy = tmp
	}
}

func (s *UndoStep) undo(accounts *AccountList, transactions *TransactionList) error {
	for _, a := range s.addedAccounts {
		if err := accounts.Remove(a); err != nil {
			return err
		}
	}
	for _, a := range s.deletedAccounts {
		if err := accounts.Undelete(a); err != nil {
			return err
		}
	}
	for _, t := range s.addedTxns {
		if err := transactions.Remove(t); err != nil {
			return err
		}
	}
	for _, t := range s.deletedTxns {
		transactions.Add(t, true)
	}
	s.swap()
	transactions.Sort()
	return nil
}

func (s *UndoStep) redo(accounts *AccountList, transactions *TransactionList) error {
	for _, a := range s.addedAccounts {
		if err := accounts.Undelete(a); err != nil {
			return err
		}
	}
	for _, a := range s.deletedAccounts {
		if err := accounts.Remove(a); err != nil {
			return err
		}
	}
	for _, t := range s.addedTxns {
		transactions.Add(t, true)
	}
	for _, t := range s.deletedTxns {
		if err := transactions.Remove(t); err != nil {
			return err
		}
	}
	s.swap()
	transactions.Sort()
	return nil
}

// Undoer is the edit log. It owns a single stack of steps with a cursor, so
// steps can only ever be applied in strict linear order; out-of-order
// application, which the swap mechanism cannot survive, is impossible to
// express through this API.
//
// Entries must be recooked after an undo or redo, since swaps replace the
// split instances the cooked entries point at.
type Undoer struct {
	accounts     *AccountList
	transactions *TransactionList

	steps  []*UndoStep
	cursor int // number of currently-applied steps
}

// NewUndoer creates an edit log over the given lists.
func NewUndoer(accounts *AccountList, transactions *TransactionList) *Undoer {
	return &Undoer{accounts: accounts, transactions: transactions}
}

// Record pushes a step for an edit that was just applied. Any steps
// previously undone but not redone are discarded.
func (u *Undoer) Record(step *UndoStep) {
	u.steps = append(u.steps[:u.cursor], step)
	u.cursor = len(u.steps)
}

// CanUndo reports whether there is an applied step to revert.
func (u *Undoer) CanUndo() bool {
	return u.cursor > 0
}

// CanRedo reports whether there is an undone step to reapply.
func (u *Undoer) CanRedo() bool {
	return u.cursor < len(u.steps)
}

// Undo reverts the most recent applied step.
func (u *Undoer) Undo() error {
	if !u.CanUndo() {
		return &StaleReferenceError{Kind: "undo step"}
	}
	step := u.steps[u.cursor-1]
	if err := step.undo(u.accounts, u.transactions); err != nil {
		return err
	}
	u.cursor--
	return nil
}

// Redo reapplies the most recently undone step.
func (u *Undoer) Redo() error {
	if !u.CanRedo() {
		return &StaleReferenceError{Kind: "undo step"}
	}
	step := u.steps[u.cursor]
	if err := step.redo(u.accounts, u.transactions); err != nil {
		return err
	}
	u.cursor++
	return nil
}
