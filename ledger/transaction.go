package ledger

import (
	"strings"
	"time"

	"github.com/sebkoller/bookkeep/amount"
	"github.com/sebkoller/bookkeep/currency"
)

// TransactionType distinguishes user-entered transactions from the ones
// spawned by recurrences and budgets.
type TransactionType int

const (
	TypeNormal TransactionType = iota + 1
	TypeRecurrenceSpawn
	TypeBudgetSpawn
)

// Transaction is a set of splits that must sum to zero per currency.
type Transaction struct {
	Type        TransactionType
	Date        time.Time
	Description string
	Payee       string
	CheckNo     string
	Notes       string
	// Position breaks ties among transactions sharing a date.
	Position int
	// MTime is the last modification time, used by UIs to sort by recency.
	MTime  time.Time
	Splits []*Split
}

// NewTransaction creates an empty transaction at the given date.
func NewTransaction(typ TransactionType, date time.Time) *Transaction {
	return &Transaction{Type: typ, Date: date}
}

// IsBudget reports whether the transaction was spawned by a budget.
func (t *Transaction) IsBudget() bool {
	return t.Type == TypeBudgetSpawn
}

// owns reports whether s is a live split of t: its stored index must
// address exactly that split. Stale references from before a structural
// edit fail this check.
func (t *Transaction) owns(s *Split) bool {
	return s != nil && s.index >= 0 && s.index < len(t.Splits) && t.Splits[s.index] == s
}

func (t *Transaction) reindexSplits() {
	for i, s := range t.Splits {
		s.index = i
	}
}

// NewSplit appends an empty split and returns it.
func (t *Transaction) NewSplit() *Split {
	s := &Split{}
	t.AddSplit(s)
	return s
}

// AddSplit appends s to the transaction and stamps its index.
func (t *Transaction) AddSplit(s *Split) {
	s.index = len(t.Splits)
	t.Splits = append(t.Splits, s)
}

// RemoveSplit removes the split at the position recorded in s.
//
// The split is addressed by index, not identity: a second call with the
// same stale reference removes whatever split now lives at that position.
// Only an out-of-bounds index fails.
func (t *Transaction) RemoveSplit(s *Split) error {
	if s == nil || s.index < 0 || s.index >= len(t.Splits) {
		return &StaleReferenceError{Kind: "split"}
	}
	t.removeSplitAt(s.index)
	return nil
}

func (t *Transaction) removeSplitAt(i int) {
	t.Splits = append(t.Splits[:i], t.Splits[i+1:]...)
	t.reindexSplits()
}

// MoveSplit moves s to the given position, shifting the others.
func (t *Transaction) MoveSplit(s *Split, toIndex int) error {
	if !t.owns(s) {
		return &StaleReferenceError{Kind: "split"}
	}
	if toIndex < 0 || toIndex >= len(t.Splits) {
		return &StaleReferenceError{Kind: "split"}
	}
	t.Splits = append(t.Splits[:s.index], t.Splits[s.index+1:]...)
	t.Splits = append(t.Splits[:toIndex], append([]*Split{s}, t.Splits[toIndex:]...)...)
	t.reindexSplits()
	return nil
}

// Balance restores the zero-sum invariant after an edit.
//
// strong is the split the user just edited; it is never adjusted. With
// exactly two splits, the other split follows: it takes the negated strong
// amount if keepTwoSplits is set, or is merely sign-flipped when it sits on
// the same side as strong. A remaining single-currency imbalance is assigned
// to an unassigned split. When splits span multiple currencies, balancing
// defers to BalanceCurrencies.
func (t *Transaction) Balance(strong *Split, keepTwoSplits bool) error {
	if strong != nil && !t.owns(strong) {
		return &StaleReferenceError{Kind: "split"}
	}
	if len(t.Splits) == 2 && strong != nil {
		weak := t.Splits[1-strong.index]
		if keepTwoSplits {
			weak.Amount = strong.Amount.Neg()
		} else if (weak.Amount.Value > 0) == (strong.Amount.Value > 0) && !weak.Amount.IsZero() && !strong.Amount.IsZero() {
			weak.Amount = weak.Amount.Neg()
		}
	}
	if t.isMCT() {
		return t.BalanceCurrencies(strong)
	}
	var imbalance amount.Amount
	for _, s := range t.Splits {
		sum, err := amount.Add(imbalance, s.Amount)
		if err != nil {
			return err
		}
		imbalance = sum
	}
	if !imbalance.IsZero() {
		t.assignImbalance(imbalance, strong)
	}
	t.dropEmptyUnassigned(strong)
	return nil
}

// isMCT reports whether the nonzero splits span more than one currency.
func (t *Transaction) isMCT() bool {
	var seen *currency.Currency
	for _, s := range t.Splits {
		if s.Amount.IsZero() {
			continue
		}
		if seen == nil {
			seen = s.Amount.Currency
		} else if s.Amount.Currency != seen {
			return true
		}
	}
	return false
}

// BalanceCurrencies balances a multi-currency transaction.
//
// Each currency's subtotal is computed; when all nonzero subtotals share
// one arithmetic sign there is a genuine cross-currency imbalance, and each
// subtotal is assigned to an unassigned split of its currency. Mixed signs
// mean the imbalance is a deliberate exchange and nothing is touched.
func (t *Transaction) BalanceCurrencies(strong *Split) error {
	if strong != nil && !t.owns(strong) {
		return &StaleReferenceError{Kind: "split"}
	}
	var order []*currency.Currency
	subtotals := make(map[*currency.Currency]int64)
	for _, s := range t.Splits {
		if s.Amount.IsZero() {
			continue
		}
		cur := s.Amount.Currency
		if _, ok := subtotals[cur]; !ok {
			order = append(order, cur)
		}
		subtotals[cur] += s.Amount.Value
	}
	positive, negative := false, false
	for _, v := range subtotals {
		switch {
		case v > 0:
			positive = true
		case v < 0:
			negative = true
		}
	}
	if positive == negative {
		// Either no imbalance at all, or mixed signs: the transaction is a
		// currency exchange and must be left alone.
		return nil
	}
	for _, cur := range order {
		if v := subtotals[cur]; v != 0 {
			t.assignImbalance(amount.New(v, cur), strong)
		}
	}
	t.dropEmptyUnassigned(strong)
	return nil
}

// assignImbalance cancels an imbalance through an unassigned split. An
// existing unassigned split of the imbalance's currency (or a zero one,
// which matches any currency) is reused; the imbalance is subtracted from
// it, and the split is dropped if it lands exactly on zero. Without a
// candidate, a new unassigned split is appended.
func (t *Transaction) assignImbalance(imbalance amount.Amount, exclude *Split) {
	for _, s := range t.Splits {
		if s == exclude || s.IsAssigned() {
			continue
		}
		if !s.Amount.IsZero() && s.Amount.Currency != imbalance.Currency {
			continue
		}
		adjusted, err := amount.Sub(s.Amount, imbalance)
		if err != nil {
			continue
		}
		if adjusted.IsZero() {
			t.removeSplitAt(s.index)
		} else {
			s.Amount = adjusted
		}
		return
	}
	t.AddSplit(&Split{Amount: imbalance.Neg()})
}

// dropEmptyUnassigned removes zero-amount unassigned splits, keeping the
// one the user is editing.
func (t *Transaction) dropEmptyUnassigned(keep *Split) {
	for i := len(t.Splits) - 1; i >= 0; i-- {
		s := t.Splits[i]
		if s != keep && !s.IsAssigned() && s.Amount.IsZero() {
			t.removeSplitAt(i)
		}
	}
}

// MCTBalance converts every split to the target currency at the transaction
// date and zeroes the resulting sum through an unassigned split of that
// currency. It is used when a user adds a split whose currency was not yet
// present in the transaction.
func (t *Transaction) MCTBalance(reg *currency.Registry, target *currency.Currency) error {
	var total amount.Amount
	for _, s := range t.Splits {
		converted, err := amount.Convert(reg, s.Amount, target, t.Date)
		if err != nil {
			return &ConversionError{Date: t.Date, Currency: target.Code, Underlying: err}
		}
		sum, err := amount.Add(total, converted)
		if err != nil {
			return err
		}
		total = sum
	}
	if !total.IsZero() {
		t.assignImbalance(total, nil)
	}
	return nil
}

// Size is a debit/credit-independent measure of how big the transaction is:
// half the sum of absolute split amounts, everything converted into one
// common currency (the first split's) at the transaction date.
func (t *Transaction) Size(reg *currency.Registry) (amount.Amount, error) {
	var target *currency.Currency
	for _, s := range t.Splits {
		if s.Amount.Currency != nil {
			target = s.Amount.Currency
			break
		}
	}
	if target == nil {
		return amount.Amount{}, nil
	}
	var total int64
	for _, s := range t.Splits {
		converted, err := amount.Convert(reg, s.Amount, target, t.Date)
		if err != nil {
			return amount.Amount{}, &ConversionError{Date: t.Date, Currency: target.Code, Underlying: err}
		}
		v := converted.Value
		if v < 0 {
			v = -v
		}
		total += v
	}
	return amount.New(total/2, target), nil
}

// AffectedAccounts returns the distinct accounts referenced by the splits,
// in split order.
func (t *Transaction) AffectedAccounts() []*Account {
	var accounts []*Account
	seen := make(map[*Account]bool)
	for _, s := range t.Splits {
		if s.Account == nil || seen[s.Account] {
			continue
		}
		seen[s.Account] = true
		accounts = append(accounts, s.Account)
	}
	return accounts
}

// SplittedSplits partitions the splits into sources (negative amounts) and
// destinations (positive amounts). Zero splits count as sources, except that
// one of them serves as the destination when no positive split exists.
func (t *Transaction) SplittedSplits() (froms, tos []*Split) {
	var zeroes []*Split
	for _, s := range t.Splits {
		switch {
		case s.Amount.IsZero():
			zeroes = append(zeroes, s)
		case s.Amount.Value < 0:
			froms = append(froms, s)
		default:
			tos = append(tos, s)
		}
	}
	if len(tos) == 0 && len(zeroes) > 0 {
		tos = append(tos, zeroes[len(zeroes)-1])
		zeroes = zeroes[:len(zeroes)-1]
	}
	froms = append(froms, zeroes...)
	return froms, tos
}

// ReassignAccount points every split on from to the replacement account,
// clearing their reconciliation since the entries move to another ledger. A
// nil replacement unassigns the splits.
func (t *Transaction) ReassignAccount(from, to *Account) {
	for _, s := range t.Splits {
		if s.Account == from {
			s.Account = to
			s.ReconciliationDate = time.Time{}
		}
	}
}

// Query is a set of search criteria for Matches. String criteria must be
// lowercase; any matching criterion makes the whole query match.
type Query struct {
	Description string
	Payee       string
	CheckNo     string
	Memo        string
	Account     string
	Group       string
	Amount      *amount.Amount
}

// Matches reports whether the transaction matches any criterion of q.
func (t *Transaction) Matches(q Query) bool {
	if q.Description != "" && strings.Contains(strings.ToLower(t.Description), q.Description) {
		return true
	}
	if q.Payee != "" && strings.Contains(strings.ToLower(t.Payee), q.Payee) {
		return true
	}
	if q.CheckNo != "" && strings.ToLower(t.CheckNo) == q.CheckNo {
		return true
	}
	for _, s := range t.Splits {
		if q.Memo != "" && strings.Contains(strings.ToLower(s.Memo), q.Memo) {
			return true
		}
		if q.Amount != nil {
			if v := s.Amount.Value; v == q.Amount.Value || -v == q.Amount.Value {
				return true
			}
		}
		if s.Account != nil {
			if q.Account != "" && strings.Contains(q.Account, strings.ToLower(s.Account.Name)) {
				return true
			}
			if q.Group != "" && s.Account.GroupName != "" &&
				strings.Contains(q.Group, strings.ToLower(s.Account.GroupName)) {
				return true
			}
		}
	}
	return false
}

// Copy returns a deep value copy for the undo log; splits are duplicated,
// account references are shared.
func (t *Transaction) Copy() *Transaction {
	dup := *t
	dup.Splits = make([]*Split, len(t.Splits))
	for i, s := range t.Splits {
		dup.Splits[i] = s.copy()
	}
	return &dup
}
