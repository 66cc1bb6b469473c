// Package ledger implements the double-entry bookkeeping core: accounts,
// transactions and their splits, the per-account entry cache with running
// balances, and a reversible edit log.
package ledger

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sebkoller/bookkeep/amount"
	"github.com/sebkoller/bookkeep/currency"
)

// AccountType classifies an account for reporting and amount normalization.
type AccountType int

const (
	Asset AccountType = iota + 1
	Liability
	Income
	Expense
)

func (t AccountType) String() string {
	switch t {
	case Asset:
		return "asset"
	case Liability:
		return "liability"
	case Income:
		return "income"
	case Expense:
		return "expense"
	default:
		return "unknown"
	}
}

// Account is a ledger account. Accounts are owned by an AccountList and
// should only be mutated through it so that indexes stay consistent.
type Account struct {
	// ID is stable across renames, which makes it the right key for
	// anything that must survive an account being renamed.
	ID   uuid.UUID
	Name string
	Type AccountType
	// Currency in which this account's entries are kept. Split amounts in
	// other currencies are converted when cooked.
	Currency *currency.Currency
	// AccountNumber is a unique short identifier that can stand in for the
	// name in lookups.
	AccountNumber string
	// Reference is an external matching key, e.g. one assigned by a bank
	// during an import.
	Reference string
	GroupName string
	Notes     string
	// Inactive accounts are hidden from auto-complete.
	Inactive bool
	// AutoCreated accounts were made on the fly during transaction editing
	// and may be auto-purged.
	AutoCreated bool

	deleted bool
}

// Deleted reports whether the account currently sits in its list's trashcan.
func (a *Account) Deleted() bool {
	return a.deleted
}

// IsBalanceSheet reports whether the account appears on the balance sheet.
func (a *Account) IsBalanceSheet() bool {
	return a.Type == Asset || a.Type == Liability
}

// IsIncomeStatement reports whether the account appears on the income
// statement.
func (a *Account) IsIncomeStatement() bool {
	return a.Type == Income || a.Type == Expense
}

// IsDebit reports whether the account is debit-normal.
func (a *Account) IsDebit() bool {
	return a.Type == Asset || a.Type == Expense
}

// IsCredit reports whether the account is credit-normal.
func (a *Account) IsCredit() bool {
	return !a.IsDebit()
}

// NormalizeAmount flips a balance's sign for credit-normal accounts so that
// it displays with its natural sign.
func (a *Account) NormalizeAmount(v amount.Amount) amount.Amount {
	if a.IsCredit() {
		return v.Neg()
	}
	return v
}

// snapshot returns a value copy of the account for the undo log.
func (a *Account) snapshot() Account {
	return *a
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// nameKey folds an account name for uniqueness checks and lookups: trimmed,
// case-folded and with diacritics stripped, so "École" and "ecole" collide.
func nameKey(name string) string {
	s := strings.TrimSpace(name)
	if stripped, _, err := transform.String(diacriticStripper, s); err == nil {
		s = stripped
	}
	return cases.Fold().String(s)
}
