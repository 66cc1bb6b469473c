package ledger

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/sebkoller/bookkeep/amount"
	"github.com/sebkoller/bookkeep/currency"
)

func testCurrencies(t *testing.T) (*currency.Registry, *currency.Currency, *currency.Currency) {
	t.Helper()
	reg := currency.NewRegistry(currency.NewMemoryRateDB())
	usd, _ := reg.Get("USD")
	cad, _ := reg.Get("CAD")
	return reg, usd, cad
}

func TestNormalizeAmount(t *testing.T) {
	_, usd, _ := testCurrencies(t)
	asset := &Account{Name: "Checking", Type: Asset, Currency: usd}
	income := &Account{Name: "Salary", Type: Income, Currency: usd}

	v := amount.New(4200, usd)
	assert.Equal(t, v, asset.NormalizeAmount(v))
	assert.Equal(t, v.Neg(), income.NormalizeAmount(v))
}

func TestAccountTypeClassification(t *testing.T) {
	tests := []struct {
		typ          AccountType
		debit        bool
		balanceSheet bool
	}{
		{Asset, true, true},
		{Liability, false, true},
		{Income, false, false},
		{Expense, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			a := &Account{Type: tt.typ}
			assert.Equal(t, tt.debit, a.IsDebit())
			assert.Equal(t, !tt.debit, a.IsCredit())
			assert.Equal(t, tt.balanceSheet, a.IsBalanceSheet())
			assert.Equal(t, !tt.balanceSheet, a.IsIncomeStatement())
		})
	}
}

func TestAccountListFind(t *testing.T) {
	_, usd, _ := testCurrencies(t)
	al := NewAccountList(usd)

	a1, err := al.Create("fOo", nil, Asset)
	assert.NoError(t, err)
	a2, err := al.Create(" baR ", nil, Asset)
	assert.NoError(t, err)
	a3, err := al.Create("école", nil, Asset)
	assert.NoError(t, err)

	assert.Zero(t, al.FindByName("not there"))
	assert.Equal(t, a1, al.FindByName("foo "))
	assert.Equal(t, a2, al.FindByName("BAR"))
	assert.Equal(t, a3, al.FindByName("ÉCOLE"))
	assert.Equal(t, a3, al.FindByName("ecole"))
}

func TestAccountListFindByNumber(t *testing.T) {
	_, usd, _ := testCurrencies(t)
	al := NewAccountList(usd)

	a1, err := al.Create("foo", nil, Asset)
	assert.NoError(t, err)
	a1.AccountNumber = "1234"

	assert.Equal(t, a1, al.FindByName("1234"))
}

func TestAccountListCreateDuplicate(t *testing.T) {
	_, usd, _ := testCurrencies(t)
	al := NewAccountList(usd)

	_, err := al.Create("Checking", nil, Asset)
	assert.NoError(t, err)
	_, err = al.Create("chécking", nil, Asset)
	var dup *DuplicateAccountNameError
	assert.True(t, errors.As(err, &dup))
	assert.Equal(t, "chécking", dup.GetName())
}

func TestAccountListRemoveUndelete(t *testing.T) {
	_, usd, _ := testCurrencies(t)
	al := NewAccountList(usd)

	a, err := al.Create("Checking", nil, Asset)
	assert.NoError(t, err)

	assert.NoError(t, al.Remove(a))
	assert.True(t, a.Deleted())
	assert.Equal(t, 0, al.Len())

	// A soft-deleted account remains findable by name; the name becomes
	// available for a new active account.
	assert.Equal(t, a, al.FindByName("Checking"))
	_, err = al.Create("Checking", nil, Asset)
	assert.NoError(t, err)

	// Removing again fails; the account is no longer active.
	assert.Error(t, al.Remove(a))
}

func TestAccountListUndelete(t *testing.T) {
	_, usd, _ := testCurrencies(t)
	al := NewAccountList(usd)

	a, _ := al.Create("Checking", nil, Asset)
	assert.NoError(t, al.Remove(a))
	assert.NoError(t, al.Undelete(a))
	assert.False(t, a.Deleted())
	assert.Equal(t, 1, al.Len())

	// Undeleting an account that isn't in the trashcan fails.
	assert.IsError(t, al.Undelete(a), ErrNotInTrashcan)
}

func TestAccountListRename(t *testing.T) {
	_, usd, _ := testCurrencies(t)
	al := NewAccountList(usd)

	a, _ := al.Create("Checking", nil, Asset)
	b, _ := al.Create("Savings", nil, Asset)

	el := al.EntriesForAccount(a)
	id := a.ID

	assert.NoError(t, al.Rename(a, "Chequing"))
	assert.Equal(t, "Chequing", a.Name)
	assert.Equal(t, id, a.ID)
	// The entry cache follows the account across the rename.
	assert.Equal(t, el, al.EntriesForAccount(a))

	// Renaming over another active account fails; renaming to a variant of
	// the account's own name is fine.
	assert.Error(t, al.Rename(a, "savings"))
	assert.NoError(t, al.Rename(b, "SAVINGS"))
	assert.Equal(t, "SAVINGS", b.Name)
}

func TestAccountListNewName(t *testing.T) {
	_, usd, _ := testCurrencies(t)
	al := NewAccountList(usd)

	assert.Equal(t, "New account", al.NewName("New account"))
	_, err := al.Create("New account", nil, Asset)
	assert.NoError(t, err)
	assert.Equal(t, "New account 1", al.NewName("New account"))
	_, err = al.Create("New account 1", nil, Asset)
	assert.NoError(t, err)
	assert.Equal(t, "New account 2", al.NewName("New account"))
}

func TestAccountListSorted(t *testing.T) {
	_, usd, _ := testCurrencies(t)
	al := NewAccountList(usd)

	bell, _ := al.Create("Bell", nil, Asset)
	belarus, _ := al.Create("Bélarus", nil, Asset)
	achigan, _ := al.Create("achigan", nil, Asset)
	salary, _ := al.Create("Salary", nil, Income)

	// Sorted by type first, then by name insensitively to case and accents.
	assert.Equal(t, []*Account{achigan, belarus, bell, salary}, al.Sorted())
}
