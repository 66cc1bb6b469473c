package ledger

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/sebkoller/bookkeep/amount"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRemoveSplitByIndex(t *testing.T) {
	txn := NewTransaction(TypeNormal, day(2019, time.June, 1))
	txn.NewSplit().Amount.Value = 43
	txn.NewSplit().Amount.Value = 44
	txn.NewSplit().Amount.Value = 45

	toRemove := txn.Splits[1]
	assert.NoError(t, txn.RemoveSplit(toRemove))
	assert.Equal(t, 2, len(txn.Splits))
	assert.Equal(t, int64(45), txn.Splits[1].Amount.Value)

	// Splits are addressed by index: the same stale reference now removes
	// a different logical split.
	assert.NoError(t, txn.RemoveSplit(toRemove))
	assert.Equal(t, 1, len(txn.Splits))
	assert.Equal(t, int64(43), txn.Splits[0].Amount.Value)

	// Out of bounds now; the call fails.
	assert.Error(t, txn.RemoveSplit(toRemove))
}

func TestBalance(t *testing.T) {
	_, usd, _ := testCurrencies(t)
	al := NewAccountList(usd)
	a1, _ := al.Create("one", nil, Asset)
	a2, _ := al.Create("two", nil, Asset)
	txn := NewTransaction(TypeNormal, day(2019, time.June, 1))

	// A simple one-split imbalance gets an unassigned counterpart.
	s := txn.NewSplit()
	s.Account = a1
	s.Amount = amount.New(42, usd)
	assert.NoError(t, txn.Balance(nil, false))
	assert.Equal(t, 2, len(txn.Splits))
	assert.Zero(t, txn.Splits[1].Account)
	assert.Equal(t, int64(-42), txn.Splits[1].Amount.Value)

	// With keepTwoSplits the other side follows the edited split.
	txn.Splits[0].Amount = amount.New(-22, usd)
	assert.NoError(t, txn.Balance(txn.Splits[0], true))
	assert.Equal(t, 2, len(txn.Splits))
	assert.Equal(t, int64(22), txn.Splits[1].Amount.Value)

	// Without keepTwoSplits and with the second split assigned, the weak
	// split is sign-flipped and the rest lands on a third, unassigned one.
	txn.Splits[0].Amount = amount.New(42, usd)
	txn.Splits[1].Account = a2
	assert.NoError(t, txn.Balance(txn.Splits[0], false))
	assert.Equal(t, 3, len(txn.Splits))
	assert.Equal(t, int64(-22), txn.Splits[1].Amount.Value)
	assert.Equal(t, int64(-20), txn.Splits[2].Amount.Value)
	assert.Zero(t, txn.Splits[2].Account)
}

func TestBalanceZeroSum(t *testing.T) {
	_, usd, _ := testCurrencies(t)
	al := NewAccountList(usd)
	a1, _ := al.Create("one", nil, Asset)
	a2, _ := al.Create("two", nil, Asset)
	txn := NewTransaction(TypeNormal, day(2019, time.June, 1))

	s1 := txn.NewSplit()
	s1.Account = a1
	s1.Amount = amount.New(4200, usd)
	s2 := txn.NewSplit()
	s2.Account = a2
	s2.Amount = amount.New(-1500, usd)

	assert.NoError(t, txn.Balance(s1, false))
	var sum int64
	for _, s := range txn.Splits {
		sum += s.Amount.Value
	}
	assert.Equal(t, int64(0), sum)
}

func TestBalanceStaleStrongSplit(t *testing.T) {
	txn := NewTransaction(TypeNormal, day(2019, time.June, 1))
	txn.NewSplit()
	stale := &Split{index: 5}
	assert.Error(t, txn.Balance(stale, false))
}

func TestBalanceCurrencies(t *testing.T) {
	_, usd, cad := testCurrencies(t)
	al := NewAccountList(usd)
	a, _ := al.Create("one", nil, Asset)
	txn := NewTransaction(TypeNormal, day(2019, time.June, 1))

	// A one-split imbalance.
	s := txn.NewSplit()
	s.Account = a
	s.Amount = amount.New(42, usd)
	assert.NoError(t, txn.BalanceCurrencies(s))
	assert.Equal(t, 2, len(txn.Splits))
	assert.Zero(t, txn.Splits[1].Account)
	assert.Equal(t, amount.New(-42, usd), txn.Splits[1].Amount)

	// Without a strong split the transaction is stable.
	assert.NoError(t, txn.BalanceCurrencies(nil))
	assert.Equal(t, 2, len(txn.Splits))
	assert.Equal(t, int64(42), txn.Splits[0].Amount.Value)

	// Opposite-sign subtotals mean a currency exchange; nothing to do.
	txn.Splits[1].Amount = amount.New(-22, cad)
	assert.NoError(t, txn.BalanceCurrencies(nil))
	assert.Equal(t, 2, len(txn.Splits))
	assert.Equal(t, amount.New(42, usd), txn.Splits[0].Amount)
	assert.Equal(t, amount.New(-22, cad), txn.Splits[1].Amount)

	// Same-sign subtotals are a genuine imbalance; each currency gets its
	// own unassigned counterpart.
	txn.Splits[1].Amount = amount.New(22, cad)
	assert.NoError(t, txn.BalanceCurrencies(txn.Splits[1]))
	assert.Equal(t, 4, len(txn.Splits))
	assert.Equal(t, amount.New(-42, usd), txn.Splits[2].Amount)
	assert.Equal(t, amount.New(-22, cad), txn.Splits[3].Amount)

	// Balancing again changes nothing.
	assert.NoError(t, txn.BalanceCurrencies(nil))
	assert.Equal(t, 4, len(txn.Splits))
}

func TestMCTBalance(t *testing.T) {
	reg, usd, cad := testCurrencies(t)
	al := NewAccountList(cad)
	a1, _ := al.Create("one", nil, Asset)
	a2, _ := al.Create("two", nil, Asset)
	d := day(2019, time.June, 1)
	assert.NoError(t, reg.SetPivotValue(d, usd, 1.25))

	txn := NewTransaction(TypeNormal, d)
	s1 := txn.NewSplit()
	s1.Account = a1
	s1.Amount = amount.New(1000, usd)
	s2 := txn.NewSplit()
	s2.Account = a2
	s2.Amount = amount.New(-1000, cad)

	// 10.00 USD is 12.50 CAD, so 2.50 CAD is missing on the CAD side.
	assert.NoError(t, txn.MCTBalance(reg, cad))
	assert.Equal(t, 3, len(txn.Splits))
	assert.Zero(t, txn.Splits[2].Account)
	assert.Equal(t, amount.New(-250, cad), txn.Splits[2].Amount)
}

func TestMoveSplit(t *testing.T) {
	txn := NewTransaction(TypeNormal, day(2019, time.June, 1))
	s0 := txn.NewSplit()
	s1 := txn.NewSplit()
	s2 := txn.NewSplit()

	assert.NoError(t, txn.MoveSplit(s2, 0))
	assert.Equal(t, []*Split{s2, s0, s1}, txn.Splits)
	for i, s := range txn.Splits {
		assert.Equal(t, i, s.Index())
	}
}

func TestTransactionSize(t *testing.T) {
	reg, usd, _ := testCurrencies(t)
	al := NewAccountList(usd)
	a1, _ := al.Create("one", nil, Asset)
	a2, _ := al.Create("two", nil, Asset)

	txn := NewTransaction(TypeNormal, day(2019, time.June, 1))
	s1 := txn.NewSplit()
	s1.Account = a1
	s1.Amount = amount.New(4200, usd)
	s2 := txn.NewSplit()
	s2.Account = a2
	s2.Amount = amount.New(-4200, usd)

	size, err := txn.Size(reg)
	assert.NoError(t, err)
	assert.Equal(t, amount.New(4200, usd), size)
}

func TestAffectedAccounts(t *testing.T) {
	_, usd, _ := testCurrencies(t)
	al := NewAccountList(usd)
	a1, _ := al.Create("one", nil, Asset)
	a2, _ := al.Create("two", nil, Expense)

	txn := NewTransaction(TypeNormal, day(2019, time.June, 1))
	txn.NewSplit().Account = a1
	txn.NewSplit().Account = a2
	txn.NewSplit().Account = a1
	txn.NewSplit() // unassigned

	assert.Equal(t, []*Account{a1, a2}, txn.AffectedAccounts())
}

func TestReassignAccount(t *testing.T) {
	_, usd, _ := testCurrencies(t)
	al := NewAccountList(usd)
	a1, _ := al.Create("one", nil, Asset)
	a2, _ := al.Create("two", nil, Asset)

	txn := NewTransaction(TypeNormal, day(2019, time.June, 1))
	s := txn.NewSplit()
	s.Account = a1
	s.ReconciliationDate = day(2019, time.June, 2)

	txn.ReassignAccount(a1, a2)
	assert.Equal(t, a2, s.Account)
	assert.False(t, s.Reconciled())
}

func TestMatches(t *testing.T) {
	_, usd, _ := testCurrencies(t)
	al := NewAccountList(usd)
	groceries, _ := al.Create("Groceries", nil, Expense)
	groceries.GroupName = "Food"

	txn := NewTransaction(TypeNormal, day(2019, time.June, 1))
	txn.Description = "Weekly groceries"
	txn.Payee = "Corner Market"
	txn.CheckNo = "042"
	s := txn.NewSplit()
	s.Account = groceries
	s.Amount = amount.New(-1850, usd)
	s.Memo = "Half shared"

	v := amount.New(1850, usd)
	assert.True(t, txn.Matches(Query{Description: "weekly"}))
	assert.True(t, txn.Matches(Query{Payee: "corner"}))
	assert.True(t, txn.Matches(Query{CheckNo: "042"}))
	assert.True(t, txn.Matches(Query{Memo: "shared"}))
	assert.True(t, txn.Matches(Query{Account: "groceries"}))
	assert.True(t, txn.Matches(Query{Group: "food"}))
	assert.True(t, txn.Matches(Query{Amount: &v}))
	assert.False(t, txn.Matches(Query{Description: "rent", Payee: "landlord"}))
}
