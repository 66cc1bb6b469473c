package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/sebkoller/bookkeep/currency"
)

// AccountList owns every account of a document, including soft-deleted ones.
//
// Removal never frees an account: it moves it to the trashcan, where the
// undo log can still reach it. Name uniqueness is only enforced among
// active accounts.
type AccountList struct {
	// DefaultCurrency is given to accounts created without an explicit one.
	DefaultCurrency *currency.Currency

	accounts []*Account
	trashcan []*Account
	entries  map[uuid.UUID]*EntryList
}

// NewAccountList creates an empty list whose new accounts default to the
// given currency.
func NewAccountList(defaultCurrency *currency.Currency) *AccountList {
	return &AccountList{
		DefaultCurrency: defaultCurrency,
		entries:         make(map[uuid.UUID]*EntryList),
	}
}

// Len returns the number of active accounts.
func (al *AccountList) Len() int {
	return len(al.accounts)
}

// All returns the active accounts in creation order. The returned slice is
// shared; callers must not modify it.
func (al *AccountList) All() []*Account {
	return al.accounts
}

// Sorted returns the active accounts ordered by type, then by folded name.
func (al *AccountList) Sorted() []*Account {
	sorted := make([]*Account, len(al.accounts))
	copy(sorted, al.accounts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Type != sorted[j].Type {
			return sorted[i].Type < sorted[j].Type
		}
		return nameKey(sorted[i].Name) < nameKey(sorted[j].Name)
	})
	return sorted
}

// Create adds a new account. It fails with DuplicateAccountNameError when
// the name collides with an active account. A nil currency means the list's
// default.
func (al *AccountList) Create(name string, cur *currency.Currency, typ AccountType) (*Account, error) {
	if found := al.findActive(name); found != nil {
		return nil, &DuplicateAccountNameError{Name: name}
	}
	if cur == nil {
		cur = al.DefaultCurrency
	}
	a := &Account{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(name),
		Type:     typ,
		Currency: cur,
	}
	al.accounts = append(al.accounts, a)
	return a, nil
}

// NewName derives a name that doesn't collide with any active account by
// appending an incrementing number to base.
func (al *AccountList) NewName(base string) string {
	name := base
	for i := 1; al.findActive(name) != nil; i++ {
		name = fmt.Sprintf("%s %d", base, i)
	}
	return name
}

func (al *AccountList) findActive(name string) *Account {
	key := nameKey(name)
	trimmed := strings.TrimSpace(name)
	for _, a := range al.accounts {
		if nameKey(a.Name) == key {
			return a
		}
		if a.AccountNumber != "" && a.AccountNumber == trimmed {
			return a
		}
	}
	return nil
}

// FindByName looks an account up by name (case- and diacritic-insensitive)
// or by exact account number. Soft-deleted accounts are found too, since the
// undo history may still reference them; active accounts win on a tie.
func (al *AccountList) FindByName(name string) *Account {
	if found := al.findActive(name); found != nil {
		return found
	}
	key := nameKey(name)
	for _, a := range al.trashcan {
		if nameKey(a.Name) == key {
			return a
		}
	}
	return nil
}

// FindByReference looks an active account up by its external reference.
func (al *AccountList) FindByReference(reference string) *Account {
	if reference == "" {
		return nil
	}
	for _, a := range al.accounts {
		if a.Reference == reference {
			return a
		}
	}
	return nil
}

// Remove soft-deletes an account into the trashcan. It fails with
// StaleReferenceError when the account is not active in this list.
func (al *AccountList) Remove(target *Account) error {
	for i, a := range al.accounts {
		if a == target {
			al.accounts = append(al.accounts[:i], al.accounts[i+1:]...)
			a.deleted = true
			al.trashcan = append(al.trashcan, a)
			return nil
		}
	}
	return &StaleReferenceError{Kind: "account"}
}

// Undelete restores a soft-deleted account, failing with ErrNotInTrashcan
// if it is not in the trashcan.
func (al *AccountList) Undelete(target *Account) error {
	for i, a := range al.trashcan {
		if a == target {
			al.trashcan = append(al.trashcan[:i], al.trashcan[i+1:]...)
			a.deleted = false
			al.accounts = append(al.accounts, a)
			return nil
		}
	}
	return ErrNotInTrashcan
}

// Rename changes an account's name, preserving its identity. It fails with
// DuplicateAccountNameError when the new name belongs to a different active
// account. An empty name is a no-op.
func (al *AccountList) Rename(target *Account, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil
	}
	if found := al.findActive(newName); found != nil && found != target {
		return &DuplicateAccountNameError{Name: newName}
	}
	target.Name = newName
	return nil
}

// EntriesForAccount returns the account's entry list, creating an empty one
// on first access. The list is keyed by account identity, so it survives
// renames.
func (al *AccountList) EntriesForAccount(a *Account) *EntryList {
	el, ok := al.entries[a.ID]
	if !ok {
		el = NewEntryList(a)
		al.entries[a.ID] = el
	}
	return el
}

// HasMultipleCurrencies reports whether any active account uses a currency
// other than the list's default.
func (al *AccountList) HasMultipleCurrencies() bool {
	for _, a := range al.accounts {
		if a.Currency != al.DefaultCurrency {
			return true
		}
	}
	return false
}

// AutoCreatedCount returns the number of active auto-created accounts.
func (al *AccountList) AutoCreatedCount() int {
	n := 0
	for _, a := range al.accounts {
		if a.AutoCreated {
			n++
		}
	}
	return n
}
