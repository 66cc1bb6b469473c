package ledger

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotInTrashcan is returned when undeleting an account that was never
// soft-deleted.
var ErrNotInTrashcan = errors.New("account is not in the trashcan")

// DuplicateAccountNameError is returned when creating or renaming an account
// would collide with another active account's name. Name comparison is
// case- and diacritic-insensitive.
type DuplicateAccountNameError struct {
	Name string
}

func (e *DuplicateAccountNameError) Error() string {
	return fmt.Sprintf("account name %q is already taken", e.Name)
}

func (e *DuplicateAccountNameError) GetName() string {
	return e.Name
}

// StaleReferenceError is returned when an operation addresses a split or
// account through a reference its supposed owner no longer recognizes. It
// signals a caller-side bookkeeping error; the call had no effect.
type StaleReferenceError struct {
	Kind string // "split", "account" or "transaction"
}

func (e *StaleReferenceError) Error() string {
	return fmt.Sprintf("stale %s reference", e.Kind)
}

// ConversionError is returned when an amount could not be converted to an
// account's currency while cooking entries.
type ConversionError struct {
	Date       time.Time
	Currency   string
	Underlying error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert to %s at %s: %v",
		e.Currency, e.Date.Format("2006-01-02"), e.Underlying)
}

func (e *ConversionError) Unwrap() error {
	return e.Underlying
}

func (e *ConversionError) GetDate() time.Time {
	return e.Date
}
