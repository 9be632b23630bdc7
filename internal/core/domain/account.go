package domain

import "errors"

var (
	ErrInsufficientFunds = errors.New("insufficient available funds")
	ErrInsufficientHeld  = errors.New("insufficient held funds")
	ErrAccountLocked     = errors.New("account is locked")
	ErrNegativeAmount    = errors.New("amount must not be negative")
	ErrMissingAmount     = errors.New("amount is required")
)

// Account is the ledger record of one client.
//
// Invariants: available >= 0, held >= 0 and available+held fits in Money.
// Every mutating method validates first and changes nothing on error.
type Account struct {
	ID        ClientID
	available Money
	held      Money
	locked    bool
	disputes  *DisputeTracker
}

func NewAccount(id ClientID) *Account {
	return &Account{ID: id, disputes: NewDisputeTracker()}
}

func (a *Account) Available() Money { return a.available }
func (a *Account) Held() Money      { return a.held }
func (a *Account) Locked() bool     { return a.locked }

// Disputes returns the account's own dispute tracker.
func (a *Account) Disputes() *DisputeTracker { return a.disputes }

// Total is available + held.
func (a *Account) Total() Money {
	// Deposit keeps available+held representable, so this cannot overflow.
	total, _ := a.available.Add(a.held)
	return total
}

// Deposit credits available funds. Locked accounts still accept deposits.
func (a *Account) Deposit(amount Money) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	available, err := a.available.Add(amount)
	if err != nil {
		return err
	}
	if _, err := available.Add(a.held); err != nil {
		return err
	}
	a.available = available
	return nil
}

// Withdraw debits available funds of an unlocked account.
func (a *Account) Withdraw(amount Money) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	if a.locked {
		return ErrAccountLocked
	}
	if a.available.LessThan(amount) {
		return ErrInsufficientFunds
	}
	available, err := a.available.Sub(amount)
	if err != nil {
		return err
	}
	a.available = available
	return nil
}

// Hold moves amount from available to held.
func (a *Account) Hold(amount Money) error {
	if a.available.LessThan(amount) {
		return ErrInsufficientFunds
	}
	available, err := a.available.Sub(amount)
	if err != nil {
		return err
	}
	held, err := a.held.Add(amount)
	if err != nil {
		return err
	}
	a.available, a.held = available, held
	return nil
}

// Release moves amount from held back to available.
func (a *Account) Release(amount Money) error {
	if a.held.LessThan(amount) {
		return ErrInsufficientHeld
	}
	held, err := a.held.Sub(amount)
	if err != nil {
		return err
	}
	available, err := a.available.Add(amount)
	if err != nil {
		return err
	}
	a.available, a.held = available, held
	return nil
}

// Chargeback removes amount from held permanently and locks the account.
func (a *Account) Chargeback(amount Money) error {
	if a.held.LessThan(amount) {
		return ErrInsufficientHeld
	}
	held, err := a.held.Sub(amount)
	if err != nil {
		return err
	}
	a.held = held
	a.locked = true
	return nil
}

// Snapshot is the reportable state of an account.
type Snapshot struct {
	Client    ClientID `json:"client"`
	Available Money    `json:"available"`
	Held      Money    `json:"held"`
	Total     Money    `json:"total"`
	Locked    bool     `json:"locked"`
}

func (a *Account) Snapshot() Snapshot {
	return Snapshot{
		Client:    a.ID,
		Available: a.available,
		Held:      a.held,
		Total:     a.Total(),
		Locked:    a.locked,
	}
}
