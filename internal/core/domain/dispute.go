package domain

import "errors"

var (
	ErrDuplicateTransaction = errors.New("transaction id already recorded for this account")
	ErrUnknownTransaction   = errors.New("transaction not found on this account")
	ErrAlreadyDisputed      = errors.New("transaction already under dispute")
	ErrNotDisputed          = errors.New("transaction not under dispute")
	ErrChargedBack          = errors.New("transaction was charged back")
)

// DisputeState is the dispute lifecycle of a disputable transaction:
//
//	None -> Disputed -> None (resolve)
//	                 -> ChargedBack (chargeback, terminal)
type DisputeState string

const (
	DisputeNone        DisputeState = "NONE"
	DisputeOpen        DisputeState = "DISPUTED"
	DisputeChargedBack DisputeState = "CHARGED_BACK"
)

// Direction records whether the original transaction credited or debited the account.
type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

// Disputable is a retained deposit or withdrawal.
type Disputable struct {
	Tx        TxID
	Amount    Money
	Direction Direction
	State     DisputeState
}

// DisputeTracker maps transaction ids to dispute state for a single account.
// It is owned by its Account and never shared.
type DisputeTracker struct {
	entries map[TxID]*Disputable
}

func NewDisputeTracker() *DisputeTracker {
	return &DisputeTracker{entries: make(map[TxID]*Disputable)}
}

// Record retains a successful deposit or withdrawal.
func (t *DisputeTracker) Record(tx TxID, amount Money, dir Direction) error {
	if _, ok := t.entries[tx]; ok {
		return ErrDuplicateTransaction
	}
	t.entries[tx] = &Disputable{Tx: tx, Amount: amount, Direction: dir, State: DisputeNone}
	return nil
}

func (t *DisputeTracker) Has(tx TxID) bool {
	_, ok := t.entries[tx]
	return ok
}

// Get returns a copy of the tracked transaction.
func (t *DisputeTracker) Get(tx TxID) (Disputable, bool) {
	d, ok := t.entries[tx]
	if !ok {
		return Disputable{}, false
	}
	return *d, true
}

func (t *DisputeTracker) Len() int { return len(t.entries) }

// BeginDispute moves tx from None to Disputed and returns the amount to hold.
// apply runs the matching ledger mutation; the transition is committed only
// if apply returns nil. apply may be nil.
func (t *DisputeTracker) BeginDispute(tx TxID, apply func(Money) error) (Money, error) {
	d, ok := t.entries[tx]
	if !ok {
		return Money{}, ErrUnknownTransaction
	}
	switch d.State {
	case DisputeOpen:
		return Money{}, ErrAlreadyDisputed
	case DisputeChargedBack:
		return Money{}, ErrChargedBack
	}
	return t.transition(d, DisputeOpen, apply)
}

// Resolve closes an open dispute with no lasting effect and returns the amount to release.
func (t *DisputeTracker) Resolve(tx TxID, apply func(Money) error) (Money, error) {
	d, err := t.open(tx)
	if err != nil {
		return Money{}, err
	}
	return t.transition(d, DisputeNone, apply)
}

// Chargeback terminates an open dispute and returns the amount to remove.
func (t *DisputeTracker) Chargeback(tx TxID, apply func(Money) error) (Money, error) {
	d, err := t.open(tx)
	if err != nil {
		return Money{}, err
	}
	return t.transition(d, DisputeChargedBack, apply)
}

func (t *DisputeTracker) open(tx TxID) (*Disputable, error) {
	d, ok := t.entries[tx]
	if !ok {
		return nil, ErrUnknownTransaction
	}
	if d.State != DisputeOpen {
		return nil, ErrNotDisputed
	}
	return d, nil
}

func (t *DisputeTracker) transition(d *Disputable, to DisputeState, apply func(Money) error) (Money, error) {
	if apply != nil {
		if err := apply(d.Amount); err != nil {
			return Money{}, err
		}
	}
	d.State = to
	return d.Amount, nil
}
