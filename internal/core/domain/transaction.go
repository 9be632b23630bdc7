package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownKind reports an event whose type is not a known transaction kind.
var ErrUnknownKind = errors.New("unknown transaction type")

// ClientID identifies an account for the whole run.
type ClientID uint16

// TxID identifies a deposit or withdrawal. Dispute, resolve and chargeback
// events carry the id of the transaction they reference.
type TxID uint32

// Kind is the type of a transaction event.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindChargeback Kind = "chargeback"
)

// ParseKind maps the wire name of a transaction type to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return k, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, s)
}

// CarriesAmount reports whether events of this kind need an amount.
func (k Kind) CarriesAmount() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Event is one typed transaction record handed to the processor.
type Event struct {
	Kind   Kind
	Client ClientID
	Tx     TxID
	Amount *Money // nil when the record had none; ignored for dispute-related kinds
}

func Deposit(client ClientID, tx TxID, amount Money) Event {
	return Event{Kind: KindDeposit, Client: client, Tx: tx, Amount: &amount}
}

func Withdrawal(client ClientID, tx TxID, amount Money) Event {
	return Event{Kind: KindWithdrawal, Client: client, Tx: tx, Amount: &amount}
}

func Dispute(client ClientID, tx TxID) Event {
	return Event{Kind: KindDispute, Client: client, Tx: tx}
}

func Resolve(client ClientID, tx TxID) Event {
	return Event{Kind: KindResolve, Client: client, Tx: tx}
}

func Chargeback(client ClientID, tx TxID) Event {
	return Event{Kind: KindChargeback, Client: client, Tx: tx}
}
