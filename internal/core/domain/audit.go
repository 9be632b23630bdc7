package domain

import (
	"errors"
	"fmt"
)

// Outcome tells whether an event changed the ledger.
type Outcome string

const (
	OutcomeAccepted Outcome = "ACCEPTED"
	OutcomeRejected Outcome = "REJECTED"
)

// Reason explains a rejection. Empty for accepted events.
type Reason string

const (
	ReasonOverflow             Reason = "Overflow"
	ReasonInsufficientFunds    Reason = "InsufficientFunds"
	ReasonInsufficientHeld     Reason = "InsufficientHeld"
	ReasonAccountLocked        Reason = "AccountLocked"
	ReasonUnknownTransaction   Reason = "UnknownTransaction"
	ReasonAlreadyDisputed      Reason = "AlreadyDisputed"
	ReasonNotDisputed          Reason = "NotDisputed"
	ReasonChargedBack          Reason = "ChargedBack"
	ReasonDuplicateTransaction Reason = "DuplicateTransaction"
	ReasonNegativeAmount       Reason = "NegativeAmount"
	ReasonMissingAmount        Reason = "MissingAmount"
	ReasonMalformedInput       Reason = "MalformedInput"
	ReasonInternal             Reason = "Internal"
)

var reasons = []struct {
	err    error
	reason Reason
}{
	{ErrOverflow, ReasonOverflow},
	{ErrInsufficientFunds, ReasonInsufficientFunds},
	{ErrInsufficientHeld, ReasonInsufficientHeld},
	{ErrAccountLocked, ReasonAccountLocked},
	{ErrUnknownTransaction, ReasonUnknownTransaction},
	{ErrAlreadyDisputed, ReasonAlreadyDisputed},
	{ErrNotDisputed, ReasonNotDisputed},
	{ErrChargedBack, ReasonChargedBack},
	{ErrDuplicateTransaction, ReasonDuplicateTransaction},
	{ErrNegativeAmount, ReasonNegativeAmount},
	{ErrMissingAmount, ReasonMissingAmount},
	{ErrUnknownKind, ReasonMalformedInput},
}

// ReasonFor maps a ledger error to its rejection reason.
func ReasonFor(err error) Reason {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return ReasonInternal
}

// AuditRecord describes the outcome of one processed event.
// Records are immutable once appended to the audit log.
type AuditRecord struct {
	Seq       uint64   `json:"seq"`
	Tx        TxID     `json:"tx"`
	Client    ClientID `json:"client"`
	Kind      Kind     `json:"type"`
	Outcome   Outcome  `json:"outcome"`
	Available Money    `json:"available"`
	Held      Money    `json:"held"`
	Reason    Reason   `json:"reason,omitempty"`
	Digest    string   `json:"digest"`
}

func (r AuditRecord) Accepted() bool { return r.Outcome == OutcomeAccepted }

// Canonical is the text covered by the audit digest chain.
func (r AuditRecord) Canonical() string {
	return fmt.Sprintf("%d|%d|%d|%s|%s|%s|%s|%s",
		r.Seq, r.Tx, r.Client, r.Kind, r.Outcome, r.Available, r.Held, r.Reason)
}
