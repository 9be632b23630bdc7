package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"transaction-ledger/internal/core/domain"
	"transaction-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// Summary counts the outcome of a processed stream.
type Summary struct {
	Events   int
	Accepted int
	Rejected int
	Accounts int
}

// Processor is the transaction state machine. It applies events strictly in
// order; each event is fully applied and audited before the next one.
// A Processor is not safe for concurrent use.
type Processor struct {
	ledger    *Ledger
	audit     *AuditLog
	observers []ports.AuditObserver
	log       zerolog.Logger
}

// NewProcessor creates a Processor with an empty ledger and audit log.
func NewProcessor(log zerolog.Logger, observers ...ports.AuditObserver) *Processor {
	return &Processor{
		ledger:    NewLedger(),
		audit:     NewAuditLog(),
		observers: observers,
		log:       log,
	}
}

func (p *Processor) Ledger() *Ledger     { return p.ledger }
func (p *Processor) AuditLog() *AuditLog { return p.audit }

// Process applies one event and returns its audit record. Failures never
// abort processing; they produce a rejected record and leave the ledger as
// it was.
func (p *Processor) Process(ev domain.Event) domain.AuditRecord {
	acct := p.ledger.GetOrCreate(ev.Client)
	err := p.apply(acct, ev)

	rec := domain.AuditRecord{
		Tx:        ev.Tx,
		Client:    ev.Client,
		Kind:      ev.Kind,
		Outcome:   domain.OutcomeAccepted,
		Available: acct.Available(),
		Held:      acct.Held(),
	}
	if err != nil {
		rec.Outcome = domain.OutcomeRejected
		rec.Reason = domain.ReasonFor(err)
		p.log.Debug().
			Err(err).
			Str("type", string(ev.Kind)).
			Uint16("client", uint16(ev.Client)).
			Uint32("tx", uint32(ev.Tx)).
			Str("reason", string(rec.Reason)).
			Msg("transaction rejected")
	}

	rec = p.audit.Append(rec)
	for _, o := range p.observers {
		o.Observe(rec)
	}
	return rec
}

func (p *Processor) apply(acct *domain.Account, ev domain.Event) error {
	disputes := acct.Disputes()

	switch ev.Kind {
	case domain.KindDeposit:
		amount, err := validAmount(ev)
		if err != nil {
			return err
		}
		if disputes.Has(ev.Tx) {
			return domain.ErrDuplicateTransaction
		}
		if err := p.ledger.ApplyDeposit(ev.Client, amount); err != nil {
			return err
		}
		return disputes.Record(ev.Tx, amount, domain.DirectionCredit)

	case domain.KindWithdrawal:
		amount, err := validAmount(ev)
		if err != nil {
			return err
		}
		if disputes.Has(ev.Tx) {
			return domain.ErrDuplicateTransaction
		}
		if err := p.ledger.ApplyWithdrawal(ev.Client, amount); err != nil {
			return err
		}
		return disputes.Record(ev.Tx, amount, domain.DirectionDebit)

	// The amount of dispute-related events always comes from the referenced
	// transaction, never from the event itself.
	case domain.KindDispute:
		_, err := disputes.BeginDispute(ev.Tx, func(amount domain.Money) error {
			return p.ledger.ApplyHold(ev.Client, amount)
		})
		return err

	case domain.KindResolve:
		_, err := disputes.Resolve(ev.Tx, func(amount domain.Money) error {
			return p.ledger.ApplyRelease(ev.Client, amount)
		})
		return err

	case domain.KindChargeback:
		_, err := disputes.Chargeback(ev.Tx, func(amount domain.Money) error {
			return p.ledger.ApplyChargeback(ev.Client, amount)
		})
		return err
	}

	return fmt.Errorf("%w %q", domain.ErrUnknownKind, ev.Kind)
}

func validAmount(ev domain.Event) (domain.Money, error) {
	if ev.Amount == nil {
		return domain.Money{}, domain.ErrMissingAmount
	}
	if ev.Amount.IsNegative() {
		return domain.Money{}, domain.ErrNegativeAmount
	}
	return *ev.Amount, nil
}

// ProcessAll drains source until io.EOF. The context is only consulted
// between events, so an event is never partially applied.
func (p *Processor) ProcessAll(ctx context.Context, source ports.EventSource) (Summary, error) {
	var s Summary
	for {
		if err := ctx.Err(); err != nil {
			return p.finish(s), err
		}
		ev, err := source.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return p.finish(s), fmt.Errorf("reading event: %w", err)
		}

		s.Events++
		if p.Process(ev).Accepted() {
			s.Accepted++
		} else {
			s.Rejected++
		}
	}

	s = p.finish(s)
	p.log.Info().
		Int("events", s.Events).
		Int("accepted", s.Accepted).
		Int("rejected", s.Rejected).
		Int("accounts", s.Accounts).
		Msg("transaction stream processed")
	return s, nil
}

func (p *Processor) finish(s Summary) Summary {
	s.Accounts = p.ledger.Len()
	return s
}
