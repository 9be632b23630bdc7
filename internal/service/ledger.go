package service

import (
	"slices"

	"transaction-ledger/internal/core/domain"
)

// Ledger holds one account per client id. Accounts are created on first
// touch and never removed during a run.
type Ledger struct {
	accounts map[domain.ClientID]*domain.Account
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{accounts: make(map[domain.ClientID]*domain.Account)}
}

// GetOrCreate returns the account for id, creating a zeroed one if needed.
func (l *Ledger) GetOrCreate(id domain.ClientID) *domain.Account {
	acct, ok := l.accounts[id]
	if !ok {
		acct = domain.NewAccount(id)
		l.accounts[id] = acct
	}
	return acct
}

func (l *Ledger) ApplyDeposit(id domain.ClientID, amount domain.Money) error {
	return l.GetOrCreate(id).Deposit(amount)
}

func (l *Ledger) ApplyWithdrawal(id domain.ClientID, amount domain.Money) error {
	return l.GetOrCreate(id).Withdraw(amount)
}

func (l *Ledger) ApplyHold(id domain.ClientID, amount domain.Money) error {
	return l.GetOrCreate(id).Hold(amount)
}

func (l *Ledger) ApplyRelease(id domain.ClientID, amount domain.Money) error {
	return l.GetOrCreate(id).Release(amount)
}

func (l *Ledger) ApplyChargeback(id domain.ClientID, amount domain.Money) error {
	return l.GetOrCreate(id).Chargeback(amount)
}

// Snapshot returns the reportable state of a known account.
func (l *Ledger) Snapshot(id domain.ClientID) (domain.Snapshot, bool) {
	acct, ok := l.accounts[id]
	if !ok {
		return domain.Snapshot{}, false
	}
	return acct.Snapshot(), true
}

// Snapshots returns every account ordered by client id.
func (l *Ledger) Snapshots() []domain.Snapshot {
	ids := make([]domain.ClientID, 0, len(l.accounts))
	for id := range l.accounts {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]domain.Snapshot, 0, len(ids))
	for _, id := range ids {
		out = append(out, l.accounts[id].Snapshot())
	}
	return out
}

func (l *Ledger) Len() int { return len(l.accounts) }
