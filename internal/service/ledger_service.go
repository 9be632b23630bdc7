package service

import (
	"context"
	"sync"

	"transaction-ledger/internal/core/domain"
	"transaction-ledger/pkg/apperror"
)

// LedgerServiceImpl serialises access to a single Processor. Batches are
// applied whole under the lock, so events from concurrent requests never
// interleave inside a batch.
type LedgerServiceImpl struct {
	mu   sync.Mutex
	proc *Processor
}

// NewLedgerService wraps proc. proc must not be used directly afterwards.
func NewLedgerService(proc *Processor) *LedgerServiceImpl {
	return &LedgerServiceImpl{proc: proc}
}

// Submit processes events in order and returns one audit record per event.
func (s *LedgerServiceImpl) Submit(_ context.Context, events []domain.Event) []domain.AuditRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.AuditRecord, 0, len(events))
	for _, ev := range events {
		out = append(out, s.proc.Process(ev))
	}
	return out
}

func (s *LedgerServiceImpl) Snapshots(_ context.Context) []domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proc.Ledger().Snapshots()
}

func (s *LedgerServiceImpl) Snapshot(_ context.Context, client domain.ClientID) (domain.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proc.Ledger().Snapshot(client)
}

// Audit returns a page of the audit trail and the total number of records.
func (s *LedgerServiceImpl) Audit(_ context.Context, fromSeq uint64, limit int) ([]domain.AuditRecord, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proc.AuditLog().Range(fromSeq, limit), s.proc.AuditLog().Len()
}

func (s *LedgerServiceImpl) VerifyAudit(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.proc.AuditLog().Verify(); err != nil {
		return apperror.ErrAuditChainBroken(err)
	}
	return nil
}

func (s *LedgerServiceImpl) Checkpoint(_ context.Context) ([]domain.Snapshot, []domain.AuditRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proc.Ledger().Snapshots(), s.proc.AuditLog().Records()
}
