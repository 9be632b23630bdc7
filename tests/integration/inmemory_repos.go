package integration

import (
	"context"
	"errors"
	"sync"

	"transaction-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Report Repo ---

// inMemoryReportRepo keeps exported runs in memory. Writes are staged on the
// memTx and only become visible on Commit.
type inMemoryReportRepo struct {
	mu        sync.RWMutex
	runs      map[uuid.UUID]*domain.ExportRun
	snapshots map[uuid.UUID][]domain.Snapshot
	audit     map[uuid.UUID][]domain.AuditRecord
}

func newInMemoryReportRepo() *inMemoryReportRepo {
	return &inMemoryReportRepo{
		runs:      make(map[uuid.UUID]*domain.ExportRun),
		snapshots: make(map[uuid.UUID][]domain.Snapshot),
		audit:     make(map[uuid.UUID][]domain.AuditRecord),
	}
}

var errForeignTx = errors.New("transaction not created by this repo")

func (r *inMemoryReportRepo) CreateRun(_ context.Context, tx pgx.Tx, run *domain.ExportRun) error {
	mt, ok := tx.(*memTx)
	if !ok {
		return errForeignTx
	}
	cp := *run
	mt.run = &cp
	return nil
}

func (r *inMemoryReportRepo) CopySnapshots(_ context.Context, tx pgx.Tx, _ uuid.UUID, snapshots []domain.Snapshot) (int64, error) {
	mt, ok := tx.(*memTx)
	if !ok {
		return 0, errForeignTx
	}
	mt.snapshots = append(mt.snapshots, snapshots...)
	return int64(len(snapshots)), nil
}

func (r *inMemoryReportRepo) CopyAudit(_ context.Context, tx pgx.Tx, _ uuid.UUID, records []domain.AuditRecord) (int64, error) {
	mt, ok := tx.(*memTx)
	if !ok {
		return 0, errForeignTx
	}
	mt.audit = append(mt.audit, records...)
	return int64(len(records)), nil
}

func (r *inMemoryReportRepo) GetRun(_ context.Context, id uuid.UUID) (*domain.ExportRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, nil
	}
	cp := *run
	return &cp, nil
}

func (r *inMemoryReportRepo) runSnapshots(id uuid.UUID) []domain.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshots[id]
}

func (r *inMemoryReportRepo) runAudit(id uuid.UUID) []domain.AuditRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.audit[id]
}

func (r *inMemoryReportRepo) Begin(_ context.Context) (pgx.Tx, error) {
	return &memTx{repo: r}, nil
}

// memTx is a pgx.Tx that buffers one export run.
type memTx struct {
	repo      *inMemoryReportRepo
	run       *domain.ExportRun
	snapshots []domain.Snapshot
	audit     []domain.AuditRecord
	done      bool
}

func (t *memTx) Commit(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	if t.run == nil {
		return nil
	}
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	t.repo.runs[t.run.ID] = t.run
	t.repo.snapshots[t.run.ID] = t.snapshots
	t.repo.audit[t.run.ID] = t.audit
	return nil
}

func (t *memTx) Rollback(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	return nil
}

func (t *memTx) Begin(_ context.Context) (pgx.Tx, error) { return t, nil }
func (t *memTx) CopyFrom(_ context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *memTx) SendBatch(_ context.Context, _ *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                             { return pgx.LargeObjects{} }
func (t *memTx) Prepare(_ context.Context, _, _ string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *memTx) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *memTx) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) { return nil, nil }
func (t *memTx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row        { return nil }
func (t *memTx) Conn() *pgx.Conn                                               { return nil }
