package postgres

import (
	"context"
	"errors"
	"fmt"

	"transaction-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	snapshotColumns = []string{"run_id", "client", "available", "held", "total", "locked"}
	auditColumns    = []string{"run_id", "seq", "tx", "client", "kind", "outcome", "available", "held", "reason", "digest"}
)

// ReportRepo implements ports.ReportRepository.
type ReportRepo struct {
	pool Pool
}

// NewReportRepo creates a new ReportRepo.
func NewReportRepo(pool Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// CreateRun inserts the run header within the caller's transaction.
func (r *ReportRepo) CreateRun(ctx context.Context, tx pgx.Tx, run *domain.ExportRun) error {
	query := `INSERT INTO ledger_runs (id, source, accounts, events, rejected, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		run.ID, run.Source, run.Accounts, run.Events, run.Rejected, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// CopySnapshots bulk-loads account snapshots for a run.
func (r *ReportRepo) CopySnapshots(ctx context.Context, tx pgx.Tx, runID uuid.UUID, snapshots []domain.Snapshot) (int64, error) {
	rows := make([][]any, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, []any{
			runID, int32(s.Client), s.Available.Units(), s.Held.Units(), s.Total.Units(), s.Locked,
		})
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"ledger_snapshots"}, snapshotColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy snapshots: %w", err)
	}
	return n, nil
}

// CopyAudit bulk-loads the audit trail for a run.
func (r *ReportRepo) CopyAudit(ctx context.Context, tx pgx.Tx, runID uuid.UUID, records []domain.AuditRecord) (int64, error) {
	n, err := tx.CopyFrom(ctx, pgx.Identifier{"ledger_audit"}, auditColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			rec := records[i]
			return []any{
				runID, int64(rec.Seq), int64(rec.Tx), int32(rec.Client),
				string(rec.Kind), string(rec.Outcome),
				rec.Available.Units(), rec.Held.Units(),
				string(rec.Reason), rec.Digest,
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy audit: %w", err)
	}
	return n, nil
}

// GetRun fetches a run header by id. Returns nil when it does not exist.
func (r *ReportRepo) GetRun(ctx context.Context, id uuid.UUID) (*domain.ExportRun, error) {
	query := `SELECT id, source, accounts, events, rejected, created_at
		FROM ledger_runs WHERE id = $1`

	run := &domain.ExportRun{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&run.ID, &run.Source, &run.Accounts, &run.Events, &run.Rejected, &run.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}
