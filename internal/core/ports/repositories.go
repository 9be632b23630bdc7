package ports

import (
	"context"

	"transaction-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReportRepository persists exported runs. All writes happen inside the
// caller's transaction so a run is stored completely or not at all.
type ReportRepository interface {
	CreateRun(ctx context.Context, tx pgx.Tx, run *domain.ExportRun) error
	CopySnapshots(ctx context.Context, tx pgx.Tx, runID uuid.UUID, snapshots []domain.Snapshot) (int64, error)
	CopyAudit(ctx context.Context, tx pgx.Tx, runID uuid.UUID, records []domain.AuditRecord) (int64, error)
	GetRun(ctx context.Context, id uuid.UUID) (*domain.ExportRun, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
