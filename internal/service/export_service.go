package service

import (
	"context"
	"fmt"
	"time"

	"transaction-ledger/internal/core/domain"
	"transaction-ledger/internal/core/ports"
	"transaction-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ExportServiceImpl copies a consistent checkpoint of the ledger into the
// reporting database. The database is a sink only; nothing is read back into
// the ledger.
type ExportServiceImpl struct {
	ledger     ports.LedgerService
	repo       ports.ReportRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewExportService creates a new export service.
func NewExportService(
	ledger ports.LedgerService,
	repo ports.ReportRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *ExportServiceImpl {
	return &ExportServiceImpl{
		ledger:     ledger,
		repo:       repo,
		transactor: transactor,
		log:        log,
	}
}

// Export writes one run with all snapshots and audit records atomically.
func (s *ExportServiceImpl) Export(ctx context.Context, source string) (*domain.ExportRun, error) {
	snapshots, records := s.ledger.Checkpoint(ctx)

	run := &domain.ExportRun{
		ID:        uuid.New(),
		Source:    source,
		Accounts:  len(snapshots),
		Events:    len(records),
		CreatedAt: time.Now().UTC(),
	}
	for _, r := range records {
		if !r.Accepted() {
			run.Rejected++
		}
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.repo.CreateRun(ctx, dbTx, run); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create run: %w", err))
	}

	n, err := s.repo.CopySnapshots(ctx, dbTx, run.ID, snapshots)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("copy snapshots: %w", err))
	}
	if int(n) != len(snapshots) {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("copy snapshots: wrote %d of %d rows", n, len(snapshots)))
	}

	n, err = s.repo.CopyAudit(ctx, dbTx, run.ID, records)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("copy audit: %w", err))
	}
	if int(n) != len(records) {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("copy audit: wrote %d of %d rows", n, len(records)))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("run_id", run.ID.String()).
		Str("source", source).
		Int("accounts", run.Accounts).
		Int("events", run.Events).
		Msg("ledger exported")

	return run, nil
}
