package ports

import (
	"context"
	"time"

	"transaction-ledger/internal/core/domain"
)

// EventSource yields transaction events in arrival order.
// Next returns io.EOF once the stream is exhausted.
type EventSource interface {
	Next() (domain.Event, error)
}

// AuditObserver is notified synchronously of every appended audit record.
// Implementations must not block.
type AuditObserver interface {
	Observe(record domain.AuditRecord)
}

// AuditPublisher ships audit records to an external stream.
type AuditPublisher interface {
	Publish(ctx context.Context, record domain.AuditRecord) error
}

// IdempotencyCache stores responses of already-processed batches.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// --- Service Ports (Business Logic) ---

// LedgerService is the goroutine-safe facade over the processor used by the HTTP API.
type LedgerService interface {
	Submit(ctx context.Context, events []domain.Event) []domain.AuditRecord
	Snapshots(ctx context.Context) []domain.Snapshot
	Snapshot(ctx context.Context, client domain.ClientID) (domain.Snapshot, bool)
	Audit(ctx context.Context, fromSeq uint64, limit int) ([]domain.AuditRecord, int)
	VerifyAudit(ctx context.Context) error
	// Checkpoint returns snapshots and the full audit trail taken under one lock.
	Checkpoint(ctx context.Context) ([]domain.Snapshot, []domain.AuditRecord)
}

// ExportService writes the current ledger state to the reporting store.
type ExportService interface {
	Export(ctx context.Context, source string) (*domain.ExportRun, error)
}

// TokenService handles JWT token operations for API operators.
type TokenService interface {
	Generate(subject string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
}
