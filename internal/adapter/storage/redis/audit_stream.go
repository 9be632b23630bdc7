package redis

import (
	"context"
	"fmt"
	"strconv"

	"transaction-ledger/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// AuditStream implements ports.AuditPublisher by appending each record to a
// Redis stream. The stream is capped at roughly maxLen entries.
type AuditStream struct {
	client goredis.Cmdable
	key    string
	maxLen int64
}

// NewAuditStream creates a publisher writing to the stream at key.
// maxLen <= 0 leaves the stream uncapped.
func NewAuditStream(client goredis.Cmdable, key string, maxLen int64) *AuditStream {
	return &AuditStream{client: client, key: key, maxLen: maxLen}
}

// Publish appends one record.
func (s *AuditStream) Publish(ctx context.Context, r domain.AuditRecord) error {
	args := &goredis.XAddArgs{
		Stream: s.key,
		Values: map[string]any{
			"seq":       strconv.FormatUint(r.Seq, 10),
			"tx":        strconv.FormatUint(uint64(r.Tx), 10),
			"client":    strconv.FormatUint(uint64(r.Client), 10),
			"type":      string(r.Kind),
			"outcome":   string(r.Outcome),
			"available": r.Available.String(),
			"held":      r.Held.String(),
			"reason":    string(r.Reason),
			"digest":    r.Digest,
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("redis audit xadd seq %d: %w", r.Seq, err)
	}
	return nil
}

// Key returns the stream name.
func (s *AuditStream) Key() string { return s.key }
