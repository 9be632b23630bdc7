package service

import (
	"encoding/hex"
	"errors"
	"fmt"

	"transaction-ledger/internal/core/domain"

	"golang.org/x/crypto/blake2b"
)

// ErrAuditChainBroken is returned when a record digest does not match its predecessor chain.
var ErrAuditChainBroken = errors.New("audit digest chain broken")

// AuditLog is the append-only trail of processed events. Each record is
// chained to the previous one with a BLAKE2b-256 digest.
type AuditLog struct {
	records []domain.AuditRecord
	head    string
}

// NewAuditLog creates an empty AuditLog.
func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

// Append assigns the next sequence number and digest and stores the record.
func (l *AuditLog) Append(r domain.AuditRecord) domain.AuditRecord {
	r.Seq = uint64(len(l.records)) + 1
	r.Digest = chainDigest(l.head, r)
	l.head = r.Digest
	l.records = append(l.records, r)
	return r
}

func (l *AuditLog) Len() int { return len(l.records) }

// Head is the digest of the latest record, empty when the log is empty.
func (l *AuditLog) Head() string { return l.head }

// Records returns a copy of every record in processing order.
func (l *AuditLog) Records() []domain.AuditRecord {
	return append([]domain.AuditRecord(nil), l.records...)
}

// Range returns up to limit records starting at sequence fromSeq.
// A limit <= 0 returns everything from fromSeq on.
func (l *AuditLog) Range(fromSeq uint64, limit int) []domain.AuditRecord {
	if fromSeq < 1 {
		fromSeq = 1
	}
	if fromSeq > uint64(len(l.records)) {
		return []domain.AuditRecord{}
	}
	rest := l.records[fromSeq-1:]
	if limit > 0 && limit < len(rest) {
		rest = rest[:limit]
	}
	return append([]domain.AuditRecord(nil), rest...)
}

// Verify recomputes the digest chain of the log.
func (l *AuditLog) Verify() error {
	return VerifyChain(l.records)
}

// VerifyChain checks sequence numbers and digests of a complete audit trail.
func VerifyChain(records []domain.AuditRecord) error {
	prev := ""
	for i, r := range records {
		if r.Seq != uint64(i)+1 {
			return fmt.Errorf("%w: expected seq %d, got %d", ErrAuditChainBroken, i+1, r.Seq)
		}
		if want := chainDigest(prev, r); r.Digest != want {
			return fmt.Errorf("%w at seq %d", ErrAuditChainBroken, r.Seq)
		}
		prev = r.Digest
	}
	return nil
}

func chainDigest(prev string, r domain.AuditRecord) string {
	sum := blake2b.Sum256([]byte(prev + "|" + r.Canonical()))
	return hex.EncodeToString(sum[:])
}
