// Package report renders ledger snapshots and audit trails as CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"transaction-ledger/internal/core/domain"
)

var (
	snapshotHeader = []string{"client", "available", "held", "total", "locked"}
	auditHeader    = []string{"seq", "tx", "client", "type", "outcome", "available", "held", "reason", "digest"}
)

// WriteSnapshots writes one row per account ordered by client id.
func WriteSnapshots(w io.Writer, snapshots []domain.Snapshot) error {
	sorted := slices.Clone(snapshots)
	slices.SortFunc(sorted, func(a, b domain.Snapshot) int {
		return int(a.Client) - int(b.Client)
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(snapshotHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, s := range sorted {
		row := []string{
			strconv.FormatUint(uint64(s.Client), 10),
			s.Available.String(),
			s.Held.String(),
			s.Total.String(),
			strconv.FormatBool(s.Locked),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing client %d: %w", s.Client, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAudit writes the audit trail in processing order.
func WriteAudit(w io.Writer, records []domain.AuditRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(auditHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.FormatUint(r.Seq, 10),
			strconv.FormatUint(uint64(r.Tx), 10),
			strconv.FormatUint(uint64(r.Client), 10),
			string(r.Kind),
			string(r.Outcome),
			r.Available.String(),
			r.Held.String(),
			string(r.Reason),
			r.Digest,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing seq %d: %w", r.Seq, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
