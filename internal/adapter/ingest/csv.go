// Package ingest turns transaction CSV into domain events.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"transaction-ledger/internal/core/domain"

	"github.com/rs/zerolog"
)

// Reader yields events from CSV rows of the form type,client,tx,amount.
// Rows that cannot become a well-typed event are skipped and counted.
type Reader struct {
	csv     *csv.Reader
	log     zerolog.Logger
	line    int
	dropped int
}

// NewReader wraps r. A leading header row, if any, is detected and skipped.
func NewReader(r io.Reader, log zerolog.Logger) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // Allow variable number of fields
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return &Reader{csv: cr, log: log}
}

// Next returns the next well-formed event, or io.EOF at end of input.
// Only errors from the underlying reader are returned; malformed rows are not errors.
func (r *Reader) Next() (domain.Event, error) {
	for {
		record, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			return domain.Event{}, io.EOF
		}
		r.line++

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			r.drop(err)
			continue
		}
		if err != nil {
			return domain.Event{}, fmt.Errorf("reading csv: %w", err)
		}

		if r.line == 1 && isHeader(record) {
			continue
		}

		ev, err := parseRecord(record)
		if err != nil {
			r.drop(err)
			continue
		}
		return ev, nil
	}
}

// Dropped is the number of rows skipped so far.
func (r *Reader) Dropped() int { return r.dropped }

func (r *Reader) drop(err error) {
	r.dropped++
	r.log.Debug().Err(err).Int("line", r.line).Msg("skipping malformed row")
}

func isHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "type")
}

func parseRecord(record []string) (domain.Event, error) {
	if len(record) < 3 || len(record) > 4 {
		return domain.Event{}, fmt.Errorf("expected 3 or 4 fields, got %d", len(record))
	}

	kind, err := domain.ParseKind(strings.TrimSpace(record[0]))
	if err != nil {
		return domain.Event{}, err
	}

	client, err := strconv.ParseUint(strings.TrimSpace(record[1]), 10, 16)
	if err != nil {
		return domain.Event{}, fmt.Errorf("client: %w", err)
	}
	tx, err := strconv.ParseUint(strings.TrimSpace(record[2]), 10, 32)
	if err != nil {
		return domain.Event{}, fmt.Errorf("tx: %w", err)
	}

	ev := domain.Event{Kind: kind, Client: domain.ClientID(client), Tx: domain.TxID(tx)}
	if !kind.CarriesAmount() {
		return ev, nil
	}

	var raw string
	if len(record) == 4 {
		raw = strings.TrimSpace(record[3])
	}
	if raw == "" {
		return domain.Event{}, domain.ErrMissingAmount
	}
	amount, err := domain.ParseMoney(raw)
	if err != nil {
		return domain.Event{}, fmt.Errorf("amount: %w", err)
	}
	ev.Amount = &amount
	return ev, nil
}
