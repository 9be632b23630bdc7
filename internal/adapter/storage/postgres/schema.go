package postgres

import (
	"context"
	"fmt"
)

// Money columns hold scaled units (1 unit = 0.0001).
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS ledger_runs (
		id         UUID PRIMARY KEY,
		source     TEXT NOT NULL,
		accounts   INTEGER NOT NULL,
		events     INTEGER NOT NULL,
		rejected   INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_snapshots (
		run_id    UUID NOT NULL REFERENCES ledger_runs(id) ON DELETE CASCADE,
		client    INTEGER NOT NULL,
		available BIGINT NOT NULL,
		held      BIGINT NOT NULL,
		total     BIGINT NOT NULL,
		locked    BOOLEAN NOT NULL,
		PRIMARY KEY (run_id, client)
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_audit (
		run_id    UUID NOT NULL REFERENCES ledger_runs(id) ON DELETE CASCADE,
		seq       BIGINT NOT NULL,
		tx        BIGINT NOT NULL,
		client    INTEGER NOT NULL,
		kind      TEXT NOT NULL,
		outcome   TEXT NOT NULL,
		available BIGINT NOT NULL,
		held      BIGINT NOT NULL,
		reason    TEXT NOT NULL DEFAULT '',
		digest    TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	)`,
}

// EnsureSchema creates the report tables when they do not exist yet.
func EnsureSchema(ctx context.Context, pool Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
