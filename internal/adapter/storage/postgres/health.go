package postgres

import (
	"context"
	"errors"
	"fmt"
)

const schemaProbe = `SELECT to_regclass('ledger_runs') IS NOT NULL`

var ErrSchemaMissing = errors.New("report schema missing")

// HealthCheck reports the report store healthy once it is reachable and
// EnsureSchema has run against it.
type HealthCheck struct {
	pool Pool
}

func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	if err := h.pool.Ping(ctx); err != nil {
		return err
	}
	var present bool
	if err := h.pool.QueryRow(ctx, schemaProbe).Scan(&present); err != nil {
		return fmt.Errorf("probing report schema: %w", err)
	}
	if !present {
		return ErrSchemaMissing
	}
	return nil
}

func (h *HealthCheck) Name() string { return "postgresql" }
