package main

import (
	"context"
	"flag"
	"fmt"

	"transaction-ledger/config"
	pgStorage "transaction-ledger/internal/adapter/storage/postgres"
	redisStorage "transaction-ledger/internal/adapter/storage/redis"
	"transaction-ledger/internal/core/ports"
	"transaction-ledger/internal/service"
	"transaction-ledger/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// configFlag is shared by every subcommand.
type configFlag struct {
	path string
}

func (c *configFlag) register(f *flag.FlagSet) {
	f.StringVar(&c.path, "config", "", "Path to a YAML config file. Defaults to ./config.yaml when present.")
}

func (c *configFlag) load() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(c.path)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("loading config: %w", err)
	}
	return cfg, logger.New(cfg.Log.Level, cfg.Log.Pretty), nil
}

// stores holds the optional external connections of a run.
type stores struct {
	pool     *pgxpool.Pool
	rdb      *goredis.Client
	checkers []ports.HealthChecker
}

// openStores connects to PostgreSQL and Redis as requested and prepares the
// report schema.
func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger, usePostgres, useRedis bool) (*stores, error) {
	s := &stores{}

	if usePostgres {
		pool, err := pgStorage.NewPool(ctx, cfg.Database, logger.Component(log, "postgres"))
		if err != nil {
			return nil, err
		}
		s.pool = pool
		s.checkers = append(s.checkers, pgStorage.NewHealthCheck(pool))

		if err := pgStorage.EnsureSchema(ctx, pool); err != nil {
			s.Close()
			return nil, err
		}
	}

	if useRedis {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, logger.Component(log, "redis"))
		if err != nil {
			s.Close()
			return nil, err
		}
		s.rdb = rdb
		s.checkers = append(s.checkers, redisStorage.NewHealthCheck(rdb, cfg.Audit.StreamKey))
	}

	return s, nil
}

// streamer returns an AuditStreamer publishing to the configured stream, or
// nil without Redis.
func (s *stores) streamer(cfg config.AuditConfig, log zerolog.Logger, opts ...service.StreamerOption) *service.AuditStreamer {
	if s.rdb == nil {
		return nil
	}
	stream := redisStorage.NewAuditStream(s.rdb, cfg.StreamKey, cfg.StreamMaxLen)
	return service.NewAuditStreamer(stream, cfg.Buffer, logger.Component(log, "audit-stream"), opts...)
}

// exporter returns an export service, or nil without PostgreSQL.
func (s *stores) exporter(ledger ports.LedgerService, log zerolog.Logger) ports.ExportService {
	if s.pool == nil {
		return nil
	}
	return service.NewExportService(
		ledger,
		pgStorage.NewReportRepo(s.pool),
		pgStorage.NewTransactor(s.pool),
		logger.Component(log, "export"),
	)
}

func (s *stores) Close() {
	if s.rdb != nil {
		s.rdb.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}
