package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpHandler "transaction-ledger/internal/adapter/http/handler"
	"transaction-ledger/internal/adapter/http/middleware"
	redisStorage "transaction-ledger/internal/adapter/storage/redis"
	"transaction-ledger/internal/core/ports"
	"transaction-ledger/internal/service"

	"github.com/google/subcommands"
)

type serveCmd struct {
	cfg configFlag
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the ledger over HTTP" }
func (*serveCmd) Usage() string {
	return `ledger serve [-config f]

  Starts the HTTP API. Batches posted to /api/v1/transactions are applied in
  arrival order against an in-memory ledger. PostgreSQL and Redis are used
  when enabled in the configuration.
`
}

func (s *serveCmd) SetFlags(f *flag.FlagSet) {
	s.cfg.register(f)
}

func (s *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := s.cfg.load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Bool("postgres", cfg.Database.Enabled).
		Bool("redis", cfg.Redis.Enabled).
		Msg("starting transaction ledger")

	st, err := openStores(ctx, cfg, log, cfg.Database.Enabled, cfg.Redis.Enabled)
	if err != nil {
		log.Error().Err(err).Msg("cannot connect to external stores")
		return subcommands.ExitFailure
	}
	defer st.Close()

	var observers []ports.AuditObserver
	streamer := st.streamer(cfg.Audit, log)
	if streamer != nil {
		observers = append(observers, streamer)
	}
	proc := service.NewProcessor(log, observers...)
	ledger := service.NewLedgerService(proc)

	deps := httpHandler.RouterDeps{
		Ledger:         ledger,
		ExportSvc:      st.exporter(ledger, log),
		HealthCheckers: st.checkers,
		BatchLimit:     cfg.Ingest.BatchLimit,
		IdempotencyTTL: cfg.Ingest.IdempotencyTTL,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		Mode:           cfg.Server.Mode,
		RateLimit: middleware.RateLimitRule{
			Limit:  cfg.RateLimit.Limit,
			Window: cfg.RateLimit.Window,
		},
		Logger: log,
	}
	if cfg.JWT.Secret != "" {
		deps.TokenSvc = service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	} else {
		log.Warn().Msg("jwt.secret is empty, API is unauthenticated")
	}
	if st.rdb != nil {
		deps.IdempotencyCache = redisStorage.NewIdempotencyCache(st.rdb)
		deps.RateLimiter = redisStorage.NewRateLimitStore(st.rdb)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      httpHandler.SetupRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	status := subcommands.ExitSuccess
	select {
	case <-quit:
		log.Info().Msg("shutting down server...")
	case err := <-serveErr:
		log.Error().Err(err).Msg("HTTP server failed")
		status = subcommands.ExitFailure
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	if streamer != nil {
		closeStreamer(streamer, log)
	}

	snapshots, records := ledger.Checkpoint(context.Background())
	for _, snap := range snapshots {
		log.Info().
			Uint16("client", uint16(snap.Client)).
			Str("available", snap.Available.String()).
			Str("held", snap.Held.String()).
			Str("total", snap.Total.String()).
			Bool("locked", snap.Locked).
			Msg("final balance")
	}
	log.Info().Int("accounts", len(snapshots)).Int("audit_records", len(records)).Msg("server exited")

	return status
}
