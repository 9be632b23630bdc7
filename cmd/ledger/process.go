package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"transaction-ledger/internal/adapter/ingest"
	"transaction-ledger/internal/adapter/report"
	"transaction-ledger/internal/core/ports"
	"transaction-ledger/internal/service"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

type processCmd struct {
	cfg       configFlag
	auditPath string
	export    bool
	stream    bool
	stdout    io.Writer // os.Stdout when nil
}

func (*processCmd) Name() string     { return "process" }
func (*processCmd) Synopsis() string { return "replay a transaction CSV and print final balances" }
func (*processCmd) Usage() string {
	return `ledger process [-config f] [-audit file] [-export] [-stream] <transactions.csv>

  Applies every row of the CSV in order and writes one line per client
  account to stdout. Malformed rows are skipped; rejected transactions
  leave balances untouched and are recorded in the audit trail.
`
}

func (p *processCmd) SetFlags(f *flag.FlagSet) {
	p.cfg.register(f)
	f.StringVar(&p.auditPath, "audit", "", "Write the audit trail as CSV to this file.")
	f.BoolVar(&p.export, "export", false, "Export balances and audit trail to PostgreSQL.")
	f.BoolVar(&p.stream, "stream", false, "Publish every audit record to the Redis stream, waiting on Redis when it falls behind.")
}

func (p *processCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, p.Usage())
		return subcommands.ExitUsageError
	}

	cfg, log, err := p.cfg.load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	in, err := os.Open(f.Arg(0))
	if err != nil {
		log.Error().Err(err).Msg("cannot open transactions file")
		return subcommands.ExitFailure
	}
	defer in.Close()

	st, err := openStores(ctx, cfg, log, p.export, p.stream)
	if err != nil {
		log.Error().Err(err).Msg("cannot connect to external stores")
		return subcommands.ExitFailure
	}
	defer st.Close()

	var observers []ports.AuditObserver
	// a batch run waits for the stream rather than dropping records
	streamer := st.streamer(cfg.Audit, log, service.WithBackpressure())
	if streamer != nil {
		observers = append(observers, streamer)
	}

	proc := service.NewProcessor(log, observers...)
	reader := ingest.NewReader(in, log)

	_, err = proc.ProcessAll(ctx, reader)
	if streamer != nil {
		closeStreamer(streamer, log)
	}
	if err != nil {
		log.Error().Err(err).Msg("processing aborted")
		return subcommands.ExitFailure
	}
	if n := reader.Dropped(); n > 0 {
		log.Warn().Int("rows", n).Msg("malformed rows skipped")
	}

	out := p.stdout
	if out == nil {
		out = os.Stdout
	}
	if err := report.WriteSnapshots(out, proc.Ledger().Snapshots()); err != nil {
		log.Error().Err(err).Msg("writing balances")
		return subcommands.ExitFailure
	}

	if p.auditPath != "" {
		if err := writeAuditFile(p.auditPath, proc); err != nil {
			log.Error().Err(err).Str("path", p.auditPath).Msg("writing audit trail")
			return subcommands.ExitFailure
		}
	}

	if exporter := st.exporter(service.NewLedgerService(proc), log); exporter != nil {
		run, err := exporter.Export(ctx, "cli")
		if err != nil {
			log.Error().Err(err).Msg("export failed")
			return subcommands.ExitFailure
		}
		log.Info().Str("run_id", run.ID.String()).Int("accounts", run.Accounts).Msg("run exported")
	}

	return subcommands.ExitSuccess
}

func writeAuditFile(path string, proc *service.Processor) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteAudit(out, proc.AuditLog().Records()); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// closeStreamer drains pending audit records to the stream.
func closeStreamer(s *service.AuditStreamer, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("audit stream not fully drained")
	}
	log.Info().
		Uint64("published", s.Published()).
		Uint64("dropped", s.Dropped()).
		Msg("audit stream closed")
}
