package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"transaction-ledger/internal/service"

	"github.com/google/subcommands"
)

type tokenCmd struct {
	cfg     configFlag
	subject string
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "issue an operator bearer token for the HTTP API" }
func (*tokenCmd) Usage() string {
	return `ledger token [-config f] [-subject s]

  Prints a JWT signed with jwt.secret. Pass it as "Authorization: Bearer <token>".
`
}

func (t *tokenCmd) SetFlags(f *flag.FlagSet) {
	t.cfg.register(f)
	f.StringVar(&t.subject, "subject", "operator", "Subject claim of the token.")
}

func (t *tokenCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, _, err := t.cfg.load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "jwt.secret is not configured (set LEDGER_JWT_SECRET)")
		return subcommands.ExitFailure
	}

	svc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	token, expiry, err := svc.Generate(t.subject)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", expiry.Format(time.RFC3339))
	return subcommands.ExitSuccess
}
