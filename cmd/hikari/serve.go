package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"Hikari/internal/di"
	"Hikari/pkg/config"

	"github.com/google/subcommands"
)

type serveCmd struct {
	port int
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the companion server with holdings polling" }
func (*serveCmd) Usage() string {
	return `hikari [-config <file>] serve [-port <n>]

  Polls the holdings backend, loads the market dashboard and serves the web
  assets, the JSON API and the /ws state stream until interrupted.
`
}

func (p *serveCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.port, "port", 0, "Listen port. Overrides server.port and $PORT.")
}

func (p *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		return subcommands.ExitFailure
	}
	if p.port > 0 {
		cfg.Server.Port = p.port
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "app initialization failed: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := app.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "app error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
