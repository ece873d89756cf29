package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"Hikari/internal/di"
	"Hikari/internal/domain/models"
	"Hikari/pkg/config"

	"github.com/google/subcommands"
	"gopkg.in/yaml.v3"
)

type snapshotCmd struct {
	sector string
	search string
	format string
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "print the derived dashboard view" }
func (*snapshotCmd) Usage() string {
	return `hikari [-config <file>] snapshot [-sector <name>] [-q <text>] [-format json|yaml]

  Loads the dashboard source once (falling back to the built-in dataset)
  and prints the view the dashboard would render for the given filter.
`
}

func (p *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.sector, "sector", models.SectorAll, "Sector filter.")
	f.StringVar(&p.search, "q", "", "Case-insensitive symbol or name search.")
	f.StringVar(&p.format, "format", "json", "Output format (json, yaml).")
}

func (p *snapshotCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		return subcommands.ExitFailure
	}
	cfg.Log.Output = "stderr"
	cfg.Events.Enabled = false

	loader, err := di.InitializeDashboard(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dashboard initialization failed: %v\n", err)
		return subcommands.ExitFailure
	}
	loader.Load(ctx)

	view := loader.View(models.Filter{Sector: p.sector, Search: p.search}, time.Now())

	switch p.format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		err = enc.Encode(view)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		err = enc.Encode(view)
		if err == nil {
			err = enc.Close()
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q\n", p.format)
		return subcommands.ExitUsageError
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode view: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
