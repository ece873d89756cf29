package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"Hikari/internal/di"
	"Hikari/internal/tui"
	"Hikari/pkg/config"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/subcommands"
)

type tuiCmd struct {
	logFile string
}

func (*tuiCmd) Name() string     { return "tui" }
func (*tuiCmd) Synopsis() string { return "show the market dashboard in the terminal" }
func (*tuiCmd) Usage() string {
	return `hikari [-config <file>] tui [-log <file>]

  Keys: tab / shift+tab cycle sectors, / search, esc clear search,
  r reload the snapshot, q quit.
`
}

func (p *tuiCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.logFile, "log", "hikari-tui.log", "Log destination while the screen is in use.")
}

func (p *tuiCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		return subcommands.ExitFailure
	}
	cfg.Log.Output = p.logFile
	cfg.Log.Format = "json"
	cfg.Events.Enabled = false

	loader, err := di.InitializeDashboard(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dashboard initialization failed: %v\n", err)
		return subcommands.ExitFailure
	}

	prog := tea.NewProgram(tui.NewModel(loader, nil), tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
