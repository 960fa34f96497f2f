package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/zappabad/stocksurge/internal/export"
	"github.com/zappabad/stocksurge/internal/game"
	"github.com/zappabad/stocksurge/tui"
)

type playCmd struct {
	exportDir  string
	importFile string
	autostart  bool
}

func (*playCmd) Name() string     { return "play" }
func (*playCmd) Synopsis() string { return "play the market in the terminal" }
func (*playCmd) Usage() string {
	return `play [-export-dir <dir>] [-import <file>] [-autostart]

  Opens the terminal UI. Logs go to the configured log file, or
  stocksurge.log, so the screen stays clean.
`
}

func (c *playCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.exportDir, "export-dir", "exports", "directory for CSV exports")
	f.StringVar(&c.importFile, "import", "", "portfolio file (CSV or JSON) to start from")
	f.BoolVar(&c.autostart, "autostart", false, "start the market immediately")
}

func (c *playCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, status := loadConfig()
	if cfg == nil {
		return status
	}
	logger, err := newLogger(cfg, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer logger.Sync()

	g := game.NewGame(cfg.GameConfig(), logger)
	defer g.Close()

	if c.importFile != "" {
		portfolio, cash, err := export.ReadPortfolioFile(c.importFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", c.importFile, err)
			return subcommands.ExitFailure
		}
		g.Import(portfolio, cash)
	}
	if c.autostart {
		g.Start()
	}

	p := tea.NewProgram(tui.NewModel(g, c.exportDir), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("tui stopped", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
