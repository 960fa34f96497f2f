package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/zappabad/stocksurge/internal/export"
	"github.com/zappabad/stocksurge/internal/game"
	"github.com/zappabad/stocksurge/internal/money"
)

type simulateCmd struct {
	ticks      int
	out        string
	seed       int64
	importFile string
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "run the market headless and export CSV files" }
func (*simulateCmd) Usage() string {
	return `simulate -ticks <n> -out <dir> [-seed <n>] [-import <file>]

  Advances the market n ticks without waiting for the clock, then writes
  trades.csv, history.csv, news.csv and portfolio.csv into dir.
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.ticks, "ticks", 100, "number of ticks to run")
	f.StringVar(&c.out, "out", "simulation", "output directory")
	f.Int64Var(&c.seed, "seed", 0, "random seed (0 uses the config seed)")
	f.StringVar(&c.importFile, "import", "", "portfolio file (CSV or JSON) to hold during the run")
}

func (c *simulateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticks <= 0 {
		fmt.Fprintln(os.Stderr, "-ticks must be positive")
		return subcommands.ExitUsageError
	}

	cfg, status := loadConfig()
	if cfg == nil {
		return status
	}
	logger, err := newLogger(cfg, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer logger.Sync()

	gameCfg := cfg.GameConfig()
	gameCfg.DisableRunner = true
	if c.seed != 0 {
		gameCfg.Seed = c.seed
	}
	g := game.NewGame(gameCfg, logger)
	defer g.Close()

	if c.importFile != "" {
		portfolio, cash, err := export.ReadPortfolioFile(c.importFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", c.importFile, err)
			return subcommands.ExitFailure
		}
		g.Import(portfolio, cash)
	}

	st, err := Simulate(g, c.ticks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error simulating: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := export.WriteDir(c.out, st); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing exports: %v\n", err)
		return subcommands.ExitFailure
	}

	logger.Info("simulation complete",
		zap.Int("ticks", c.ticks),
		zap.Int64("simulated_time", st.Market.SimulatedTime),
		zap.String("out", c.out),
	)
	fmt.Printf("Company\tPrice\n")
	for _, s := range st.Market.Stocks {
		fmt.Printf("%s\t%.2f\n", s.Name, s.Price)
	}
	fmt.Printf("Total value\t%s\n", money.Format(st.TotalValue))
	return subcommands.ExitSuccess
}

// Simulate starts g and advances it n ticks, returning the final state with
// the full news log.
func Simulate(g *game.Game, n int) (game.State, error) {
	g.Start()
	for i := 0; i < n; i++ {
		if _, _, err := g.Tick(); err != nil {
			return game.State{}, fmt.Errorf("tick %d: %w", i+1, err)
		}
	}
	g.Pause()
	return g.State(0), nil
}
