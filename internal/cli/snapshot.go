package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/zappabad/stocksurge/internal/export"
	ledgerservice "github.com/zappabad/stocksurge/internal/ledger/service"
	"github.com/zappabad/stocksurge/internal/store"
)

type saveCmd struct {
	from string
}

func (*saveCmd) Name() string     { return "save" }
func (*saveCmd) Synopsis() string { return "store a portfolio file under a name" }
func (*saveCmd) Usage() string {
	return `save -from <file> <name>

  Reads a portfolio (CSV export or JSON), sanitizes it like an import and
  stores cash and holdings in Redis under name.
`
}

func (c *saveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "exports/portfolio.csv", "portfolio file (CSV or JSON)")
}

func (c *saveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "save requires exactly one snapshot name")
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)

	cfg, status := loadConfig()
	if cfg == nil {
		return status
	}

	portfolio, cash, err := export.ReadPortfolioFile(c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", c.from, err)
		return subcommands.ExitFailure
	}

	rs, err := dialStore(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening snapshot store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rs.Close()

	snap := sanitize(portfolio, cash, time.Now())
	if err := rs.Save(ctx, name, snap); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving %q: %v\n", name, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("saved %q: cash %.2f, %d holdings\n", name, snap.Cash, len(snap.Portfolio))
	return subcommands.ExitSuccess
}

// sanitize runs the values through a scratch ledger so a saved snapshot
// obeys the same rules as an import.
func sanitize(portfolio map[string]float64, cash float64, now time.Time) store.PortfolioSnapshot {
	l := ledgerservice.NewLedger(ledgerservice.DefaultConfig(), nil)
	l.SetPortfolioAndCash(portfolio, cash)
	return store.FromLedger(l.Snapshot(), now)
}

type loadCmd struct {
	out string
}

func (*loadCmd) Name() string     { return "load" }
func (*loadCmd) Synopsis() string { return "write a stored portfolio to a file" }
func (*loadCmd) Usage() string {
	return `load [-out <file>] <name>

  Fetches the snapshot stored under name and writes it as JSON, ready for
  play -import or POST /import.
`
}

func (c *loadCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "out", "", "output file (default: stdout)")
}

func (c *loadCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "load requires exactly one snapshot name")
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)

	cfg, status := loadConfig()
	if cfg == nil {
		return status
	}
	rs, err := dialStore(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening snapshot store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rs.Close()

	snap, err := rs.Load(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "no snapshot named %q\n", name)
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %q: %v\n", name, err)
		return subcommands.ExitFailure
	}

	if c.out == "" {
		err = export.WritePortfolioJSON(os.Stdout, snap.Portfolio, snap.Cash)
	} else {
		err = export.WriteFile(c.out, func(w io.Writer) error {
			return export.WritePortfolioJSON(w, snap.Portfolio, snap.Cash)
		})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing snapshot: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
