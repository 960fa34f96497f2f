package cli

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zappabad/stocksurge/internal/export"
	"github.com/zappabad/stocksurge/internal/game"
	"github.com/zappabad/stocksurge/internal/market"
)

func newHeadlessGame(seed int64) *game.Game {
	cfg := game.DefaultConfig()
	cfg.DisableRunner = true
	cfg.Seed = seed
	return game.NewGame(cfg, nil)
}

func TestSimulate(t *testing.T) {
	g := newHeadlessGame(7)
	defer g.Close()

	st, err := Simulate(g, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Market.SimulatedTime != 200 {
		t.Errorf("expected clock 200, got %d", st.Market.SimulatedTime)
	}
	if len(st.News) != 40 {
		t.Errorf("expected 40 news events, got %d", len(st.News))
	}
	for _, s := range st.Market.Stocks {
		if len(s.History) != market.HistoryWindow {
			t.Errorf("%s: expected %d samples, got %d", s.Name, market.HistoryWindow, len(s.History))
		}
	}
	if st.Market.Running {
		t.Error("simulation should leave the market paused")
	}
}

func TestSimulateIsDeterministic(t *testing.T) {
	a, b := newHeadlessGame(99), newHeadlessGame(99)
	defer a.Close()
	defer b.Close()

	sa, _ := Simulate(a, 25)
	sb, _ := Simulate(b, 25)
	for i := range sa.Market.Stocks {
		if sa.Market.Stocks[i].Price != sb.Market.Stocks[i].Price {
			t.Fatalf("same seed diverged on %s", sa.Market.Stocks[i].Name)
		}
	}
}

func TestSimulateThenExport(t *testing.T) {
	g := newHeadlessGame(3)
	defer g.Close()
	st, _ := Simulate(g, 5)

	dir := filepath.Join(t.TempDir(), "out")
	if err := export.WriteDir(dir, st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, k := range export.Kinds {
		if _, err := os.Stat(filepath.Join(dir, k.FileName())); err != nil {
			t.Errorf("missing %s: %v", k, err)
		}
	}

	portfolio, cash, err := export.ReadPortfolioFile(filepath.Join(dir, export.KindPortfolio.FileName()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cash != 10000 || len(portfolio) != 0 {
		t.Errorf("unexpected portfolio read back: %v %v", portfolio, cash)
	}
}

func TestSanitize(t *testing.T) {
	now := time.Now()
	snap := sanitize(map[string]float64{"TechCorp": 5.7, "Bogus": math.NaN(), "Neg": -2}, math.Inf(1), now)

	if snap.Cash != 0 {
		t.Errorf("expected non-finite cash to become 0, got %v", snap.Cash)
	}
	if len(snap.Portfolio) != 1 || snap.Portfolio["TechCorp"] != 5 {
		t.Errorf("unexpected portfolio %v", snap.Portfolio)
	}
	if !snap.SavedAt.Equal(now) {
		t.Error("expected SavedAt to be stamped")
	}
}
