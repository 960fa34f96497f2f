package game

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/zappabad/stocksurge/internal/ledger"
	"github.com/zappabad/stocksurge/internal/market"
	"github.com/zappabad/stocksurge/internal/news"
	"github.com/zappabad/stocksurge/internal/notify"
	"github.com/zappabad/stocksurge/internal/testutils"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestGame(r news.Rand) *Game {
	cfg := DefaultConfig()
	cfg.DisableRunner = true
	cfg.LedgerConfig.Now = func() time.Time { return epoch }
	return NewGameWithRand(cfg, r, nil)
}

func TestTradeUsesCurrentPrice(t *testing.T) {
	// "New product launch" (+0.10) on TechCorp, zero noise
	g := newTestGame(&testutils.MockRand{Ints: []int{1, 0}, ValFloat: 0.5})
	defer g.Close()

	g.Start()
	if _, ticked, err := g.Tick(); !ticked || err != nil {
		t.Fatalf("expected tick, got %v %v", ticked, err)
	}

	tr, err := g.Trade("TechCorp", 10, ledger.Buy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Price != 110 || !tr.Timestamp.Equal(epoch) {
		t.Errorf("unexpected trade %+v", tr)
	}
	if g.Ledger.Cash() != 8900 {
		t.Errorf("expected cash 8900, got %v", g.Ledger.Cash())
	}
	if g.TotalValue() != 10000 {
		t.Errorf("expected total 10000, got %v", g.TotalValue())
	}
}

func TestTradeFailuresNotify(t *testing.T) {
	g := newTestGame(news.NewRand(1))
	defer g.Close()

	if _, err := g.Trade("TechCorp", 1000, ledger.Buy); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	last, ok := g.Notifications.Latest()
	if !ok || last.Level != notify.LevelError {
		t.Fatalf("expected an error notification, got %+v", last)
	}

	if _, err := g.Trade("Bogus", 1, ledger.Buy); !errors.Is(err, market.ErrUnknownCompany) {
		t.Fatalf("expected ErrUnknownCompany, got %v", err)
	}
	if _, err := g.Trade("FoodCo", 1, ledger.Sell); !errors.Is(err, ledger.ErrInsufficientHoldings) {
		t.Fatalf("expected ErrInsufficientHoldings, got %v", err)
	}
	if len(g.Ledger.Trades()) != 0 || g.Ledger.Cash() != ledger.InitialCash {
		t.Error("failed trades must not mutate the ledger")
	}
}

func TestHistorySampling(t *testing.T) {
	g := newTestGame(news.NewRand(5))
	defer g.Close()

	if g.History.Len() != 1 {
		t.Fatalf("expected initial sample, got %d", g.History.Len())
	}

	g.Tick() // stopped: no sample
	if g.History.Len() != 1 {
		t.Fatalf("stopped tick must not sample, got %d", g.History.Len())
	}

	g.Start()
	g.Tick()
	g.Trade("HealthInc", 1, ledger.Buy)
	g.Import(map[string]float64{"HealthInc": 2}, 500)
	if g.History.Len() != 4 {
		t.Fatalf("expected 4 samples, got %d", g.History.Len())
	}

	samples := g.History.Samples()
	if last := samples[len(samples)-1]; last.TotalValue != g.TotalValue() {
		t.Errorf("last sample %v != total %v", last.TotalValue, g.TotalValue())
	}
}

func TestResetEverything(t *testing.T) {
	g := newTestGame(news.NewRand(11))
	defer g.Close()

	g.Start()
	for i := 0; i < 10; i++ {
		g.Tick()
	}
	g.Trade("TechCorp", 3, ledger.Buy)
	g.Trade("TechCorp", 1000, ledger.Buy)

	g.Reset()

	st := g.State(0)
	if st.Market.Running || st.Market.SimulatedTime != 0 || len(st.News) != 0 {
		t.Errorf("market not reset: %+v", st.Market)
	}
	for _, s := range st.Market.Stocks {
		if s.Price != 100 || !slices.Equal(s.History, []float64{100}) {
			t.Errorf("%s not reset: %+v", s.Name, s)
		}
	}
	if st.Ledger.Cash != 10000 || len(st.Ledger.Portfolio) != 0 || len(st.Ledger.Trades) != 0 {
		t.Errorf("ledger not reset: %+v", st.Ledger)
	}
	if len(st.History) != 1 || st.History[0].TotalValue != 10000 {
		t.Errorf("history not reset: %+v", st.History)
	}
	if len(g.Notifications.All()) != 0 {
		t.Error("notifications not cleared")
	}
}

func TestStateNewsLimit(t *testing.T) {
	g := newTestGame(news.NewRand(2))
	defer g.Close()

	g.Start()
	for i := 0; i < 8; i++ {
		g.Tick()
	}
	if got := len(g.State(3).News); got != 3 {
		t.Errorf("expected 3 news, got %d", got)
	}
	if got := len(g.State(0).News); got != 8 {
		t.Errorf("expected 8 news, got %d", got)
	}
}

func TestToggle(t *testing.T) {
	g := newTestGame(news.NewRand(1))
	defer g.Close()

	g.Toggle()
	if !g.Market.IsRunning() {
		t.Fatal("expected running")
	}
	g.Toggle()
	if g.Market.IsRunning() {
		t.Fatal("expected stopped")
	}
}

func TestRunnerDrivesTicks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 99
	cfg.RunnerConfig.TickInterval = 5 * time.Millisecond
	g := NewGame(cfg, nil)
	defer g.Close()

	time.Sleep(30 * time.Millisecond)
	if g.Market.SimulatedTime() != 0 {
		t.Fatal("runner ticked while stopped")
	}

	g.Start()
	deadline := time.Now().Add(2 * time.Second)
	for g.Market.SimulatedTime() < 3*market.TimeStep && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	g.Pause()

	if g.Market.SimulatedTime() < 3*market.TimeStep {
		t.Fatalf("expected at least 3 ticks, clock at %d", g.Market.SimulatedTime())
	}
}
