package service

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"

	"github.com/zappabad/stocksurge/internal/ledger"
)

var epoch = time.Date(2026, 1, 2, 9, 30, 0, 0, time.UTC)

func newLedger() *Ledger {
	seq := 0
	cfg := DefaultConfig()
	cfg.NewID = func() string {
		seq++
		return fmt.Sprintf("t-%d", seq)
	}
	return NewLedger(cfg, nil)
}

func TestBuyScenario(t *testing.T) {
	l := newLedger()

	tr, err := l.ExecuteTrade("TechCorp", 10, ledger.Buy, 100.00, epoch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Cash() != 9000.00 {
		t.Errorf("expected cash 9000, got %v", l.Cash())
	}
	if l.Holding("TechCorp") != 10 {
		t.Errorf("expected 10 shares, got %d", l.Holding("TechCorp"))
	}

	trades := l.Trades()
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	want := ledger.Trade{ID: "t-1", Timestamp: epoch, Company: "TechCorp", Quantity: 10, Price: 100, Direction: ledger.Buy}
	if trades[0] != want || tr != want {
		t.Errorf("unexpected trade %+v", trades[0])
	}
}

func TestBuyInsufficientFunds(t *testing.T) {
	l := newLedger()
	before := l.Snapshot()

	_, err := l.ExecuteTrade("TechCorp", 101, ledger.Buy, 100, epoch)
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	var te *ledger.TradeError
	if !errors.As(err, &te) || te.Company != "TechCorp" || te.Quantity != 101 || te.Direction != ledger.Buy {
		t.Errorf("unexpected trade error %#v", err)
	}
	assertUnchanged(t, l, before)
}

func TestBuyExactCash(t *testing.T) {
	l := newLedger()
	if _, err := l.ExecuteTrade("FoodCo", 100, ledger.Buy, 100, epoch); err != nil {
		t.Fatalf("buying with exact cash should succeed: %v", err)
	}
	if l.Cash() != 0 {
		t.Errorf("expected 0 cash, got %v", l.Cash())
	}
}

func TestSellInsufficientHoldings(t *testing.T) {
	l := newLedger()
	if _, err := l.ExecuteTrade("TechCorp", 5, ledger.Buy, 100, epoch); err != nil {
		t.Fatal(err)
	}
	before := l.Snapshot()

	_, err := l.ExecuteTrade("TechCorp", 6, ledger.Sell, 100, epoch)
	if !errors.Is(err, ledger.ErrInsufficientHoldings) {
		t.Fatalf("expected ErrInsufficientHoldings, got %v", err)
	}
	assertUnchanged(t, l, before)

	// unknown company counts as zero held
	_, err = l.ExecuteTrade("Bogus", 1, ledger.Sell, 100, epoch)
	if !errors.Is(err, ledger.ErrInsufficientHoldings) {
		t.Fatalf("expected ErrInsufficientHoldings for unknown company, got %v", err)
	}
	assertUnchanged(t, l, before)
}

func TestInvalidOrders(t *testing.T) {
	l := newLedger()
	before := l.Snapshot()

	cases := []struct {
		qty   int64
		price float64
		dir   ledger.Direction
		want  error
	}{
		{0, 100, ledger.Buy, ledger.ErrInvalidQuantity},
		{-3, 100, ledger.Sell, ledger.ErrInvalidQuantity},
		{1, 0, ledger.Buy, ledger.ErrInvalidPrice},
		{1, math.NaN(), ledger.Buy, ledger.ErrInvalidPrice},
		{1, 100, ledger.Direction(7), ledger.ErrInvalidDirection},
	}
	for _, c := range cases {
		_, err := l.ExecuteTrade("TechCorp", c.qty, c.dir, c.price, epoch)
		if !errors.Is(err, c.want) {
			t.Errorf("qty=%d price=%v: expected %v, got %v", c.qty, c.price, c.want, err)
		}
	}
	assertUnchanged(t, l, before)
}

func TestSellToZeroDropsEntry(t *testing.T) {
	l := newLedger()
	l.ExecuteTrade("HealthInc", 3, ledger.Buy, 50.25, epoch)
	l.ExecuteTrade("HealthInc", 3, ledger.Sell, 60.5, epoch)

	if _, ok := l.Portfolio()["HealthInc"]; ok {
		t.Error("expected zero holding to be removed")
	}
	// 10000 - 150.75 + 181.50
	if l.Cash() != 10030.75 {
		t.Errorf("expected 10030.75, got %v", l.Cash())
	}
}

func TestZeroTimestampUsesClock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Now = func() time.Time { return epoch }
	l := NewLedger(cfg, nil)

	tr, err := l.ExecuteTrade("FoodCo", 1, ledger.Buy, 1, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if !tr.Timestamp.Equal(epoch) {
		t.Errorf("expected %v, got %v", epoch, tr.Timestamp)
	}
	if tr.ID == "" {
		t.Error("expected a generated id")
	}
}

func TestSetPortfolioAndCashSanitizes(t *testing.T) {
	l := newLedger()
	l.ExecuteTrade("FoodCo", 1, ledger.Buy, 10, epoch)

	l.SetPortfolioAndCash(map[string]float64{"TechCorp": 5, "Bogus": math.NaN()}, math.NaN())

	p := l.Portfolio()
	if len(p) != 1 || p["TechCorp"] != 5 {
		t.Errorf("expected {TechCorp:5}, got %v", p)
	}
	if l.Cash() != 0 {
		t.Errorf("expected cash 0, got %v", l.Cash())
	}
	if len(l.Trades()) != 1 {
		t.Errorf("trade log must be kept, got %d trades", len(l.Trades()))
	}
}

func TestSetPortfolioAndCashEdgeValues(t *testing.T) {
	l := newLedger()
	l.SetPortfolioAndCash(map[string]float64{
		"A": math.Inf(1),
		"B": -4,
		"C": 2.9,
		"D": 0,
	}, 1234.567)

	p := l.Portfolio()
	if len(p) != 1 || p["C"] != 2 {
		t.Errorf("expected {C:2}, got %v", p)
	}
	if l.Cash() != 1234.57 {
		t.Errorf("expected cash rounded to 1234.57, got %v", l.Cash())
	}

	l.SetPortfolioAndCash(nil, math.Inf(-1))
	if l.Cash() != 0 || len(l.Portfolio()) != 0 {
		t.Errorf("expected empty ledger with 0 cash, got %v %v", l.Cash(), l.Portfolio())
	}
}

func TestReset(t *testing.T) {
	l := newLedger()
	l.ExecuteTrade("TechCorp", 10, ledger.Buy, 100, epoch)
	l.SetPortfolioAndCash(map[string]float64{"X": 3}, 5)

	l.Reset()
	if l.Cash() != ledger.InitialCash || len(l.Portfolio()) != 0 || len(l.Trades()) != 0 {
		t.Errorf("unexpected state after reset: %+v", l.Snapshot())
	}
}

func TestTotalValue(t *testing.T) {
	l := newLedger()
	l.ExecuteTrade("TechCorp", 10, ledger.Buy, 100, epoch)
	l.ExecuteTrade("FoodCo", 3, ledger.Buy, 33.33, epoch)

	prices := map[string]float64{"TechCorp": 110.5, "FoodCo": 30.01}
	// 10000 - 1000 - 99.99 + 1105 + 90.03
	if got := l.TotalValue(prices); got != 10095.04 {
		t.Errorf("expected 10095.04, got %v", got)
	}

	// holdings without a price are ignored
	if got := l.TotalValue(nil); got != l.Cash() {
		t.Errorf("expected cash only, got %v", got)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	l := newLedger()
	l.ExecuteTrade("TechCorp", 1, ledger.Buy, 1, epoch)

	snap := l.Snapshot()
	snap.Portfolio["TechCorp"] = 99
	snap.Trades[0].Quantity = 99

	if l.Holding("TechCorp") != 1 || l.Trades()[0].Quantity != 1 {
		t.Error("snapshot shares memory with ledger")
	}
}

func assertUnchanged(t *testing.T, l *Ledger, before ledger.Snapshot) {
	t.Helper()
	after := l.Snapshot()
	if after.Cash != before.Cash {
		t.Errorf("cash changed: %v -> %v", before.Cash, after.Cash)
	}
	if len(after.Portfolio) != len(before.Portfolio) {
		t.Errorf("portfolio changed: %v -> %v", before.Portfolio, after.Portfolio)
	}
	for k, v := range before.Portfolio {
		if after.Portfolio[k] != v {
			t.Errorf("holding %s changed: %d -> %d", k, v, after.Portfolio[k])
		}
	}
	if len(after.Trades) != len(before.Trades) {
		t.Errorf("trade log changed: %d -> %d", len(before.Trades), len(after.Trades))
	}
}

// cents draws a price with at most two decimals, as the market produces.
func cents(t *rapid.T, label string) float64 {
	return float64(rapid.Int64Range(1, 50_000).Draw(t, label)) / 100
}

func TestBuySellRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := newLedger()
		cashCents := rapid.Int64Range(0, 10_000_000).Draw(t, "cash")
		startCash := float64(cashCents) / 100
		l.SetPortfolioAndCash(map[string]float64{"TechCorp": float64(rapid.Int64Range(0, 50).Draw(t, "held"))}, startCash)

		before := l.Snapshot()
		price := rapid.Float64Range(0.0001, 500).Draw(t, "price")
		qty := rapid.Int64Range(1, 500).Draw(t, "qty")
		cost := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(qty)).Round(2)

		if _, err := l.ExecuteTrade("TechCorp", qty, ledger.Buy, price, epoch); err != nil {
			if !errors.Is(err, ledger.ErrInsufficientFunds) {
				t.Fatalf("unexpected error: %v", err)
			}
			if cost.LessThanOrEqual(decimal.NewFromFloat(before.Cash)) {
				t.Fatalf("rejected affordable buy: %v x %d with %v", price, qty, before.Cash)
			}
			return
		}
		if _, err := l.ExecuteTrade("TechCorp", qty, ledger.Sell, price, epoch); err != nil {
			t.Fatalf("sell after buy failed: %v", err)
		}

		if l.Cash() != before.Cash {
			t.Fatalf("cash %v after round trip at %v x %d, want %v", l.Cash(), price, qty, before.Cash)
		}
		if l.Holding("TechCorp") != before.Portfolio["TechCorp"] {
			t.Fatalf("holding %d after round trip, want %d", l.Holding("TechCorp"), before.Portfolio["TechCorp"])
		}
		if got := len(l.Trades()) - len(before.Trades); got != 2 {
			t.Fatalf("expected 2 new trades, got %d", got)
		}
	})
}

func TestSubCentPricesDoNotCreateCash(t *testing.T) {
	l := newLedger()

	if _, err := l.ExecuteTrade("TechCorp", 1, ledger.Buy, 0.005, epoch); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if l.Cash() != 9999.99 {
		t.Errorf("expected cash 9999.99 after buy, got %v", l.Cash())
	}
	if _, err := l.ExecuteTrade("TechCorp", 1, ledger.Sell, 0.005, epoch); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if l.Cash() != 10000 {
		t.Errorf("expected cash 10000 after round trip, got %v", l.Cash())
	}

	// A cost that rounds to zero cents.
	if _, err := l.ExecuteTrade("TechCorp", 1, ledger.Buy, 0.004, epoch); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if _, err := l.ExecuteTrade("TechCorp", 1, ledger.Sell, 0.004, epoch); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if l.Cash() != 10000 {
		t.Errorf("expected cash 10000, got %v", l.Cash())
	}
}

func TestRejectedTradesLeaveStateIntact(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := newLedger()
		ops := rapid.IntRange(1, 40).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			company := rapid.SampledFrom([]string{"TechCorp", "EcoEnergy", "FoodCo"}).Draw(t, "company")
			dir := rapid.SampledFrom([]ledger.Direction{ledger.Buy, ledger.Sell}).Draw(t, "dir")
			qty := rapid.Int64Range(1, 200).Draw(t, "qty")
			price := cents(t, "price")

			before := l.Snapshot()
			_, err := l.ExecuteTrade(company, qty, dir, price, epoch)
			after := l.Snapshot()

			if err != nil {
				if after.Cash != before.Cash || len(after.Trades) != len(before.Trades) || after.Portfolio[company] != before.Portfolio[company] {
					t.Fatalf("rejected %s mutated state: %v", dir, err)
				}
				continue
			}
			if after.Cash < 0 {
				t.Fatalf("cash went negative: %v", after.Cash)
			}
			for c, n := range after.Portfolio {
				if n <= 0 {
					t.Fatalf("holding %s is %d", c, n)
				}
			}
			if len(after.Trades) != len(before.Trades)+1 {
				t.Fatalf("expected one trade appended")
			}
		}
	})
}
