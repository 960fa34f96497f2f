package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zappabad/stocksurge/internal/export"
	"github.com/zappabad/stocksurge/internal/game"
	"github.com/zappabad/stocksurge/internal/ledger"
	"github.com/zappabad/stocksurge/internal/testutils"
	"github.com/zappabad/stocksurge/tui/panels"
)

func newTestModel(t *testing.T) (*Model, *game.Game) {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.DisableRunner = true
	g := game.NewGameWithRand(cfg, testutils.ZeroNoise(), nil)
	t.Cleanup(g.Close)

	m := NewModel(g, t.TempDir())
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 48})
	return m, g
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStartPauseKey(t *testing.T) {
	m, g := newTestModel(t)

	m.Update(runes("s"))
	if !g.Market.IsRunning() {
		t.Fatal("expected s to start the game")
	}
	if !strings.Contains(m.View(), "LIVE") {
		t.Error("status bar should show LIVE")
	}

	m.Update(runes("s"))
	if g.Market.IsRunning() {
		t.Fatal("expected s to pause the game")
	}
}

func TestResetKey(t *testing.T) {
	m, g := newTestModel(t)
	g.Start()
	g.Tick()

	m.Update(runes("r"))
	if g.Market.SimulatedTime() != 0 || g.Market.IsRunning() {
		t.Error("expected r to reset the game")
	}
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestShortcutsOffWhileTyping(t *testing.T) {
	m, g := newTestModel(t)
	m.setFocus(FocusOrderInput)
	m.View()

	m.Update(runes("s"))
	if g.Market.IsRunning() {
		t.Error("typing s into the order form must not start the game")
	}
}

func TestTabCyclesFocus(t *testing.T) {
	m, _ := newTestModel(t)

	for i := 1; i <= panelCount; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if want := PanelFocus(i % panelCount); m.focusedPanel != want {
			t.Fatalf("after %d tabs expected focus %d, got %d", i, want, m.focusedPanel)
		}
	}
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focusedPanel != FocusOrderInput {
		t.Errorf("expected shift+tab to wrap to order input, got %d", m.focusedPanel)
	}
}

func TestSubmitOrder(t *testing.T) {
	m, g := newTestModel(t)

	msg := m.submitOrder(panels.OrderSubmitMsg{Company: "FoodCo", Direction: ledger.Buy, Quantity: 4})()
	m.Update(msg)

	if g.Ledger.Holding("FoodCo") != 4 {
		t.Fatalf("expected 4 FoodCo shares, got %d", g.Ledger.Holding("FoodCo"))
	}
	if !strings.Contains(m.View(), "Bought 4 FoodCo") {
		t.Error("expected the trade notification in the status bar")
	}
}

func TestViewShowsPanels(t *testing.T) {
	m, g := newTestModel(t)
	g.Start()
	g.Tick()
	m.refresh()

	view := m.View()
	for _, want := range []string{"Stocks", "Chart", "Portfolio", "News", "Trades", "Order Entry", "TechCorp"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestStatusBarClock(t *testing.T) {
	m, g := newTestModel(t)
	g.Start()
	for i := 0; i < 13; i++ {
		g.Tick()
	}
	m.refresh()

	if !strings.Contains(m.View(), "1:05") {
		t.Error("expected the clock to read 1:05 after 65 simulated seconds")
	}
}

func TestPortfolioShowsHoldingShare(t *testing.T) {
	m, g := newTestModel(t)
	// 50 x 100.00 of a 10000.00 total.
	if _, err := g.Trade("TechCorp", 50, ledger.Buy); err != nil {
		t.Fatalf("trade: %v", err)
	}
	m.refresh()

	if !strings.Contains(m.portfolioPanel.View(), "50.0%") {
		t.Errorf("expected a 50.0%% share in %q", m.portfolioPanel.View())
	}
}

func TestExportKey(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(runes("e"))
	if !strings.HasPrefix(m.statusMsg, "Exported") {
		t.Fatalf("unexpected status %q", m.statusMsg)
	}
	for _, k := range export.Kinds {
		if _, err := readFile(m.exportDir, k.FileName()); err != nil {
			t.Errorf("missing export %s: %v", k, err)
		}
	}
}

func readFile(dir, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(dir, name))
}
