package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zappabad/stocksurge/internal/ledger"
	"github.com/zappabad/stocksurge/tui/styles"
)

// TradesPanel is the tape of the player's executed trades, newest first.
type TradesPanel struct {
	trades       []ledger.Trade
	scrollOffset int
	focused      bool
	width        int
	height       int
}

// NewTradesPanel creates a new trades panel.
func NewTradesPanel() *TradesPanel {
	return &TradesPanel{}
}

// Init initializes the panel.
func (p *TradesPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *TradesPanel) Update(msg tea.Msg) (*TradesPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.scrollOffset > 0 {
				p.scrollOffset--
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.scrollOffset < len(p.trades)-1 {
				p.scrollOffset++
			}
		}
	}
	return p, nil
}

// View renders the panel.
func (p *TradesPanel) View() string {
	var content strings.Builder

	header := fmt.Sprintf("%-8s %-4s %-11s %6s %10s", "Time", "Side", "Company", "Qty", "Price")
	content.WriteString(styles.HeaderStyle.Render(header))

	if len(p.trades) == 0 {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("No trades yet"))
	}

	visible := max(1, p.height-5)
	start := min(p.scrollOffset, max(0, len(p.trades)-1))
	end := min(start+visible, len(p.trades))
	for i := start; i < end; i++ {
		tr := p.trades[len(p.trades)-1-i]

		side := styles.BuyStyle.Render("BUY ")
		if tr.Direction == ledger.Sell {
			side = styles.SellStyle.Render("SELL")
		}

		content.WriteString("\n")
		content.WriteString(styles.TimeStyle.Render(tr.Timestamp.Format("15:04:05")))
		content.WriteString(" " + side + " ")
		content.WriteString(styles.RowStyle.Render(fmt.Sprintf("%-11s %6d %10s", tr.Company, tr.Quantity, styles.FormatPrice(tr.Price))))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("🧾 Trades", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *TradesPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *TradesPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetTrades replaces the tape. trades are in execution order.
func (p *TradesPanel) SetTrades(trades []ledger.Trade) {
	p.trades = trades
	if p.scrollOffset >= len(trades) {
		p.scrollOffset = max(0, len(trades)-1)
	}
}
