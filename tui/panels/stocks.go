package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zappabad/stocksurge/internal/ledger"
	"github.com/zappabad/stocksurge/internal/market"
	"github.com/zappabad/stocksurge/tui/styles"
)

// StocksPanel lists every company with its price, last move and the
// player's holding.
type StocksPanel struct {
	stocks        []market.Stock
	holdings      ledger.Portfolio
	selectedIndex int
	focused       bool
	width         int
	height        int
}

// NewStocksPanel creates a new stocks panel.
func NewStocksPanel() *StocksPanel {
	return &StocksPanel{}
}

// Init initializes the panel.
func (p *StocksPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *StocksPanel) Update(msg tea.Msg) (*StocksPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.selectedIndex > 0 {
				p.selectedIndex--
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.selectedIndex < len(p.stocks)-1 {
				p.selectedIndex++
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if name := p.SelectedCompany(); name != "" {
				return p, func() tea.Msg { return CompanySelectedMsg{Company: name} }
			}
		}
	}
	return p, nil
}

// View renders the panel.
func (p *StocksPanel) View() string {
	var content strings.Builder

	header := fmt.Sprintf("%-11s %10s %9s %6s", "Company", "Price", "Change", "Held")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	for i, st := range p.stocks {
		// Change is padded before styling so colors don't skew alignment.
		change := fmt.Sprintf("%9s", fmt.Sprintf("%+.2f%%", st.Change()*100))
		switch {
		case st.Change() > 0:
			change = styles.PriceUpStyle.Render(change)
		case st.Change() < 0:
			change = styles.PriceDownStyle.Render(change)
		}

		row := fmt.Sprintf("%-11s %10s ", st.Name, styles.FormatPrice(st.Price))
		held := fmt.Sprintf(" %6d", p.holdings[st.Name])

		style := styles.RowStyle
		if i == p.selectedIndex && p.focused {
			style = styles.SelectedRowStyle
		}
		content.WriteString(style.Render(row) + change + style.Render(held))
		if i < len(p.stocks)-1 {
			content.WriteString("\n")
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📈 Stocks", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *StocksPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *StocksPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetStocks replaces the rows with a fresh market read.
func (p *StocksPanel) SetStocks(stocks []market.Stock, holdings ledger.Portfolio) {
	p.stocks = stocks
	p.holdings = holdings
	if p.selectedIndex >= len(stocks) {
		p.selectedIndex = max(0, len(stocks)-1)
	}
}

// SelectedCompany returns the highlighted company, or "" with no rows.
func (p *StocksPanel) SelectedCompany() string {
	if p.selectedIndex >= 0 && p.selectedIndex < len(p.stocks) {
		return p.stocks[p.selectedIndex].Name
	}
	return ""
}

// CompanySelectedMsg is sent when a company is picked in the stocks list.
type CompanySelectedMsg struct {
	Company string
}
