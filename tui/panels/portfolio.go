package panels

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zappabad/stocksurge/internal/ledger"
	"github.com/zappabad/stocksurge/internal/money"
	"github.com/zappabad/stocksurge/tui/styles"
)

// PortfolioPanel shows cash, holdings at current prices and the total.
type PortfolioPanel struct {
	cash     float64
	holdings ledger.Portfolio
	prices   map[string]float64
	total    float64
	initial  float64
	focused  bool
	width    int
	height   int
}

// NewPortfolioPanel creates a new portfolio panel. initial is the starting
// cash the total is compared against.
func NewPortfolioPanel(initial float64) *PortfolioPanel {
	return &PortfolioPanel{initial: initial}
}

// Init initializes the panel.
func (p *PortfolioPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *PortfolioPanel) Update(msg tea.Msg) (*PortfolioPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *PortfolioPanel) View() string {
	var content strings.Builder

	content.WriteString(styles.LabelStyle.Render(fmt.Sprintf("%-11s", "Cash")))
	content.WriteString(styles.PriceStyle.Render(fmt.Sprintf("%14s", money.Format(p.cash))))
	content.WriteString("\n")

	companies := make([]string, 0, len(p.holdings))
	for c := range p.holdings {
		companies = append(companies, c)
	}
	sort.Strings(companies)

	if len(companies) == 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("No holdings"))
		content.WriteString("\n")
	}
	for _, c := range companies {
		qty := p.holdings[c]
		value := money.Round2(p.prices[c] * float64(qty))
		content.WriteString(fmt.Sprintf("%-11s%14s %6s %s\n", c, money.Format(value),
			shareOf(value, p.total), styles.SizeStyle.Render(fmt.Sprintf("x%d", qty))))
	}

	content.WriteString(styles.HeaderStyle.Render(fmt.Sprintf("%-11s%14s", "Total", money.Format(p.total))))
	if p.initial > 0 {
		content.WriteString(" " + styles.FormatChange((p.total-p.initial)/p.initial))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("💼 Portfolio", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *PortfolioPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *PortfolioPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetPortfolio updates the panel from a ledger read and current prices.
func (p *PortfolioPanel) SetPortfolio(snap ledger.Snapshot, prices map[string]float64, total float64) {
	p.cash = snap.Cash
	p.holdings = snap.Portfolio
	p.prices = prices
	p.total = total
}

// shareOf renders value as a percentage of total.
func shareOf(value, total float64) string {
	if total <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", value/total*100)
}
