package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zappabad/stocksurge/internal/market"
	"github.com/zappabad/stocksurge/tui/styles"
)

// ChartPanel plots the retained price history of one company.
type ChartPanel struct {
	stock market.Stock

	focused bool
	width   int
	height  int
}

// NewChartPanel creates a new chart panel.
func NewChartPanel() *ChartPanel {
	return &ChartPanel{}
}

// Init initializes the panel.
func (p *ChartPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *ChartPanel) Update(msg tea.Msg) (*ChartPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *ChartPanel) View() string {
	name := "No company"
	if p.stock.Name != "" {
		name = p.stock.Name
	}

	var content strings.Builder
	if len(p.stock.History) < 2 {
		content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("Waiting for price moves..."))
	} else {
		content.WriteString(p.renderChart(p.width-6, max(5, p.height-6), p.stock.History))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	label := fmt.Sprintf("📉 Chart - %s", name)
	if n := len(p.stock.History); n >= 2 && p.stock.History[0] != 0 {
		label += " " + styles.FormatChange((p.stock.History[n-1]-p.stock.History[0])/p.stock.History[0])
	}
	title := styles.RenderTitle(label, p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *ChartPanel) renderChart(width, height int, history []float64) string {
	// 9 chars for the price axis, 1 for the separator, 2 per sample
	columns := max(1, (width-10)/2)
	points := history
	if len(points) > columns {
		points = points[len(points)-columns:]
	}

	minPrice, maxPrice := points[0], points[0]
	for _, v := range points {
		minPrice = min(minPrice, v)
		maxPrice = max(maxPrice, v)
	}
	padding := (maxPrice - minPrice) * 0.1
	if padding == 0 {
		padding = max(0.01, maxPrice*0.01)
	}
	minPrice -= padding
	maxPrice += padding

	rows := make([]int, len(points))
	for i, v := range points {
		rows[i] = priceToRow(v, minPrice, maxPrice, height)
	}

	var result strings.Builder
	for row := 0; row < height; row++ {
		label := styles.FormatPrice(rowToPrice(row, minPrice, maxPrice, height))
		result.WriteString(styles.ChartAxisStyle.Render(fmt.Sprintf("%8s │", label)))

		for i := range points {
			style := styles.ChartUpStyle
			if i > 0 && points[i] < points[i-1] {
				style = styles.ChartDownStyle
			}
			result.WriteString(style.Render(string(cell(rows, i, row))))
			result.WriteString(" ")
		}
		result.WriteString("\n")
	}

	result.WriteString(styles.ChartAxisStyle.Render("─────────┴"))
	for range points {
		result.WriteString(styles.ChartAxisStyle.Render("──"))
	}
	result.WriteString("\n")
	result.WriteString(styles.ChartLabelStyle.Render(fmt.Sprintf("          last %d ticks", len(points)-1)))

	return result.String()
}

// cell picks the glyph for sample i at row: a dot on the sample itself and
// a bar spanning the gap from the previous sample.
func cell(rows []int, i, row int) rune {
	if rows[i] == row {
		return '●'
	}
	if i == 0 {
		return ' '
	}
	lo, hi := rows[i-1], rows[i]
	if lo > hi {
		lo, hi = hi, lo
	}
	if row > lo && row < hi {
		return '│'
	}
	return ' '
}

func priceToRow(price, minPrice, maxPrice float64, height int) int {
	if maxPrice == minPrice {
		return height / 2
	}
	ratio := (maxPrice - price) / (maxPrice - minPrice)
	return min(height-1, max(0, int(ratio*float64(height-1)+0.5)))
}

func rowToPrice(row int, minPrice, maxPrice float64, height int) float64 {
	if height <= 1 {
		return minPrice
	}
	ratio := float64(row) / float64(height-1)
	return maxPrice - ratio*(maxPrice-minPrice)
}

// SetFocus sets the focus state of the panel.
func (p *ChartPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *ChartPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetStock sets the company to chart along with its history.
func (p *ChartPanel) SetStock(stock market.Stock) {
	p.stock = stock
}

// Company returns the charted company.
func (p *ChartPanel) Company() string {
	return p.stock.Name
}
