package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zappabad/stocksurge/internal/news"
	"github.com/zappabad/stocksurge/tui/styles"
)

// Impacts at or beyond this size are highlighted.
const importantImpact = 0.10

// NewsPanel displays news events, newest first.
type NewsPanel struct {
	news          []news.Event
	selectedIndex int
	scrollOffset  int
	focused       bool
	width         int
	height        int
}

// NewNewsPanel creates a new news panel.
func NewNewsPanel() *NewsPanel {
	return &NewsPanel{}
}

// Init initializes the panel.
func (p *NewsPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *NewsPanel) Update(msg tea.Msg) (*NewsPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.selectedIndex > 0 {
				p.selectedIndex--
				if p.selectedIndex < p.scrollOffset {
					p.scrollOffset = p.selectedIndex
				}
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.selectedIndex < len(p.news)-1 {
				p.selectedIndex++
				visibleItems := p.height - 4
				if p.selectedIndex >= p.scrollOffset+visibleItems {
					p.scrollOffset = p.selectedIndex - visibleItems + 1
				}
			}
		}
	}
	return p, nil
}

// View renders the panel.
func (p *NewsPanel) View() string {
	var content strings.Builder

	if len(p.news) == 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("No news yet. Press s to start."))
	} else {
		visibleItems := max(1, p.height-4)
		start := min(p.scrollOffset, len(p.news)-1)
		end := min(start+visibleItems, len(p.news))

		for i := start; i < end; i++ {
			item := p.news[i]

			timeStr := styles.TimeStyle.Render(fmt.Sprintf("%5ds", item.Time))

			impactStyle := styles.PriceUpStyle
			if !item.Positive() {
				impactStyle = styles.PriceDownStyle
			}
			impact := impactStyle.Render(fmt.Sprintf("%+4.0f%%", item.Impact*100))

			headline := item.Company + ": " + item.Content
			if limit := p.width - 20; limit > 3 && len(headline) > limit {
				headline = headline[:limit-3] + "..."
			}
			headlineStyle := styles.NewsNormalStyle
			if item.Impact >= importantImpact || item.Impact <= -importantImpact {
				headlineStyle = styles.NewsImportantStyle
			}

			line := fmt.Sprintf("%s %s %s", timeStr, impact, headlineStyle.Render(headline))
			if i == p.selectedIndex && p.focused {
				line = styles.SelectedRowStyle.Render(line)
			}

			content.WriteString(line)
			if i < end-1 {
				content.WriteString("\n")
			}
		}

		if len(p.news) > visibleItems {
			scrollInfo := fmt.Sprintf(" (%d/%d)", p.selectedIndex+1, len(p.news))
			content.WriteString("\n")
			content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(scrollInfo))
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📰 News", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *NewsPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *NewsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetNews takes events oldest first and shows them newest first.
func (p *NewsPanel) SetNews(items []news.Event) {
	p.news = make([]news.Event, len(items))
	for i, ev := range items {
		p.news[len(items)-1-i] = ev
	}
	if p.selectedIndex >= len(p.news) {
		p.selectedIndex = max(0, len(p.news)-1)
	}
	if p.scrollOffset > p.selectedIndex {
		p.scrollOffset = p.selectedIndex
	}
}

// Len returns the number of events shown.
func (p *NewsPanel) Len() int {
	return len(p.news)
}
