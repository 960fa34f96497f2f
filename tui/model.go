package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zappabad/stocksurge/internal/export"
	"github.com/zappabad/stocksurge/internal/game"
	"github.com/zappabad/stocksurge/internal/notify"
	"github.com/zappabad/stocksurge/tui/panels"
	"github.com/zappabad/stocksurge/tui/styles"
)

// PanelFocus represents which panel is currently focused.
type PanelFocus int

const (
	FocusStocks PanelFocus = iota
	FocusChart
	FocusPortfolio
	FocusNews
	FocusTrades
	FocusOrderInput

	panelCount = 6
)

// newsShown bounds how much news the model pulls per refresh.
const newsShown = 100

// Model is the main TUI application model.
type Model struct {
	game      *game.Game
	exportDir string

	// Panels
	stocksPanel     *panels.StocksPanel
	chartPanel      *panels.ChartPanel
	portfolioPanel  *panels.PortfolioPanel
	newsPanel       *panels.NewsPanel
	tradesPanel     *panels.TradesPanel
	orderInputPanel *panels.OrderInputPanel

	focusedPanel PanelFocus

	width  int
	height int

	state     game.State
	statusMsg string
	ready     bool
}

// NewModel creates a new TUI model over g. Exports triggered with the e key
// are written to exportDir.
func NewModel(g *game.Game, exportDir string) *Model {
	m := &Model{
		game:            g,
		exportDir:       exportDir,
		stocksPanel:     panels.NewStocksPanel(),
		chartPanel:      panels.NewChartPanel(),
		portfolioPanel:  panels.NewPortfolioPanel(g.Ledger.InitialCash()),
		newsPanel:       panels.NewNewsPanel(),
		tradesPanel:     panels.NewTradesPanel(),
		orderInputPanel: panels.NewOrderInputPanel(g.Market.Companies()),
		focusedPanel:    FocusStocks,
	}
	m.refresh()
	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.orderInputPanel.Init(),
		m.listenMarketEvents(),
		m.tickRefresh(),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if consumed, quit := m.handleKey(msg); quit {
			return m, tea.Quit
		} else if consumed {
			m.refresh()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case marketEventMsg:
		m.refresh()
		cmds = append(cmds, m.listenMarketEvents())

	case panels.CompanySelectedMsg:
		m.orderInputPanel.SetCompany(msg.Company)
		m.setFocus(FocusOrderInput)

	case panels.OrderSubmitMsg:
		cmds = append(cmds, m.submitOrder(msg))

	case panels.OrderInvalidMsg:
		m.statusMsg = "Order incomplete: " + msg.Reason

	case orderResultMsg:
		m.statusMsg = ""
		m.refresh()

	case tickMsg:
		m.refresh()
		cmds = append(cmds, m.tickRefresh())
	}

	m.updateFocusedPanel(msg, &cmds)

	return m, tea.Batch(cmds...)
}

// handleKey runs global shortcuts. Letter shortcuts are off while the order
// form is taking text.
func (m *Model) handleKey(msg tea.KeyMsg) (consumed, quit bool) {
	switch msg.String() {
	case "ctrl+c":
		return true, true
	case "tab":
		m.cycleFocus(1)
		return true, false
	case "shift+tab":
		m.cycleFocus(-1)
		return true, false
	}

	if m.orderInputPanel.Editing() {
		return false, false
	}

	switch msg.String() {
	case "q":
		return true, true
	case "s":
		m.game.Toggle()
		m.statusMsg = ""
		return true, false
	case "r":
		m.game.Reset()
		m.orderInputPanel.Reset()
		m.statusMsg = "Game reset"
		return true, false
	case "e":
		m.statusMsg = m.exportAll()
		return true, false
	}
	return false, false
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd

	switch m.focusedPanel {
	case FocusStocks:
		m.stocksPanel, cmd = m.stocksPanel.Update(msg)
		m.syncChart()
	case FocusChart:
		m.chartPanel, cmd = m.chartPanel.Update(msg)
	case FocusPortfolio:
		m.portfolioPanel, cmd = m.portfolioPanel.Update(msg)
	case FocusNews:
		m.newsPanel, cmd = m.newsPanel.Update(msg)
	case FocusTrades:
		m.tradesPanel, cmd = m.tradesPanel.Update(msg)
	case FocusOrderInput:
		m.orderInputPanel, cmd = m.orderInputPanel.Update(msg)
	}

	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	m.stocksPanel.SetFocus(m.focusedPanel == FocusStocks)
	m.chartPanel.SetFocus(m.focusedPanel == FocusChart)
	m.portfolioPanel.SetFocus(m.focusedPanel == FocusPortfolio)
	m.newsPanel.SetFocus(m.focusedPanel == FocusNews)
	m.tradesPanel.SetFocus(m.focusedPanel == FocusTrades)
	m.orderInputPanel.SetFocus(m.focusedPanel == FocusOrderInput)

	// Layout:
	// ┌─────────────────────────────────────────────┐
	// │  Stocks      │   Chart      │  Portfolio    │
	// ├──────────────┼──────────────┼───────────────┤
	// │  News        │   Trades     │  Order Input  │
	// └──────────────┴──────────────┴───────────────┘

	leftWidth := m.width / 3
	middleWidth := m.width / 3
	rightWidth := m.width - leftWidth - middleWidth

	topHeight := (m.height - 1) / 2
	bottomHeight := m.height - topHeight - 1

	m.stocksPanel.SetSize(leftWidth, topHeight)
	m.chartPanel.SetSize(middleWidth, topHeight)
	m.portfolioPanel.SetSize(rightWidth, topHeight)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.stocksPanel.View(),
		m.chartPanel.View(),
		m.portfolioPanel.View(),
	)

	m.newsPanel.SetSize(leftWidth, bottomHeight)
	m.tradesPanel.SetSize(middleWidth, bottomHeight)
	m.orderInputPanel.SetSize(rightWidth, bottomHeight)

	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.newsPanel.View(),
		m.tradesPanel.View(),
		m.orderInputPanel.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow, m.renderStatusBar())
}

func (m *Model) renderStatusBar() string {
	state := styles.StoppedStyle.Render("PAUSED")
	if m.state.Market.Running {
		state = styles.RunningStyle.Render("LIVE")
	}
	clock := styles.TimeStyle.Render(" " + styles.FormatClock(m.state.Market.SimulatedTime))

	help := lipgloss.JoinHorizontal(lipgloss.Center,
		styles.StatusBarKeyStyle.Render("s")+styles.StatusBarDescStyle.Render(" start/pause"), " │ ",
		styles.StatusBarKeyStyle.Render("r")+styles.StatusBarDescStyle.Render(" reset"), " │ ",
		styles.StatusBarKeyStyle.Render("e")+styles.StatusBarDescStyle.Render(" export"), " │ ",
		styles.StatusBarKeyStyle.Render("Tab")+styles.StatusBarDescStyle.Render(" panels"), " │ ",
		styles.StatusBarKeyStyle.Render("q")+styles.StatusBarDescStyle.Render(" quit"),
	)

	status := ""
	switch {
	case m.statusMsg != "":
		status = " │ " + m.statusMsg
	default:
		if n, ok := m.game.Notifications.Latest(); ok {
			style := styles.InfoStyle
			if n.Level == notify.LevelError {
				style = styles.ErrorStyle
			}
			status = " │ " + style.Render(n.Message)
		}
	}

	return styles.StatusBarStyle.Width(m.width).Render(state + clock + " │ " + help + status)
}

func (m *Model) setFocus(panel PanelFocus) {
	m.focusedPanel = panel
}

func (m *Model) cycleFocus(step int) {
	m.focusedPanel = PanelFocus((int(m.focusedPanel) + step + panelCount) % panelCount)
}

// refresh reads the game once and pushes the read into every panel.
func (m *Model) refresh() {
	m.state = m.game.State(newsShown)

	m.stocksPanel.SetStocks(m.state.Market.Stocks, m.state.Ledger.Portfolio)
	m.syncChart()
	m.portfolioPanel.SetPortfolio(m.state.Ledger, m.state.Market.Prices(), m.state.TotalValue)
	m.newsPanel.SetNews(m.state.News)
	m.tradesPanel.SetTrades(m.state.Ledger.Trades)
}

func (m *Model) syncChart() {
	if st, ok := m.state.Market.Stock(m.stocksPanel.SelectedCompany()); ok {
		m.chartPanel.SetStock(st)
	}
}

func (m *Model) submitOrder(order panels.OrderSubmitMsg) tea.Cmd {
	return func() tea.Msg {
		m.game.Trade(order.Company, order.Quantity, order.Direction)
		return orderResultMsg{}
	}
}

func (m *Model) exportAll() string {
	if err := export.WriteDir(m.exportDir, m.game.State(0)); err != nil {
		return "Export failed: " + err.Error()
	}
	return "Exported CSV files to " + m.exportDir
}

func (m *Model) listenMarketEvents() tea.Cmd {
	events := m.game.Market.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return marketEventMsg{Type: ev.Type.String()}
	}
}

// tickMsg is sent periodically to refresh data.
type tickMsg struct{}

func (m *Model) tickRefresh() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg{}
	})
}

// marketEventMsg wraps an engine event for the update loop.
type marketEventMsg struct {
	Type string
}

// orderResultMsg is sent after an order is processed. The outcome itself
// is reported through the game notifications.
type orderResultMsg struct{}
