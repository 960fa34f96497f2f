package panels

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zappabad/stocksurge/internal/ledger"
	"github.com/zappabad/stocksurge/tui/styles"
)

// OrderInputField represents the currently focused input field.
type OrderInputField int

const (
	FieldCompany OrderInputField = iota
	FieldSide
	FieldQuantity
	FieldSubmit
)

// OrderInputPanel handles order entry with company autocomplete. Orders
// always execute at the current market price.
type OrderInputPanel struct {
	companies     []string
	companyInput  textinput.Model
	quantityInput textinput.Model

	// Dropdown state
	showDropdown     bool
	dropdownFiltered []string
	dropdownIndex    int

	sideOptions []ledger.Direction
	sideIndex   int

	currentField    OrderInputField
	selectedCompany string

	focused bool
	width   int
	height  int
}

// NewOrderInputPanel creates a new order input panel.
func NewOrderInputPanel(companies []string) *OrderInputPanel {
	companyInput := textinput.New()
	companyInput.Placeholder = "Search company..."
	companyInput.Width = 15
	companyInput.CharLimit = 20

	quantityInput := textinput.New()
	quantityInput.Placeholder = "Quantity"
	quantityInput.Width = 10
	quantityInput.CharLimit = 9
	quantityInput.Validate = func(s string) error {
		for _, r := range s {
			if r < '0' || r > '9' {
				return fmt.Errorf("digits only")
			}
		}
		return nil
	}

	return &OrderInputPanel{
		companies:        companies,
		companyInput:     companyInput,
		quantityInput:    quantityInput,
		dropdownFiltered: companies,
		sideOptions:      []ledger.Direction{ledger.Buy, ledger.Sell},
		currentField:     FieldCompany,
	}
}

// Init initializes the panel.
func (p *OrderInputPanel) Init() tea.Cmd {
	return textinput.Blink
}

// Editing reports whether keystrokes are going into a text field, in which
// case global shortcuts must not fire.
func (p *OrderInputPanel) Editing() bool {
	return p.focused && (p.currentField == FieldCompany || p.currentField == FieldQuantity)
}

// Update handles messages for the panel.
func (p *OrderInputPanel) Update(msg tea.Msg) (*OrderInputPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("down"))):
			if p.showDropdown {
				if p.dropdownIndex < len(p.dropdownFiltered)-1 {
					p.dropdownIndex++
				}
				return p, nil
			}
			p.nextField()
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("up"))):
			if p.showDropdown {
				if p.dropdownIndex > 0 {
					p.dropdownIndex--
				}
				return p, nil
			}
			p.prevField()
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if p.currentField == FieldSubmit {
				return p, p.submitOrder()
			}
			p.nextField()
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
			p.showDropdown = false
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("left", "right"))):
			if p.currentField == FieldSide {
				p.sideIndex = (p.sideIndex + 1) % len(p.sideOptions)
				return p, nil
			}
		}
	}

	switch p.currentField {
	case FieldCompany:
		p.companyInput, cmd = p.companyInput.Update(msg)
		p.filterDropdown(p.companyInput.Value())
		p.showDropdown = len(p.companyInput.Value()) > 0 && p.selectedCompany != p.companyInput.Value()

	case FieldQuantity:
		p.quantityInput, cmd = p.quantityInput.Update(msg)
	}

	return p, cmd
}

// View renders the panel.
func (p *OrderInputPanel) View() string {
	var content strings.Builder

	content.WriteString(p.renderField("Company", FieldCompany, p.renderCompanyField()))
	content.WriteString("\n")
	content.WriteString(p.renderField("Side", FieldSide, p.renderSideField()))
	content.WriteString("\n")
	content.WriteString(p.renderField("Qty", FieldQuantity, p.quantityInput.View()))
	content.WriteString("\n\n")

	submitStyle := styles.InputStyle
	if p.currentField == FieldSubmit && p.focused {
		submitStyle = styles.FocusedInputStyle.Bold(true).Foreground(styles.PrimaryColor)
	}
	content.WriteString(submitStyle.Render("  [Submit Order]  "))

	content.WriteString("\n\n")
	content.WriteString(p.renderOrderSummary())

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📝 Order Entry", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *OrderInputPanel) renderField(label string, field OrderInputField, inputView string) string {
	labelStyle := styles.LabelStyle
	if p.currentField == field && p.focused {
		labelStyle = labelStyle.Foreground(styles.PrimaryColor)
	}
	return labelStyle.Render(fmt.Sprintf("%-9s", label)) + inputView
}

func (p *OrderInputPanel) renderCompanyField() string {
	var result strings.Builder

	inputStyle := styles.InputStyle
	if p.currentField == FieldCompany && p.focused {
		inputStyle = styles.FocusedInputStyle
	}
	result.WriteString(inputStyle.Render(p.companyInput.View()))

	if p.showDropdown && len(p.dropdownFiltered) > 0 {
		for i, item := range p.dropdownFiltered {
			style := styles.DropdownItemStyle
			if i == p.dropdownIndex {
				style = styles.DropdownSelectedStyle
			}
			result.WriteString("\n          " + style.Render(p.highlightMatch(item, p.companyInput.Value())))
		}
	}

	return result.String()
}

func (p *OrderInputPanel) renderSideField() string {
	var items []string
	for i, dir := range p.sideOptions {
		label := strings.ToUpper(dir.String())
		style := styles.DropdownItemStyle
		if i == p.sideIndex {
			if p.currentField == FieldSide && p.focused {
				style = styles.DropdownSelectedStyle
			} else {
				style = styles.DropdownItemStyle.Bold(true)
			}
			if dir == ledger.Buy {
				style = style.Foreground(styles.BuyColor)
			} else {
				style = style.Foreground(styles.SellColor)
			}
		}
		items = append(items, style.Render(label))
	}
	return strings.Join(items, " | ")
}

func (p *OrderInputPanel) renderOrderSummary() string {
	company := p.selectedCompany
	if company == "" {
		company = "---"
	}

	side := p.sideOptions[p.sideIndex]
	sideStyle := styles.BuyStyle
	if side == ledger.Sell {
		sideStyle = styles.SellStyle
	}

	qty := p.quantityInput.Value()
	if qty == "" {
		qty = "0"
	}

	parts := []string{sideStyle.Render(strings.ToUpper(side.String())), "x" + qty, company, "@ market"}
	return styles.HeaderStyle.Render("Order: ") + strings.Join(parts, " ")
}

func (p *OrderInputPanel) filterDropdown(query string) {
	query = strings.ToUpper(query)
	p.dropdownFiltered = nil
	p.dropdownIndex = 0

	for _, item := range p.companies {
		if strings.Contains(strings.ToUpper(item), query) {
			p.dropdownFiltered = append(p.dropdownFiltered, item)
		}
	}
}

func (p *OrderInputPanel) highlightMatch(item, query string) string {
	if query == "" {
		return item
	}

	idx := strings.Index(strings.ToUpper(item), strings.ToUpper(query))
	if idx == -1 {
		return item
	}

	before := item[:idx]
	match := item[idx : idx+len(query)]
	after := item[idx+len(query):]

	return before + styles.DropdownMatchStyle.Render(match) + after
}

func (p *OrderInputPanel) selectDropdownItem() {
	if p.dropdownIndex < len(p.dropdownFiltered) {
		p.selectedCompany = p.dropdownFiltered[p.dropdownIndex]
		p.companyInput.SetValue(p.selectedCompany)
	}
}

func (p *OrderInputPanel) nextField() {
	switch p.currentField {
	case FieldCompany:
		if p.showDropdown {
			p.selectDropdownItem()
		}
		p.currentField = FieldSide
		p.companyInput.Blur()
	case FieldSide:
		p.currentField = FieldQuantity
		p.quantityInput.Focus()
	case FieldQuantity:
		p.currentField = FieldSubmit
		p.quantityInput.Blur()
	case FieldSubmit:
		p.currentField = FieldCompany
		p.companyInput.Focus()
	}
	p.showDropdown = false
}

func (p *OrderInputPanel) prevField() {
	p.showDropdown = false
	switch p.currentField {
	case FieldCompany:
		p.currentField = FieldSubmit
		p.companyInput.Blur()
	case FieldSide:
		p.currentField = FieldCompany
		p.companyInput.Focus()
	case FieldQuantity:
		p.currentField = FieldSide
		p.quantityInput.Blur()
	case FieldSubmit:
		p.currentField = FieldQuantity
		p.quantityInput.Focus()
	}
}

func (p *OrderInputPanel) submitOrder() tea.Cmd {
	if p.selectedCompany == "" {
		return invalidOrder("pick a company first")
	}

	qty, err := strconv.ParseInt(p.quantityInput.Value(), 10, 64)
	if err != nil || qty <= 0 {
		return invalidOrder("quantity must be a positive whole number")
	}

	order := OrderSubmitMsg{
		Company:   p.selectedCompany,
		Direction: p.sideOptions[p.sideIndex],
		Quantity:  qty,
	}
	return func() tea.Msg { return order }
}

func invalidOrder(reason string) tea.Cmd {
	return func() tea.Msg { return OrderInvalidMsg{Reason: reason} }
}

// SetFocus sets the focus state of the panel.
func (p *OrderInputPanel) SetFocus(focused bool) {
	p.focused = focused
	if focused {
		switch p.currentField {
		case FieldCompany:
			p.companyInput.Focus()
		case FieldQuantity:
			p.quantityInput.Focus()
		}
	} else {
		p.companyInput.Blur()
		p.quantityInput.Blur()
	}
}

// SetSize sets the panel dimensions.
func (p *OrderInputPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetCompany pre-fills the company field.
func (p *OrderInputPanel) SetCompany(company string) {
	p.companyInput.SetValue(company)
	p.selectedCompany = company
	p.showDropdown = false
}

// Reset clears the input fields.
func (p *OrderInputPanel) Reset() {
	p.companyInput.SetValue("")
	p.quantityInput.SetValue("")
	p.selectedCompany = ""
	p.currentField = FieldCompany
	p.sideIndex = 0
	p.showDropdown = false
}

// OrderSubmitMsg is sent when an order is submitted.
type OrderSubmitMsg struct {
	Company   string
	Direction ledger.Direction
	Quantity  int64
}

// OrderInvalidMsg is sent when the form cannot produce an order.
type OrderInvalidMsg struct {
	Reason string
}
