package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/till/internal/catalog"
	"github.com/MrJamesThe3rd/till/internal/shop"
)

type productsState int

const (
	productsStateBrowse productsState = iota
	productsStateAdjust
)

type ProductsModel struct {
	CommonModel
	catalog *catalog.Service
	actor   string

	state        productsState
	table        table.Model
	products     []shop.Product
	lowStockOnly bool
	form         *huh.Form
	status       string
	err          error
}

func NewProductsModel(catalogSvc *catalog.Service, actor string) ProductsModel {
	m := ProductsModel{
		catalog: catalogSvc,
		actor:   actor,
		table: newTable([]table.Column{
			{Title: "SKU", Width: 12},
			{Title: "Name", Width: 30},
			{Title: "Price", Width: 12},
			{Title: "Stock", Width: 7},
			{Title: "Low", Width: 4},
		}, 15),
	}
	m.load()

	return m
}

func (m ProductsModel) Title() string { return "Products" }

func (m ProductsModel) ShortHelp() string {
	if m.state == productsStateAdjust {
		return "Navigate form | Esc: cancel"
	}

	return "a: adjust stock | l: low stock filter | r: refresh | Esc: back"
}

func (m ProductsModel) Init() tea.Cmd {
	return nil
}

func (m ProductsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case adjustResultMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = fmt.Sprintf("Stock of %s: %d → %d", msg.name, msg.rec.Before, msg.rec.After)
		}

		m.load()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-10, 5))
		return m, nil
	}

	if m.state == productsStateAdjust {
		return m.updateAdjust(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.load()
			return m, nil
		case "l":
			m.lowStockOnly = !m.lowStockOnly
			m.load()

			return m, nil
		case "a":
			return m.openAdjustForm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ProductsModel) openAdjustForm() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.products) {
		return m, nil
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("delta").
				Title(fmt.Sprintf("Change for %s (now %d)", m.products[idx].Name, m.products[idx].Stock)).
				Placeholder("+10 or -2").
				Validate(func(s string) error {
					d, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "+"))
					if err != nil || d == 0 {
						return fmt.Errorf("enter a non-zero whole number")
					}

					return nil
				}),
			huh.NewInput().Key("note").Title("Note").Placeholder("stock take, damaged..."),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = productsStateAdjust
	m.table.Blur()

	return m, m.form.Init()
}

func (m ProductsModel) updateAdjust(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = productsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	p := m.products[m.table.Cursor()]
	delta, _ := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(m.form.GetString("delta")), "+"))
	note := m.form.GetString("note")

	m.state = productsStateBrowse
	m.form = nil
	m.table.Focus()

	return m, m.adjustCmd(p, delta, note)
}

func (m ProductsModel) View() string {
	filter := "all"
	if m.lowStockOnly {
		filter = "low stock"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(fmt.Sprintf("Filter: [l] %s", activeStyle(filter))),
		boxed(m.table.View()),
	)

	if m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Adjust Stock\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	switch {
	case m.err != nil:
		content += "\n" + errorStyle(m.err.Error())
	case m.status != "":
		content += "\n" + okStyle(m.status)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ProductsModel) load() {
	if m.lowStockOnly {
		m.products = m.catalog.LowStock()
	} else {
		m.products = m.catalog.ListProducts()
	}

	rows := make([]table.Row, 0, len(m.products))
	for _, p := range m.products {
		low := ""
		if p.IsLowStock() {
			low = "!"
		}

		rows = append(rows, table.Row{p.SKU, p.Name, FormatMoney(p.SellPrice), strconv.Itoa(p.Stock), low})
	}

	m.table.SetRows(rows)
}

// Messages

type adjustResultMsg struct {
	name string
	rec  shop.StockAdjustment
	err  error
}

func (m ProductsModel) adjustCmd(p shop.Product, delta int, note string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rec, err := m.catalog.AdjustStock(ctx, catalog.AdjustParams{
			ProductID: p.ID,
			Delta:     delta,
			Note:      note,
			Actor:     m.actor,
		})

		return adjustResultMsg{name: p.Name, rec: rec, err: err}
	}
}
