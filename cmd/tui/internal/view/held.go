package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/till/internal/sale"
	"github.com/MrJamesThe3rd/till/internal/shop"
)

// EditLoadedMsg is emitted once a held sale became the register's draft.
type EditLoadedMsg struct {
	ID string
}

type HeldModel struct {
	CommonModel
	ctrl *sale.Controller

	table table.Model
	sales []shop.Sale
	err   error
}

func NewHeldModel(ctrl *sale.Controller) HeldModel {
	m := HeldModel{
		ctrl: ctrl,
		table: newTable([]table.Column{
			{Title: "ID", Width: 8},
			{Title: "Updated", Width: 17},
			{Title: "Items", Width: 6},
			{Title: "Total", Width: 14},
			{Title: "Customer", Width: 24},
		}, 15),
	}
	m.load()

	return m
}

func (m HeldModel) Title() string     { return "Held Sales" }
func (m HeldModel) ShortHelp() string { return "Enter: resume | r: refresh | Esc: back" }

func (m HeldModel) Init() tea.Cmd {
	return nil
}

func (m HeldModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case heldLoadMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		return m, func() tea.Msg { return EditLoadedMsg{ID: msg.id} }

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-10, 5))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.load()
			return m, nil
		case "enter":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.sales) {
				return m, nil
			}

			return m, m.resumeCmd(m.sales[idx].ID)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m HeldModel) View() string {
	if len(m.sales) == 0 {
		return lipgloss.NewStyle().Padding(2).Render("No held sales.\n\n(Esc to go back)")
	}

	content := fmt.Sprintf("%d held sale(s)\n\n%s", len(m.sales), boxed(m.table.View()))
	if m.err != nil {
		content += "\n" + errorStyle(m.err.Error())
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *HeldModel) load() {
	m.sales = m.ctrl.ListOpenSales()

	rows := make([]table.Row, 0, len(m.sales))
	for _, s := range m.sales {
		customer := ""
		if s.Customer != nil {
			customer = s.Customer.Name
		}

		rows = append(rows, table.Row{
			s.ID,
			FormatDate(s.UpdatedAt),
			strconv.Itoa(s.ItemCount()),
			FormatMoney(s.Total),
			customer,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type heldLoadMsg struct {
	id  string
	err error
}

func (m HeldModel) resumeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return heldLoadMsg{id: id, err: m.ctrl.LoadForEditing(ctx, id)}
	}
}
