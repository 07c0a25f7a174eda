package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/till/internal/export"
	"github.com/MrJamesThe3rd/till/internal/sale"
	"github.com/MrJamesThe3rd/till/internal/shop"
)

// DraftMsg carries the draft after a change made anywhere in the process.
type DraftMsg struct {
	Sale shop.Sale
}

type registerState int

const (
	registerStateScan registerState = iota
	registerStateDiscount
	registerStatePay
	registerStateCustomer
	registerStateReceipt
)

var paymentMethods = []string{"cash", "card", "transfer", "qris"}

type RegisterModel struct {
	CommonModel
	ctrl      *sale.Controller
	exportSvc *export.Service

	state   registerState
	draft   shop.Sale
	table   table.Model
	input   textinput.Model
	form    *huh.Form
	status  string
	err     error
	receipt string
}

func NewRegisterModel(ctrl *sale.Controller, exportSvc *export.Service) RegisterModel {
	in := textinput.New()
	in.Placeholder = "scan barcode or type SKU (3*SKU for quantity)"
	in.Prompt = "> "
	in.Width = 50
	in.Focus()

	m := RegisterModel{
		ctrl:      ctrl,
		exportSvc: exportSvc,
		draft:     ctrl.Current(),
		input:     in,
		table: newTable([]table.Column{
			{Title: "#", Width: 3},
			{Title: "Item", Width: 30},
			{Title: "Qty", Width: 5},
			{Title: "Price", Width: 12},
			{Title: "Total", Width: 14},
		}, 12),
	}
	m.refreshTable()

	return m
}

func (m RegisterModel) Title() string { return "Register" }

func (m RegisterModel) ShortHelp() string {
	if m.state != registerStateScan {
		return "Esc: cancel"
	}

	return "Enter: add | ↑/↓: line | PgUp/PgDn: qty | Del: remove | F2: discount | F3: pay | " +
		"F4: customer | F5: hold | F7: cancel sale | F8: new | F9: last receipt | Esc: back"
}

func (m RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DraftMsg:
		m.draft = msg.Sale
		m.refreshTable()

		return m, nil

	case registerActionMsg:
		m.err = msg.err
		m.status = msg.status
		m.draft = m.ctrl.Current()
		m.refreshTable()

		if msg.receipt != "" {
			m.receipt = msg.receipt
			m.state = registerStateReceipt
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-16, 5))
		return m, nil
	}

	switch m.state {
	case registerStateScan:
		return m.updateScan(msg)
	case registerStateReceipt:
		if _, ok := msg.(tea.KeyMsg); ok {
			m.state = registerStateScan
			m.receipt = ""
		}

		return m, nil
	default:
		return m.updateForm(msg)
	}
}

func (m RegisterModel) updateScan(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)

		return m, cmd
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "enter":
		ref, qty, err := parseScan(m.input.Value())
		m.input.Reset()

		if err != nil {
			m.err = err
			return m, nil
		}

		return m, m.run("", func() error {
			ctx, cancel := DbCtx()
			defer cancel()

			return m.ctrl.AddItem(ctx, ref, qty)
		})
	case "up", "down":
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	case "pgup", "pgdown":
		delta := 1
		if keyMsg.String() == "pgdown" {
			delta = -1
		}

		index := m.table.Cursor()

		return m, m.run("", func() error {
			ctx, cancel := DbCtx()
			defer cancel()

			return m.ctrl.ChangeQuantity(ctx, index, delta)
		})
	case "delete":
		index := m.table.Cursor()

		return m, m.run("", func() error {
			ctx, cancel := DbCtx()
			defer cancel()

			return m.ctrl.RemoveItem(ctx, index)
		})
	case "f2":
		return m.openDiscountForm()
	case "f3":
		return m.openPayForm()
	case "f4":
		return m.openCustomerForm()
	case "f5":
		return m, m.holdCmd()
	case "f7":
		return m, m.run("Sale cancelled.", func() error {
			ctx, cancel := DbCtx()
			defer cancel()

			return m.ctrl.Cancel(ctx)
		})
	case "f8":
		return m, m.run("Started a new sale.", func() error {
			ctx, cancel := DbCtx()
			defer cancel()

			return m.ctrl.StartNew(ctx)
		})
	case "f9":
		return m, m.lastReceiptCmd()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m RegisterModel) openDiscountForm() (tea.Model, tea.Cmd) {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Discount").
				Value(new(m.draft.Discount.String())).
				Validate(validateAmount),
		),
	).WithWidth(40).WithShowHelp(false)
	m.state = registerStateDiscount
	m.input.Blur()

	return m, m.form.Init()
}

func (m RegisterModel) openPayForm() (tea.Model, tea.Cmd) {
	method := m.draft.PaymentMethod
	if method == "" {
		method = paymentMethods[0]
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title(fmt.Sprintf("Amount paid (total %s)", FormatMoney(m.draft.Total))).
				Value(new(m.draft.Total.String())).
				Validate(validateAmount),
			huh.NewSelect[string]().
				Key("method").
				Title("Method").
				Options(huh.NewOptions(paymentMethods...)...).
				Value(&method),
			huh.NewInput().
				Key("details").
				Title("Reference").
				Placeholder("card slip, transfer ref...").
				Value(new(m.draft.PaymentDetails)),
		),
	).WithWidth(40).WithShowHelp(false)
	m.state = registerStatePay
	m.input.Blur()

	return m, m.form.Init()
}

func (m RegisterModel) openCustomerForm() (tea.Model, tea.Cmd) {
	var name, phone string
	if c := m.draft.Customer; c != nil {
		name, phone = c.Name, c.Phone
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("name").Title("Customer name").Value(&name),
			huh.NewInput().Key("phone").Title("Phone").Value(&phone),
		),
	).WithWidth(40).WithShowHelp(false)
	m.state = registerStateCustomer
	m.input.Blur()

	return m, m.form.Init()
}

func (m RegisterModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.closeForm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	state, done := m.state, m.form
	m = m.closeForm()

	switch state {
	case registerStateDiscount:
		amount := decimal.RequireFromString(strings.TrimSpace(done.GetString("amount")))

		return m, m.run("", func() error {
			ctx, cancel := DbCtx()
			defer cancel()

			return m.ctrl.SetDiscount(ctx, amount)
		})
	case registerStatePay:
		amount := decimal.RequireFromString(strings.TrimSpace(done.GetString("amount")))

		return m, m.payCmd(amount, done.GetString("method"), done.GetString("details"))
	case registerStateCustomer:
		name, phone := strings.TrimSpace(done.GetString("name")), strings.TrimSpace(done.GetString("phone"))

		var ref *shop.CustomerRef
		if name != "" || phone != "" {
			ref = &shop.CustomerRef{Name: name, Phone: phone}
		}

		return m, m.run("", func() error {
			ctx, cancel := DbCtx()
			defer cancel()

			return m.ctrl.SetCustomer(ctx, ref)
		})
	}

	return m, nil
}

func (m RegisterModel) closeForm() RegisterModel {
	m.state = registerStateScan
	m.form = nil
	m.input.Focus()

	return m
}

func (m RegisterModel) View() string {
	if m.state == registerStateReceipt {
		return lipgloss.NewStyle().Padding(1).Render(m.receipt + "\n\n(any key to continue)")
	}

	id := m.draft.ID
	if id == "" {
		id = "new sale"
	}

	header := fmt.Sprintf("%s  [%s]  items: %d", activeStyle(id), m.draft.Status, m.draft.ItemCount())
	if c := m.draft.Customer; c != nil {
		header += "  customer: " + c.Name
	}

	totals := fmt.Sprintf(
		"Subtotal %s   Discount %s   Total %s   Paid %s   Change %s",
		FormatMoney(m.draft.Subtotal),
		FormatMoney(m.draft.Discount),
		activeStyle(FormatMoney(m.draft.Total)),
		FormatMoney(m.draft.Payment),
		FormatMoney(m.draft.Change),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		boxed(m.table.View()),
		totals,
		"",
		m.input.View(),
	)

	if m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(44).
			Render(m.form.View())

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

func (m *RegisterModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.draft.Items))
	for i, it := range m.draft.Items {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			it.Name,
			strconv.Itoa(it.Qty),
			FormatMoney(it.UnitPrice),
			FormatMoney(it.LineTotal()),
		})
	}

	m.table.SetRows(rows)

	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// parseScan reads "REF" or "QTY*REF".
func parseScan(s string) (string, int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", 0, fmt.Errorf("nothing scanned")
	}

	qtyPart, ref, found := strings.Cut(s, "*")
	if !found {
		return s, 1, nil
	}

	qty, err := strconv.Atoi(strings.TrimSpace(qtyPart))
	if err != nil || qty < 1 {
		return "", 0, fmt.Errorf("invalid quantity %q", qtyPart)
	}

	return strings.TrimSpace(ref), qty, nil
}

func validateAmount(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a number")
	}

	if d.IsNegative() {
		return fmt.Errorf("amount cannot be negative")
	}

	return nil
}

// Messages

type registerActionMsg struct {
	status  string
	receipt string
	err     error
}

func (m RegisterModel) run(status string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return registerActionMsg{err: err}
		}

		return registerActionMsg{status: status}
	}
}

func (m RegisterModel) holdCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		held, err := m.ctrl.Hold(ctx)
		if err != nil {
			return registerActionMsg{err: err}
		}

		return registerActionMsg{status: fmt.Sprintf("Sale %s held.", held.ID)}
	}
}

func (m RegisterModel) payCmd(amount decimal.Decimal, method, details string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.ctrl.SetPayment(ctx, amount); err != nil {
			return registerActionMsg{err: err}
		}

		if err := m.ctrl.SetPaymentMethod(ctx, method, details); err != nil {
			return registerActionMsg{err: err}
		}

		closed, err := m.ctrl.Complete(ctx)
		if err != nil {
			return registerActionMsg{err: err}
		}

		receipt, err := m.exportSvc.Receipt(closed.ID)
		if err != nil {
			return registerActionMsg{status: fmt.Sprintf("Sale %s completed, change %s.", closed.ID, FormatMoney(closed.Change))}
		}

		return registerActionMsg{
			status:  fmt.Sprintf("Sale %s completed, change %s.", closed.ID, FormatMoney(closed.Change)),
			receipt: receipt,
		}
	}
}

func (m RegisterModel) lastReceiptCmd() tea.Cmd {
	return func() tea.Msg {
		id, ok := m.ctrl.LastClosedID()
		if !ok {
			return registerActionMsg{err: fmt.Errorf("no sale completed in this session")}
		}

		receipt, err := m.exportSvc.Receipt(id)
		if err != nil {
			return registerActionMsg{err: err}
		}

		return registerActionMsg{receipt: receipt}
	}
}
