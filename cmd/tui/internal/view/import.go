package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/till/internal/catalog"
	"github.com/MrJamesThe3rd/till/internal/importer"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateParsing
	importStatePreview
	importStateResult
)

type ImportModel struct {
	CommonModel
	importService *importer.Service

	state      importState
	filePicker filepicker.Model

	params      []catalog.ProductParams
	previewList list.Model

	status string
	err    error
}

func NewImportModel(impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		importService: impSvc,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "Import Products" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStatePreview {
		return "Enter: import all | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStatePreview {
			if msg.Type == tea.KeyEnter {
				m.state = importStateParsing
				m.status = fmt.Sprintf("Saving %d products...", len(m.params))

				return m, m.saveCmd()
			}

			var cmd tea.Cmd
			m.previewList, cmd = m.previewList.Update(msg)

			return m, cmd
		}

	case parseResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.params = msg.params
		m.state = importStatePreview

		items := make([]list.Item, len(m.params))
		for i, p := range m.params {
			items[i] = productItem{params: p}
		}

		m.previewList = list.New(items, productDelegate{}, 80, 20)
		m.previewList.Title = fmt.Sprintf("%d products found", len(items))
		m.previewList.SetShowStatusBar(false)
		m.previewList.SetFilteringEnabled(false)
		m.previewList.SetShowHelp(false)

		return m, nil

	case saveResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d products: %d new, %d updated.",
			msg.result.Parsed, msg.result.Created, msg.result.Updated)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateParsing
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.parseCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStatePreview, importStateResult:
		m.state = importStateFilePick
		m.params = nil
		m.err = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render("Select a product CSV:\n\n" + m.filePicker.View())
	case importStateParsing:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStatePreview:
		return lipgloss.NewStyle().Padding(1).Render(m.previewList.View())
	case importStateResult:
		msg := okStyle(m.status)
		if m.err != nil {
			msg = errorStyle(m.status)
		}

		return lipgloss.NewStyle().Padding(2).Render(msg + "\n\n(Esc to go back)")
	}

	return ""
}

// Messages

type parseResultMsg struct {
	params []catalog.ProductParams
	err    error
}

type saveResultMsg struct {
	result importer.Result
	err    error
}

func (m ImportModel) parseCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parseResultMsg{err: err}
		}
		defer f.Close()

		params, err := m.importService.Parse(importer.FormatCSV, f)

		return parseResultMsg{params: params, err: err}
	}
}

func (m ImportModel) saveCmd() tea.Cmd {
	params := m.params

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.importService.Save(ctx, params)

		return saveResultMsg{result: result, err: err}
	}
}

// Preview list item

type productItem struct {
	params catalog.ProductParams
}

func (i productItem) Title() string       { return i.params.Name }
func (i productItem) Description() string { return i.params.SKU }
func (i productItem) FilterValue() string { return i.params.Name }

type productDelegate struct{}

func (d productDelegate) Height() int                             { return 1 }
func (d productDelegate) Spacing() int                            { return 0 }
func (d productDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d productDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(productItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	p := item.params
	fmt.Fprintf(w, "%s%-12s %-30s %12s  stock %d", cursor, p.SKU, p.Name, FormatMoney(p.SellPrice), p.Stock)
}
