package view

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/till/internal/export"
)

type backupState int

const (
	backupStatePath backupState = iota
	backupStateWriting
	backupStateResult
)

type BackupModel struct {
	CommonModel
	exportService *export.Service

	state   backupState
	form    *huh.Form
	spinner spinner.Model
	written string
	err     error
}

func NewBackupModel(svc *export.Service) BackupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return BackupModel{
		exportService: svc,
		form:          buildBackupForm(),
		spinner:       s,
	}
}

func (m BackupModel) Title() string { return "Backup" }

func (m BackupModel) ShortHelp() string {
	switch m.state {
	case backupStateWriting:
		return "Writing..."
	case backupStateResult:
		return "Esc: back to menu"
	}

	return "Esc: back | Enter: confirm"
}

func (m BackupModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m BackupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case backupStatePath:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		m.state = backupStateWriting
		m.err = nil

		return m, tea.Batch(m.spinner.Tick, m.writeCmd(m.form.GetString("dir")))

	case backupStateWriting:
		if result, ok := msg.(backupResultMsg); ok {
			m.state = backupStateResult
			m.written = result.path
			m.err = result.err

			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case backupStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func buildBackupForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("dir").
				Title("Output Directory").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./backups").
				Value(new("./backups")),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m BackupModel) View() string {
	switch m.state {
	case backupStatePath:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case backupStateWriting:
		return lipgloss.NewStyle().Padding(1).Render(m.spinner.View() + " Writing backup archive...")
	case backupStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
		}

		return lipgloss.NewStyle().Padding(1).Render(
			okStyle("Backup written to "+m.written) + "\n\n(Esc to go back)",
		)
	}

	return ""
}

type backupResultMsg struct {
	path string
	err  error
}

func (m BackupModel) writeCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return backupResultMsg{err: fmt.Errorf("creating output directory: %w", err)}
		}

		path := filepath.Join(dir, fmt.Sprintf("till_backup_%s.zip", time.Now().Format("20060102_150405")))

		f, err := os.Create(path)
		if err != nil {
			return backupResultMsg{err: fmt.Errorf("creating file: %w", err)}
		}
		defer f.Close()

		if err := m.exportService.WriteArchive(f); err != nil {
			return backupResultMsg{err: err}
		}

		return backupResultMsg{path: path}
	}
}
