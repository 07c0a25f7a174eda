package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/till/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/till/internal/app"
	"github.com/MrJamesThe3rd/till/internal/config"
	"github.com/MrJamesThe3rd/till/internal/shop"
)

type model struct {
	app *app.App

	currentView View

	registerView view.RegisterModel
	heldView     view.HeldModel
	productsView view.ProductsModel
	importView   view.ImportModel
	reportView   view.ReportModel
	backupView   view.BackupModel
}

type View int

const (
	ViewMenu     View = 0
	ViewRegister View = 1
	ViewHeld     View = 2
	ViewProducts View = 3
	ViewImport   View = 4
	ViewReport   View = 5
	ViewBackup   View = 6
)

func initialModel(a *app.App) model {
	return model{
		app:          a,
		currentView:  ViewMenu,
		registerView: view.NewRegisterModel(a.Register, a.Export),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewRegister
				return m, m.registerView.Init()
			case "2":
				m.currentView = ViewHeld
				m.heldView = view.NewHeldModel(m.app.Register)

				return m, m.heldView.Init()
			case "3":
				m.currentView = ViewProducts
				m.productsView = view.NewProductsModel(m.app.Catalog, m.app.Register.Current().SalespersonID)

				return m, m.productsView.Init()
			case "4":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.app.Importer)

				return m, m.importView.Init()
			case "5":
				m.currentView = ViewReport
				m.reportView = view.NewReportModel(m.app.Reports)

				return m, m.reportView.Init()
			case "6":
				m.currentView = ViewBackup
				m.backupView = view.NewBackupModel(m.app.Export)

				return m, m.backupView.Init()
			}
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	case view.EditLoadedMsg:
		m.currentView = ViewRegister
		return m, nil
	case view.DraftMsg:
		// The register keeps its draft current even while another screen is shown.
		newModel, cmd := m.registerView.Update(msg)
		m.registerView = newModel.(view.RegisterModel)

		return m, cmd
	}

	switch m.currentView {
	case ViewRegister:
		var newModel tea.Model
		newModel, cmd = m.registerView.Update(msg)
		m.registerView = newModel.(view.RegisterModel)
	case ViewHeld:
		var newModel tea.Model
		newModel, cmd = m.heldView.Update(msg)
		m.heldView = newModel.(view.HeldModel)
	case ViewProducts:
		var newModel tea.Model
		newModel, cmd = m.productsView.Update(msg)
		m.productsView = newModel.(view.ProductsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewReport:
		var newModel tea.Model
		newModel, cmd = m.reportView.Update(msg)
		m.reportView = newModel.(view.ReportModel)
	case ViewBackup:
		var newModel tea.Model
		newModel, cmd = m.backupView.Update(msg)
		m.backupView = newModel.(view.BackupModel)
	}

	return m, cmd
}

func (m model) View() string {
	var v view.View

	switch m.currentView {
	case ViewMenu:
		draft := m.app.Register.Current()

		return lipgloss.NewStyle().Padding(2).Render(
			"Till\n\n" +
				"1. Register (" + itemsLabel(draft) + ")\n" +
				"2. Held Sales\n" +
				"3. Products\n" +
				"4. Import Products\n" +
				"5. Reports\n" +
				"6. Backup\n\n" +
				"q. Quit",
		)
	case ViewRegister:
		v = m.registerView
	case ViewHeld:
		v = m.heldView
	case ViewProducts:
		v = m.productsView
	case ViewImport:
		v = m.importView
	case ViewReport:
		v = m.reportView
	case ViewBackup:
		v = m.backupView
	default:
		return "Unknown View"
	}

	help := lipgloss.NewStyle().Faint(true).Render(v.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(v.Title()), v.View(), help)
}

func itemsLabel(s shop.Sale) string {
	if len(s.Items) == 0 {
		return "empty"
	}

	label := "draft"
	if s.ID != "" {
		label = s.ID
	}

	return label + ", " + s.Total.StringFixed(2)
}

func main() {
	_ = godotenv.Load()

	// Log lines would corrupt the alt screen.
	if f, err := tea.LogToFile("till-tui.log", "till"); err == nil {
		defer f.Close()
		slog.SetDefault(slog.New(slog.NewTextHandler(f, nil)))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	a, err := app.Open(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open register", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(initialModel(a), tea.WithAltScreen())

	unsubscribe := a.Register.Subscribe(func(s shop.Sale) {
		p.Send(view.DraftMsg{Sale: s})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
