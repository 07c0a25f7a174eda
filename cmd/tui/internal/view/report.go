package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/till/internal/report"
)

// Timeframe is a predefined reporting range.
type Timeframe int

const (
	TimeframeToday Timeframe = iota
	TimeframeThisWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeAll
)

var timeframes = []Timeframe{TimeframeToday, TimeframeThisWeek, TimeframeThisMonth, TimeframeLastMonth, TimeframeAll}

func (t Timeframe) String() string {
	switch t {
	case TimeframeToday:
		return "Today"
	case TimeframeThisWeek:
		return "This Week"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeAll:
		return "All Time"
	}

	return "Unknown"
}

// Filter turns the timeframe into a report filter relative to now. Weeks
// start on Monday.
func (t Timeframe) Filter(now time.Time) report.Filter {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var start, end time.Time

	switch t {
	case TimeframeToday:
		start, end = day, day.AddDate(0, 0, 1)
	case TimeframeThisWeek:
		offset := int(now.Weekday())
		if offset == 0 {
			offset = 7
		}

		start = day.AddDate(0, 0, -offset+1)
		end = start.AddDate(0, 0, 7)
	case TimeframeThisMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, 0)
	case TimeframeLastMonth:
		end = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		start = end.AddDate(0, -1, 0)
	default:
		return report.Filter{}
	}

	end = end.Add(-time.Nanosecond)

	return report.Filter{StartDate: &start, EndDate: &end}
}

type ReportModel struct {
	CommonModel
	reports *report.Service

	frameIdx int
	summary  report.Summary
	top      table.Model
}

func NewReportModel(svc *report.Service) ReportModel {
	m := ReportModel{
		reports: svc,
		top: newTable([]table.Column{
			{Title: "Product", Width: 30},
			{Title: "Qty", Width: 6},
			{Title: "Revenue", Width: 14},
		}, 6),
	}
	m.load()

	return m
}

func (m ReportModel) Title() string     { return "Reports" }
func (m ReportModel) ShortHelp() string { return "t: timeframe | r: refresh | Esc: back" }

func (m ReportModel) Init() tea.Cmd {
	return nil
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "t":
			m.frameIdx = (m.frameIdx + 1) % len(timeframes)
			m.load()
		case "r":
			m.load()
		}
	}

	return m, nil
}

func (m ReportModel) View() string {
	s := m.summary

	var sb strings.Builder

	fmt.Fprintf(&sb, "Timeframe: [t] %s\n\n", activeStyle(timeframes[m.frameIdx].String()))
	fmt.Fprintf(&sb, "Sales:          %d (%d held)\n", s.SalesCount, s.OpenCount)
	fmt.Fprintf(&sb, "Items sold:     %d\n", s.ItemsSold)
	fmt.Fprintf(&sb, "Gross:          %s\n", FormatMoney(s.Gross))
	fmt.Fprintf(&sb, "Discounts:      %s\n", FormatMoney(s.Discounts))
	fmt.Fprintf(&sb, "Revenue:        %s\n", activeStyle(FormatMoney(s.Revenue)))
	fmt.Fprintf(&sb, "Cost:           %s\n", FormatMoney(s.Cost))
	fmt.Fprintf(&sb, "Profit:         %s\n", FormatMoney(s.Profit))
	fmt.Fprintf(&sb, "Average ticket: %s\n\n", FormatMoney(s.AverageTicket))

	sb.WriteString("Top products\n")
	sb.WriteString(boxed(m.top.View()))

	if len(s.LowStock) > 0 {
		names := make([]string, 0, len(s.LowStock))
		for _, p := range s.LowStock {
			names = append(names, fmt.Sprintf("%s (%d)", p.Name, p.Stock))
		}

		sb.WriteString("\n" + errorStyle("Low stock: "+strings.Join(names, ", ")))
	}

	return lipgloss.NewStyle().Padding(1).Render(sb.String())
}

func (m *ReportModel) load() {
	m.summary = m.reports.Summary(timeframes[m.frameIdx].Filter(time.Now()))

	rows := make([]table.Row, 0, len(m.summary.TopProducts))
	for _, p := range m.summary.TopProducts {
		rows = append(rows, table.Row{p.Name, strconv.Itoa(p.Qty), FormatMoney(p.Revenue)})
	}

	m.top.SetRows(rows)
}
