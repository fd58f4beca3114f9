package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/pfsheet/internal/export"
	"github.com/manav03panchal/pfsheet/internal/model"
	"github.com/manav03panchal/pfsheet/internal/parser"
	"github.com/manav03panchal/pfsheet/internal/storage"
)

// tickMsg is sent when the timer ticks.
type tickMsg time.Time

// pageMsg carries a freshly loaded page.
type pageMsg struct {
	result *storage.Result
	err    error
}

// exportMsg reports the outcome of an export.
type exportMsg struct {
	artifact *export.Artifact
	err      error
}

// BrowserModel is the bubbletea model for paging through timesheets.
type BrowserModel struct {
	// Data
	rows  []*model.Timesheet
	count int

	// Services
	repo     *storage.TimesheetRepo
	exporter *export.Service
	filter   storage.Filter

	// UI state
	page       int
	cursor     int
	detail     bool
	width      int
	height     int
	err        error
	message    string
	messageExp time.Time

	// Configuration
	pageSize     int
	tickInterval time.Duration
}

// BrowserConfig holds configuration for the browser.
type BrowserConfig struct {
	Repo     *storage.TimesheetRepo
	Exporter *export.Service
	// Filter selects the records to browse; its paging fields are ignored.
	Filter       storage.Filter
	PageSize     int
	TickInterval time.Duration
}

// NewBrowserModel creates a new browser model.
func NewBrowserModel(config BrowserConfig) *BrowserModel {
	if config.PageSize <= 0 {
		config.PageSize = 15
	}
	if config.TickInterval == 0 {
		config.TickInterval = time.Second
	}
	config.Filter.Limit, config.Filter.Offset = 0, 0

	return &BrowserModel{
		repo:         config.Repo,
		exporter:     config.Exporter,
		filter:       config.Filter,
		pageSize:     config.PageSize,
		tickInterval: config.TickInterval,
	}
}

// Init initializes the model.
func (m *BrowserModel) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.loadCmd(),
	)
}

// Update handles messages and updates the model.
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// Clear expired messages
		if !m.messageExp.IsZero() && time.Now().After(m.messageExp) {
			m.message = ""
			m.messageExp = time.Time{}
		}
		return m, m.tickCmd()

	case pageMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.rows = msg.result.Rows
		m.count = msg.result.Count
		if m.cursor >= len(m.rows) {
			m.cursor = max(len(m.rows)-1, 0)
		}
		return m, nil

	case exportMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.setMessage(fmt.Sprintf("Exported %d rows to %s", msg.artifact.Count, msg.artifact.Path), 5*time.Second)
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input.
func (m *BrowserModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.detail = false
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil

	case "right", "l", "pgdown", "n":
		if m.page < m.Pages()-1 {
			m.page++
			m.cursor = 0
			return m, m.loadCmd()
		}
		return m, nil

	case "left", "h", "pgup", "p":
		if m.page > 0 {
			m.page--
			m.cursor = 0
			return m, m.loadCmd()
		}
		return m, nil

	case "enter":
		m.detail = !m.detail && m.Selected() != nil
		return m, nil

	case "e":
		if m.exporter == nil {
			m.setMessage("Export is not available", 2*time.Second)
			return m, nil
		}
		return m, m.exportCmd()

	case "r":
		m.setMessage("Refreshed", time.Second)
		return m, m.loadCmd()
	}

	return m, nil
}

// Pages returns the number of pages for the current match count.
func (m *BrowserModel) Pages() int {
	if m.count == 0 {
		return 1
	}
	return (m.count + m.pageSize - 1) / m.pageSize
}

// Selected returns the record under the cursor, or nil.
func (m *BrowserModel) Selected() *model.Timesheet {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor]
}

// View renders the browser.
func (m *BrowserModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	if m.err != nil {
		sections = append(sections, StyleError.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	if m.message != "" {
		sections = append(sections, StyleWarning.Render(m.message))
	}

	if m.detail {
		sections = append(sections, NewDetailComponent(m.Selected(), m.width).View())
	} else {
		sections = append(sections, NewTableComponent(m.rows, m.cursor, m.width).View())
	}

	sections = append(sections, HelpBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title, active filter and page position.
func (m *BrowserModel) renderHeader() string {
	title := StyleTitle.Render("pfsheet")

	scope := "all"
	if m.filter.Legajo != "" {
		scope = "legajo " + m.filter.Legajo
	}
	if m.filter.DateFrom != "" || m.filter.DateTo != "" {
		scope += fmt.Sprintf(", %s to %s", parser.FormatDate(m.filter.DateFrom), parser.FormatDate(m.filter.DateTo))
	}
	info := StyleSubtitle.Render(fmt.Sprintf("%s  page %d/%d  (%d records)", scope, m.page+1, m.Pages(), m.count))

	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", info) + "\n"
}

// setMessage sets a temporary message.
func (m *BrowserModel) setMessage(msg string, duration time.Duration) {
	m.message = msg
	m.messageExp = time.Now().Add(duration)
}

// tickCmd returns a command that sends a tick message.
func (m *BrowserModel) tickCmd() tea.Cmd {
	return tea.Tick(m.tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadCmd returns a command that queries the current page.
func (m *BrowserModel) loadCmd() tea.Cmd {
	f := m.filter
	f.Limit = m.pageSize
	f.Offset = m.page * m.pageSize
	repo := m.repo
	return func() tea.Msg {
		res, err := repo.Query(context.Background(), f)
		return pageMsg{result: res, err: err}
	}
}

// exportCmd returns a command that exports every record matching the filter.
func (m *BrowserModel) exportCmd() tea.Cmd {
	f := m.filter
	exporter := m.exporter
	return func() tea.Msg {
		art, err := exporter.Export(context.Background(), f)
		return exportMsg{artifact: art, err: err}
	}
}

// Run starts the browser TUI.
func Run(config BrowserConfig) error {
	p := tea.NewProgram(NewBrowserModel(config), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
