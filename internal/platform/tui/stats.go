package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/message"

	"github.com/vovakirdan/coindash/internal/analytics"
)

const minWidthForSidePanel = 110 // Summary sits beside the table above this width

// StatsKeyMap defines the key bindings for the session stats screen.
type StatsKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Sort    key.Binding
	Reverse key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k StatsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Sort, k.Reverse, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k StatsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Sort, k.Reverse, k.Quit}}
}

// DefaultStatsKeyMap returns default key bindings.
func DefaultStatsKeyMap() StatsKeyMap {
	return StatsKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "scroll up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "scroll down")),
		Sort:    key.NewBinding(key.WithKeys("s", "tab"), key.WithHelp("s", "sort column")),
		Reverse: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reverse")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// StatsModel shows the telemetry summary and the per-session table.
type StatsModel struct {
	sessions []analytics.Session
	summary  analytics.Summary
	printer  *message.Printer
	sortIdx  int
	desc     bool
	table    table.Model
	help     help.Model
	keys     StatsKeyMap
	width    int
	height   int
	quitting bool
}

// NewStatsModel creates the stats screen sorted by sortKey, newest or
// largest first.
func NewStatsModel(sessions []analytics.Session, sortKey analytics.SortKey, printer *message.Printer, width, height int) StatsModel {
	if printer == nil {
		printer = analytics.Printer("en")
	}
	m := StatsModel{
		sessions: sessions,
		summary:  analytics.Summarize(sessions),
		printer:  printer,
		desc:     true,
		help:     help.New(),
		keys:     DefaultStatsKeyMap(),
		width:    width,
		height:   height,
	}
	for i, k := range analytics.SortKeys {
		if k == sortKey {
			m.sortIdx = i
		}
	}
	m.table = m.createTable()
	m.resort()
	return m
}

func (m *StatsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Session", Width: 8},
		{Title: "Date", Width: 12},
		{Title: "Distance", Width: 9},
		{Title: "Coins", Width: 6},
		{Title: "Jumps", Width: 6},
		{Title: "Score", Width: 8},
		{Title: "Time", Width: 7},
		{Title: "Cause", Width: 11},
	}
	height := m.height - 8
	if m.width < minWidthForSidePanel {
		height -= len(m.summary.Lines(m.printer)) + 2
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(height, 3)),
	)
	t.SetStyles(tableStyles())
	return t
}

// resort orders the sessions by the current key and refreshes the rows.
func (m *StatsModel) resort() {
	analytics.SortSessions(m.sessions, analytics.SortKeys[m.sortIdx], m.desc)

	rows := make([]table.Row, len(m.sessions))
	for i, s := range m.sessions {
		id := s.ID
		if len(id) > 8 {
			id = id[len(id)-8:]
		}
		cause := s.DeathCause
		if cause == "" {
			cause = analytics.Completed
		}
		rows[i] = table.Row{
			id,
			s.Timestamp.Format("Jan 02 15:04"),
			m.printer.Sprintf("%.0f", s.Distance),
			m.printer.Sprintf("%d", s.Coins),
			m.printer.Sprintf("%d", s.Jumps),
			m.printer.Sprintf("%d", s.Score),
			fmt.Sprintf("%.1fs", s.CompletionTime),
			cause,
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// SortKey returns the active sort column.
func (m StatsModel) SortKey() analytics.SortKey {
	return analytics.SortKeys[m.sortIdx]
}

// Init initializes the stats model.
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the stats screen.
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Sort):
			m.sortIdx = (m.sortIdx + 1) % len(analytics.SortKeys)
			m.resort()
			return m, nil
		case key.Matches(msg, m.keys.Reverse):
			m.desc = !m.desc
			m.resort()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.resort()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the stats screen.
func (m StatsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(centerText("COINDASH SESSION STATS", m.width)))
	b.WriteString("\n\n")

	summary := panelStyle.Render(m.renderSummary())
	var sessions string
	if len(m.sessions) == 0 {
		sessions = panelStyle.Render(emptyStyle.Render("No sessions recorded yet."))
	} else {
		order := "asc"
		if m.desc {
			order = "desc"
		}
		sessions = panelStyle.Render(
			labelStyle.Render(fmt.Sprintf("sorted by %s (%s)", m.SortKey(), order)) + "\n" + m.table.View(),
		)
	}

	if m.width >= minWidthForSidePanel {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, summary, "  ", sessions))
	} else {
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, summary, sessions))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m StatsModel) renderSummary() string {
	lines := m.summary.Lines(m.printer)
	width := 0
	for _, l := range lines {
		width = max(width, len(l[0]))
	}

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", width, l[0])))
		b.WriteString("  ")
		b.WriteString(l[1])
	}
	return b.String()
}

// RunStats runs the session stats screen.
func RunStats(sessions []analytics.Session, sortKey analytics.SortKey, printer *message.Printer, width, height int) error {
	p := tea.NewProgram(
		NewStatsModel(sessions, sortKey, printer, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
